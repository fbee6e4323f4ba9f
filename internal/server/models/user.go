// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. HashedPassword is the bcrypt output and is
// never serialized.
type User struct {
	ID             int64
	Email          string
	Name           string
	HashedPassword []byte
	CreatedAt      time.Time
}
