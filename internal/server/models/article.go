package models

import "time"

// Article is a catalogued publication. Term always holds the canonical
// vocabulary label; translation to Lang happens in the service layer.
type Article struct {
	ID              int64
	Name            string
	Term            string
	Terminology     string
	Author          string
	KeyWords        string
	PublicationYear int
	URL             string
	Identifier      string
	UsageContext    string
	MathApparatus   string
	Solving         string
	Interests       string
	Lang            string
	UserID          int64
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Problems is populated only by loaders that join problems.
	Problems []*Problem
}

// ArticleFields are the fields an owner may overwrite in a combined update.
// Lang and PublicationYear are fixed at creation.
type ArticleFields struct {
	Name          string
	Term          string
	Terminology   string
	Author        string
	KeyWords      string
	URL           string
	Identifier    string
	UsageContext  string
	MathApparatus string
	Solving       string
	Interests     string
}

// ArticleFilter narrows a catalogue search. Nil fields impose no constraint.
type ArticleFilter struct {
	Term   *string
	Name   *string
	Author *string
	Year   *int
}
