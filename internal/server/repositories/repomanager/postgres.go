// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together the repository constructors.
package repomanager

import (
	"github.com/dmitrijs2005/scicatalog/internal/dbx"
	"github.com/dmitrijs2005/scicatalog/internal/server/repositories/articles"
	"github.com/dmitrijs2005/scicatalog/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Articles returns an articles.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Articles(db dbx.DBTX) articles.Repository {
	return articles.NewPostgresRepository(db)
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
