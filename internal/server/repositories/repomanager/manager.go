package repomanager

import (
	"github.com/dmitrijs2005/scicatalog/internal/dbx"
	"github.com/dmitrijs2005/scicatalog/internal/server/repositories/articles"
	"github.com/dmitrijs2005/scicatalog/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a handle, so the same code
// runs against the pool or inside a transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Articles(db dbx.DBTX) articles.Repository
}
