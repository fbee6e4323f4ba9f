// Package articles persists catalogued articles and the problems attached
// to them.
package articles

import (
	"context"

	"github.com/dmitrijs2005/scicatalog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, article *models.Article) (*models.Article, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Article, error)
	GetByName(ctx context.Context, name string) (*models.Article, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.Article, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Article, error)
	Search(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	UpdateFields(ctx context.Context, id int64, fields models.ArticleFields) error

	CreateProblem(ctx context.Context, problem *models.Problem) (*models.Problem, error)
	ListProblems(ctx context.Context, articleID int64) ([]*models.Problem, error)
	SetProblemSolved(ctx context.Context, articleID, problemID int64, solved bool) error
}
