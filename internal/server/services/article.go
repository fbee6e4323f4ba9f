package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/scicatalog/internal/common"
	"github.com/dmitrijs2005/scicatalog/internal/dbx"
	"github.com/dmitrijs2005/scicatalog/internal/logging"
	"github.com/dmitrijs2005/scicatalog/internal/server/models"
	"github.com/dmitrijs2005/scicatalog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/scicatalog/internal/server/terms"
)

// NewArticle is the input of ArticleService.Create. Term may be given in
// either language; Lang fixes the language the article is displayed in.
type NewArticle struct {
	models.ArticleFields
	PublicationYear int
	Lang            string
}

// SearchParams narrows ArticleService.Search. Term may be a label of either
// language.
type SearchParams struct {
	Term   *string
	Name   *string
	Author *string
	Year   *int
}

// ArticleService implements the catalogue: article creation, lookup and
// search, problem attachment and the combined article/problem update.
type ArticleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

// NewArticleService constructs an ArticleService.
func NewArticleService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ArticleService {
	return &ArticleService{db: db, repomanager: m, logger: logger.With("module", "article_service")}
}

// Create stores a new article owned by userID. Name and identifier must be
// unused; both are checked inside the insert transaction and enforced again
// by the database.
func (s *ArticleService) Create(ctx context.Context, userID int64, in NewArticle) (*models.Article, error) {
	lang, err := terms.ParseLang(in.Lang)
	if err != nil {
		return nil, err
	}
	term, err := terms.ToCanonical(in.Term, lang)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		Name:            in.Name,
		Term:            term,
		Terminology:     in.Terminology,
		Author:          in.Author,
		KeyWords:        in.KeyWords,
		PublicationYear: in.PublicationYear,
		URL:             in.URL,
		Identifier:      in.Identifier,
		UsageContext:    in.UsageContext,
		MathApparatus:   in.MathApparatus,
		Solving:         in.Solving,
		Interests:       in.Interests,
		Lang:            string(lang),
		UserID:          userID,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Articles(tx)

		taken, err := exists(repo.GetByName(ctx, article.Name))
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: article with name %q already exists", common.ErrConflict, article.Name)
		}

		taken, err = exists(repo.GetByIdentifier(ctx, article.Identifier))
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: article with identifier %q already exists", common.ErrConflict, article.Identifier)
		}

		article, err = repo.Create(ctx, article)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "article created", "article_id", article.ID, "user_id", userID)
	return s.display(article)
}

// exists turns a point lookup into a presence check.
func exists(_ *models.Article, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Get returns an article with its problems, term shown in the article language.
func (s *ArticleService) Get(ctx context.Context, id int64) (*models.Article, error) {
	article, err := s.repomanager.Articles(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("article %d: %w", id, err)
	}
	return s.display(article)
}

// ListMine returns the articles owned by userID.
func (s *ArticleService) ListMine(ctx context.Context, userID int64) ([]*models.Article, error) {
	return s.repomanager.Articles(s.db).ListByUser(ctx, userID)
}

// Search filters the catalogue. Every given parameter must match.
func (s *ArticleService) Search(ctx context.Context, p SearchParams) ([]*models.Article, error) {
	filter := models.ArticleFilter{Name: p.Name, Author: p.Author, Year: p.Year}
	if p.Term != nil {
		term, err := terms.ToCanonical(*p.Term, terms.Canonical)
		if err != nil {
			return nil, err
		}
		filter.Term = &term
	}
	return s.repomanager.Articles(s.db).Search(ctx, filter)
}

// CreateProblem attaches a new unsolved problem to someone else's article.
func (s *ArticleService) CreateProblem(ctx context.Context, userID, articleID int64, text string) (*models.Problem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: problem text is empty", common.ErrValidation)
	}

	repo := s.repomanager.Articles(s.db)

	article, err := repo.GetByID(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("article %d: %w", articleID, err)
	}
	if article.UserID == userID {
		return nil, fmt.Errorf("%w: problems cannot be added to your own article", common.ErrForbidden)
	}

	return repo.CreateProblem(ctx, &models.Problem{Text: text, ArticleID: articleID, UserID: userID})
}

// UpdateWithProblems overwrites the mutable fields of an article and sets
// is_solved on the listed problems, all in one transaction:
//
//  1. the article row is locked and loaded with its problems;
//  2. only the owner may proceed;
//  3. every listed problem must belong to the article, and every problem
//     left out must already be solved;
//  4. problem states and article fields are written, updated_at is bumped.
//
// Any failure rolls back everything. The reloaded article is returned.
func (s *ArticleService) UpdateWithProblems(ctx context.Context, userID, articleID int64,
	fields models.ArticleFields, states []models.ProblemState) (*models.Article, error) {

	var updated *models.Article
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Articles(tx)

		article, err := repo.GetByIDForUpdate(ctx, articleID)
		if err != nil {
			return fmt.Errorf("article %d: %w", articleID, err)
		}
		if article.UserID != userID {
			return fmt.Errorf("%w: article %d belongs to another user", common.ErrForbidden, articleID)
		}
		if err := reconcileProblems(article, states); err != nil {
			return err
		}

		fields.Term, err = terms.ToCanonical(fields.Term, terms.Lang(article.Lang))
		if err != nil {
			return err
		}

		for _, st := range states {
			if err := repo.SetProblemSolved(ctx, articleID, st.ID, st.IsSolved); err != nil {
				return err
			}
		}
		if err := repo.UpdateFields(ctx, articleID, fields); err != nil {
			return err
		}

		updated, err = repo.GetByID(ctx, articleID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "article updated", "article_id", articleID, "problems", len(states))
	return s.display(updated)
}

// reconcileProblems checks a requested problem set against the article's
// current problems.
func reconcileProblems(article *models.Article, states []models.ProblemState) error {
	remaining := make(map[int64]*models.Problem, len(article.Problems))
	for _, p := range article.Problems {
		remaining[p.ID] = p
	}

	seen := make(map[int64]struct{}, len(states))
	for _, st := range states {
		if _, dup := seen[st.ID]; dup {
			return fmt.Errorf("%w: problem %d listed more than once", common.ErrValidation, st.ID)
		}
		seen[st.ID] = struct{}{}

		if _, ok := remaining[st.ID]; !ok {
			return fmt.Errorf("%w: problem %d is not part of article %d", common.ErrNotFound, st.ID, article.ID)
		}
		delete(remaining, st.ID)
	}

	for _, p := range article.Problems {
		if _, left := remaining[p.ID]; left && !p.IsSolved {
			return fmt.Errorf("%w: unsolved problem %d omitted from update", common.ErrValidation, p.ID)
		}
	}
	return nil
}

// Terms lists the vocabulary labels of a language.
func (s *ArticleService) Terms(lang string) ([]string, error) {
	l, err := terms.ParseLang(lang)
	if err != nil {
		return nil, err
	}
	return terms.Labels(l), nil
}

// display translates the stored canonical term into the article language.
// A stored term outside the vocabulary is a data error, not a client one.
func (s *ArticleService) display(article *models.Article) (*models.Article, error) {
	term, err := terms.ToDisplay(article.Term, terms.Lang(article.Lang))
	if err != nil {
		return nil, fmt.Errorf("%w: article %d: %v", common.ErrInternal, article.ID, err)
	}
	article.Term = term
	return article, nil
}
