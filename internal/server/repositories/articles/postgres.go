package articles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/scicatalog/internal/common"
	"github.com/dmitrijs2005/scicatalog/internal/dbx"
	"github.com/dmitrijs2005/scicatalog/internal/server/models"
)

// PostgresRepository implements article storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const articleColumns = `id, name, term, terminology, author, key_words, publication_year, url,
		identifier, usage_context, math_apparatus, solving, interests, lang, user_id,
		created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(s scanner) (*models.Article, error) {
	a := &models.Article{}
	err := s.Scan(
		&a.ID, &a.Name, &a.Term, &a.Terminology, &a.Author, &a.KeyWords, &a.PublicationYear, &a.URL,
		&a.Identifier, &a.UsageContext, &a.MathApparatus, &a.Solving, &a.Interests, &a.Lang, &a.UserID,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// conflict turns a unique violation into common.ErrConflict naming the
// violated constraint; other errors are returned as db errors.
func conflict(err error) error {
	if constraint, ok := dbx.IsUniqueViolation(err); ok {
		return fmt.Errorf("%w: %s", common.ErrConflict, constraint)
	}
	return fmt.Errorf("db error: %w", err)
}

// Create inserts article and fills ID and timestamps. Duplicate name or
// identifier yields common.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, article *models.Article) (*models.Article, error) {
	query := `
		INSERT INTO articles (name, term, terminology, author, key_words, publication_year, url,
			identifier, usage_context, math_apparatus, solving, interests, lang, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		article.Name, article.Term, article.Terminology, article.Author, article.KeyWords,
		article.PublicationYear, article.URL, article.Identifier, article.UsageContext,
		article.MathApparatus, article.Solving, article.Interests, article.Lang, article.UserID,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		return nil, conflict(err)
	}
	return article, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Article, error) {
	a, err := scanArticle(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// GetByID loads an article with its problems.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`
	return r.withProblems(ctx, query, id)
}

// GetByIDForUpdate is GetByID with the article row locked until the end of
// the surrounding transaction. Outside a transaction the lock is released
// immediately.
func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1 FOR UPDATE`
	return r.withProblems(ctx, query, id)
}

func (r *PostgresRepository) withProblems(ctx context.Context, query string, id int64) (*models.Article, error) {
	a, err := r.getOne(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if a.Problems, err = r.ListProblems(ctx, a.ID); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Article, error) {
	return r.getOne(ctx, `SELECT `+articleColumns+` FROM articles WHERE name = $1`, name)
}

func (r *PostgresRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.Article, error) {
	return r.getOne(ctx, `SELECT `+articleColumns+` FROM articles WHERE identifier = $1`, identifier)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select articles: %w", err)
	}
	defer rows.Close()

	var result []*models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByUser returns the articles owned by userID, oldest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Article, error) {
	return r.list(ctx, `SELECT `+articleColumns+` FROM articles WHERE user_id = $1 ORDER BY id`, userID)
}

// Search returns articles matching every non-nil filter field: exact term,
// substring of name, substring of author, exact publication year. An empty
// filter lists the whole catalogue.
func (r *PostgresRepository) Search(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	query, args := buildSearch(filter)
	return r.list(ctx, query, args...)
}

func buildSearch(filter models.ArticleFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if filter.Term != nil {
		add("term = ?", *filter.Term)
	}
	if filter.Name != nil {
		add("name LIKE '%' || ? || '%'", *filter.Name)
	}
	if filter.Author != nil {
		add("author LIKE '%' || ? || '%'", *filter.Author)
	}
	if filter.Year != nil {
		add("publication_year = ?", *filter.Year)
	}

	query := `SELECT ` + articleColumns + ` FROM articles`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query + " ORDER BY id", args
}

// UpdateFields overwrites the mutable columns and bumps updated_at.
func (r *PostgresRepository) UpdateFields(ctx context.Context, id int64, f models.ArticleFields) error {
	query := `
		UPDATE articles SET
			name = $1, term = $2, terminology = $3, author = $4, key_words = $5, url = $6,
			identifier = $7, usage_context = $8, math_apparatus = $9, solving = $10, interests = $11,
			updated_at = now()
		WHERE id = $12
	`
	res, err := r.db.ExecContext(ctx, query,
		f.Name, f.Term, f.Terminology, f.Author, f.KeyWords, f.URL,
		f.Identifier, f.UsageContext, f.MathApparatus, f.Solving, f.Interests, id)
	if err != nil {
		return conflict(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// CreateProblem inserts a problem, unsolved unless problem.IsSolved is set.
func (r *PostgresRepository) CreateProblem(ctx context.Context, problem *models.Problem) (*models.Problem, error) {
	query := `
		INSERT INTO problems (text, is_solved, article_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		problem.Text, problem.IsSolved, problem.ArticleID, problem.UserID).Scan(&problem.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return problem, nil
}

// ListProblems returns the problems of an article ordered by id.
func (r *PostgresRepository) ListProblems(ctx context.Context, articleID int64) ([]*models.Problem, error) {
	query := `SELECT id, text, is_solved, article_id, user_id FROM problems
		WHERE article_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to select problems: %w", err)
	}
	defer rows.Close()

	var result []*models.Problem
	for rows.Next() {
		var p models.Problem
		if err := rows.Scan(&p.ID, &p.Text, &p.IsSolved, &p.ArticleID, &p.UserID); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetProblemSolved updates is_solved of a problem belonging to articleID.
// A problem of another article is reported as common.ErrNotFound.
func (r *PostgresRepository) SetProblemSolved(ctx context.Context, articleID, problemID int64, solved bool) error {
	query := `UPDATE problems SET is_solved = $1 WHERE id = $2 AND article_id = $3`

	res, err := r.db.ExecContext(ctx, query, solved, problemID, articleID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: problem %d of article %d", common.ErrNotFound, problemID, articleID)
	}
	return nil
}
