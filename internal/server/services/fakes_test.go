package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/scicatalog/internal/common"
	"github.com/dmitrijs2005/scicatalog/internal/dbx"
	"github.com/dmitrijs2005/scicatalog/internal/server/models"
	"github.com/dmitrijs2005/scicatalog/internal/server/repositories/articles"
	"github.com/dmitrijs2005/scicatalog/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeRepoManager struct {
	u users.Repository
	a articles.Repository
}

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository       { return m.u }
func (m *fakeRepoManager) Articles(db dbx.DBTX) articles.Repository { return m.a }

// memUsers is an in-memory users.Repository with a unique email index.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User

	// getErr, when set, is returned by every lookup.
	getErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int64]*models.User{}}
}

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicateUser, u.Email)
		}
	}
	r.nextID++
	cp := *u
	cp.ID = r.nextID
	cp.CreatedAt = time.Now()
	r.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) count(email string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.byID {
		if u.Email == email {
			n++
		}
	}
	return n
}

// memArticles is an in-memory articles.Repository. Unique name and
// identifier are enforced in Create like the database constraints.
type memArticles struct {
	mu            sync.Mutex
	nextArticleID int64
	nextProblemID int64
	articles      map[int64]*models.Article
	problems      map[int64]*models.Problem
	clock         time.Time

	// lookupBarrier, when set, holds every GetByName caller until all
	// expected callers have arrived.
	lookupBarrier *sync.WaitGroup
	updateErr     error
	writes        int
}

func newMemArticles() *memArticles {
	return &memArticles{
		articles: map[int64]*models.Article{},
		problems: map[int64]*models.Problem{},
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memArticles) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *memArticles) Create(_ context.Context, a *models.Article) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.articles {
		if existing.Name == a.Name {
			return nil, fmt.Errorf("%w: articles_name_key", common.ErrConflict)
		}
		if existing.Identifier == a.Identifier {
			return nil, fmt.Errorf("%w: articles_identifier_key", common.ErrConflict)
		}
	}
	r.nextArticleID++
	r.writes++
	cp := *a
	cp.ID = r.nextArticleID
	cp.CreatedAt = r.tick()
	cp.UpdatedAt = cp.CreatedAt
	cp.Problems = nil
	r.articles[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memArticles) load(id int64) (*models.Article, error) {
	a, ok := r.articles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *a
	cp.Problems = r.problemsOf(id)
	return &cp, nil
}

func (r *memArticles) problemsOf(articleID int64) []*models.Problem {
	var out []*models.Problem
	for _, p := range r.problems {
		if p.ArticleID == articleID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memArticles) GetByID(_ context.Context, id int64) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(id)
}

func (r *memArticles) GetByIDForUpdate(ctx context.Context, id int64) (*models.Article, error) {
	return r.GetByID(ctx, id)
}

func (r *memArticles) GetByName(_ context.Context, name string) (*models.Article, error) {
	if r.lookupBarrier != nil {
		r.lookupBarrier.Done()
		r.lookupBarrier.Wait()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.articles {
		if a.Name == name {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memArticles) GetByIdentifier(_ context.Context, identifier string) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.articles {
		if a.Identifier == identifier {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memArticles) ListByUser(ctx context.Context, userID int64) ([]*models.Article, error) {
	all, _ := r.Search(ctx, models.ArticleFilter{})
	var out []*models.Article
	for _, a := range all {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memArticles) Search(_ context.Context, f models.ArticleFilter) ([]*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Article
	for _, a := range r.articles {
		if f.Term != nil && a.Term != *f.Term {
			continue
		}
		if f.Name != nil && !strings.Contains(a.Name, *f.Name) {
			continue
		}
		if f.Author != nil && !strings.Contains(a.Author, *f.Author) {
			continue
		}
		if f.Year != nil && a.PublicationYear != *f.Year {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memArticles) UpdateFields(_ context.Context, id int64, f models.ArticleFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	a, ok := r.articles[id]
	if !ok {
		return common.ErrNotFound
	}
	r.writes++
	a.Name, a.Term, a.Terminology, a.Author, a.KeyWords = f.Name, f.Term, f.Terminology, f.Author, f.KeyWords
	a.URL, a.Identifier, a.UsageContext, a.MathApparatus = f.URL, f.Identifier, f.UsageContext, f.MathApparatus
	a.Solving, a.Interests = f.Solving, f.Interests
	a.UpdatedAt = r.tick()
	return nil
}

func (r *memArticles) CreateProblem(_ context.Context, p *models.Problem) (*models.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[p.ArticleID]; !ok {
		return nil, fmt.Errorf("db error: foreign key violation")
	}
	r.nextProblemID++
	r.writes++
	cp := *p
	cp.ID = r.nextProblemID
	r.problems[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memArticles) ListProblems(_ context.Context, articleID int64) ([]*models.Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.problemsOf(articleID), nil
}

func (r *memArticles) SetProblemSolved(_ context.Context, articleID, problemID int64, solved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.problems[problemID]
	if !ok || p.ArticleID != articleID {
		return fmt.Errorf("%w: problem %d of article %d", common.ErrNotFound, problemID, articleID)
	}
	r.writes++
	p.IsSolved = solved
	return nil
}

func (r *memArticles) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}
