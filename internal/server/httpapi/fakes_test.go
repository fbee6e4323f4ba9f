package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/scicatalog/internal/common"
	"github.com/dmitrijs2005/scicatalog/internal/logging"
	"github.com/dmitrijs2005/scicatalog/internal/server/models"
	"github.com/dmitrijs2005/scicatalog/internal/server/services"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	validToken   = "valid-access"
	expiredToken = "expired-access"
)

var alice = &models.User{ID: 1, Email: "alice@example.org", Name: "Alice"}

type fakeUsers struct {
	result *services.AuthResult
	err    error

	gotEmail, gotName, gotPassword string
	gotRefresh                     string
}

func (f *fakeUsers) Register(_ context.Context, email, name, password string) (*services.AuthResult, error) {
	f.gotEmail, f.gotName, f.gotPassword = email, name, password
	return f.result, f.err
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*services.AuthResult, error) {
	f.gotEmail, f.gotPassword = email, password
	return f.result, f.err
}

func (f *fakeUsers) Refresh(_ context.Context, token string) (*services.AuthResult, error) {
	f.gotRefresh = token
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", common.ErrUnauthorized)
	}
	return f.result, f.err
}

func (f *fakeUsers) ResolveSession(_ context.Context, token string) (*models.User, error) {
	switch token {
	case validToken:
		return alice, nil
	case expiredToken:
		return nil, common.ErrTokenExpired
	case "":
		return nil, fmt.Errorf("%w: missing token", common.ErrUnauthorized)
	default:
		return nil, fmt.Errorf("%w: bad signature", common.ErrInvalidToken)
	}
}

type fakeArticles struct {
	article  *models.Article
	list     []*models.Article
	problem  *models.Problem
	labels   []string
	err      error
	termsErr error

	gotUserID    int64
	gotArticleID int64
	gotNew       services.NewArticle
	gotSearch    services.SearchParams
	gotFields    models.ArticleFields
	gotStates    []models.ProblemState
	gotText      string
	gotLang      string
}

func (f *fakeArticles) Create(_ context.Context, userID int64, in services.NewArticle) (*models.Article, error) {
	f.gotUserID, f.gotNew = userID, in
	return f.article, f.err
}

func (f *fakeArticles) Get(_ context.Context, id int64) (*models.Article, error) {
	f.gotArticleID = id
	return f.article, f.err
}

func (f *fakeArticles) ListMine(_ context.Context, userID int64) ([]*models.Article, error) {
	f.gotUserID = userID
	return f.list, f.err
}

func (f *fakeArticles) Search(_ context.Context, p services.SearchParams) ([]*models.Article, error) {
	f.gotSearch = p
	return f.list, f.err
}

func (f *fakeArticles) CreateProblem(_ context.Context, userID, articleID int64, text string) (*models.Problem, error) {
	f.gotUserID, f.gotArticleID, f.gotText = userID, articleID, text
	return f.problem, f.err
}

func (f *fakeArticles) UpdateWithProblems(_ context.Context, userID, articleID int64,
	fields models.ArticleFields, states []models.ProblemState) (*models.Article, error) {
	f.gotUserID, f.gotArticleID, f.gotFields, f.gotStates = userID, articleID, fields, states
	return f.article, f.err
}

func (f *fakeArticles) Terms(lang string) ([]string, error) {
	f.gotLang = lang
	return f.labels, f.termsErr
}

func newTestServer(t *testing.T, us *fakeUsers, as *fakeArticles) *HTTPServer {
	t.Helper()
	if us == nil {
		us = &fakeUsers{}
	}
	if as == nil {
		as = &fakeArticles{}
	}
	return NewHTTPServer(":0", logging.Nop{}, us, as, CookieSettings{
		Secure:     true,
		AccessTTL:  30 * time.Minute,
		RefreshTTL: time.Hour,
	})
}

// do sends a request through the router. A non-empty token is sent as the
// access_token cookie.
func do(t *testing.T, s *HTTPServer, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: common.AccessTokenCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func cookieByName(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
