// Package httpapi exposes the catalogue over HTTP using gin.
//
// Sessions travel in HttpOnly cookies (access_token, refresh_token); an
// "Authorization: Bearer" header is accepted as a fallback for API clients.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/scicatalog/internal/logging"
	"github.com/dmitrijs2005/scicatalog/internal/server/models"
	"github.com/dmitrijs2005/scicatalog/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// UserService is the session side of the API.
type UserService interface {
	Register(ctx context.Context, email, name, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*services.AuthResult, error)
	ResolveSession(ctx context.Context, accessToken string) (*models.User, error)
}

// ArticleService is the catalogue side of the API.
type ArticleService interface {
	Create(ctx context.Context, userID int64, in services.NewArticle) (*models.Article, error)
	Get(ctx context.Context, id int64) (*models.Article, error)
	ListMine(ctx context.Context, userID int64) ([]*models.Article, error)
	Search(ctx context.Context, p services.SearchParams) ([]*models.Article, error)
	CreateProblem(ctx context.Context, userID, articleID int64, text string) (*models.Problem, error)
	UpdateWithProblems(ctx context.Context, userID, articleID int64,
		fields models.ArticleFields, states []models.ProblemState) (*models.Article, error)
	Terms(lang string) ([]string, error)
}

// CookieSettings controls the auth cookies. Max-Age follows the token TTLs.
type CookieSettings struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	address  string
	users    UserService
	articles ArticleService
	logger   logging.Logger
	cookies  CookieSettings
	metrics  *Metrics
	registry *prometheus.Registry
	engine   *gin.Engine
}

func NewHTTPServer(a string, l logging.Logger, us UserService, as ArticleService, cs CookieSettings) *HTTPServer {
	registerValidators()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &HTTPServer{
		address:  a,
		logger:   l.With("module", "http_server"),
		users:    us,
		articles: as,
		cookies:  cs,
		metrics:  NewMetrics(reg),
		registry: reg,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the routed gin engine.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.accessLog(), s.metrics.Middleware())

	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
	r.GET("/metrics", s.metrics.Handler(s.registry))

	auth := r.Group("/auth")
	{
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)
		auth.GET("/refresh", s.refresh)
		auth.POST("/refresh", s.refresh)
		auth.POST("/logout", s.logout)
		auth.GET("/me", s.authRequired(), s.me)
	}

	articles := r.Group("/api/articles", s.authRequired())
	{
		articles.GET("/", s.searchArticles)
		articles.POST("/", s.createArticle)
		articles.GET("/my/", s.myArticles)
		articles.GET("/terms", s.terms)
		articles.GET("/:id/", s.getArticle)
		articles.POST("/:id/", s.createProblem)
		articles.PUT("/:id/", s.updateArticle)
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// closed once in-flight requests have drained
	idle := make(chan struct{})

	go func() {
		defer close(idle)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-idle
	return nil
}
