// Package server wires configuration, storage, services and the HTTP API
// into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/scicatalog/internal/logging"
	"github.com/dmitrijs2005/scicatalog/internal/server/auth"
	"github.com/dmitrijs2005/scicatalog/internal/server/config"
	"github.com/dmitrijs2005/scicatalog/internal/server/httpapi"
	"github.com/dmitrijs2005/scicatalog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/scicatalog/internal/server/services"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/crypto/bcrypt"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	articleService *services.ArticleService
	closeOnce      sync.Once
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if logging.ParseLevel(c.LogLevel) != slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db.SetMaxOpenConns(c.DBMaxOpenConns)

	tokens, err := auth.LoadTokenManager(c.JWTAlgorithm, c.JWTPrivateKeyPath, c.JWTPublicKeyPath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("token manager init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	us := services.NewUserService(db, rm, tokens, auth.NewPasswordHasher(bcrypt.DefaultCost), c, logger)
	as := services.NewArticleService(db, rm, logger)

	return &App{config: c, logger: logger, db: db, userService: us, articleService: as}, nil
}

// initSignalHandler cancels on SIGINT, SIGTERM or SIGQUIT. The returned
// channel is closed once the handler has stopped listening, which also
// happens when ctx ends first.
func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) <-chan struct{} {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		defer signal.Stop(sigs)

		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
	return stopped
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.articleService,
		httpapi.CookieSettings{
			Secure:     app.config.CookieSecure,
			AccessTTL:  app.config.AccessTokenValidityDuration,
			RefreshTTL: app.config.RefreshTokenValidityDuration,
		})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err)
		cancelFunc()
	}
}

// closeDB releases the connection pool. Safe to call more than once.
func (app *App) closeDB(ctx context.Context) {
	app.closeOnce.Do(func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	})
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrHTTP)

	signalsStopped := app.initSignalHandler(ctx, cancelFunc)

	if err := app.db.PingContext(ctx); err != nil {
		app.logger.Warn(ctx, "database is not reachable yet", "error", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	cancelFunc()
	<-signalsStopped

	app.closeDB(context.Background())
	app.logger.Info(context.Background(), "app stopped")
}
