// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, token refresh and session
// resolution.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/scicatalog/internal/common"
	"github.com/dmitrijs2005/scicatalog/internal/dbx"
	"github.com/dmitrijs2005/scicatalog/internal/logging"
	"github.com/dmitrijs2005/scicatalog/internal/server/auth"
	"github.com/dmitrijs2005/scicatalog/internal/server/config"
	"github.com/dmitrijs2005/scicatalog/internal/server/models"
	"github.com/dmitrijs2005/scicatalog/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a longer-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is returned by every operation that opens a session.
type AuthResult struct {
	TokenPair
	User *models.User
}

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint tokens
// - Refresh: trade a valid refresh token for a new pair
// - ResolveSession: map an access token to its user
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	tokens                       *auth.TokenManager
	hasher                       auth.PasswordHasher
	logger                       logging.Logger
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenManager,
	hasher auth.PasswordHasher, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		tokens:                       tokens,
		hasher:                       hasher,
		logger:                       logger.With("module", "user_service"),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a user and opens a session for it. The email lookup and
// the insert share one transaction; a concurrent registration that slips
// past the lookup is caught by the unique constraint and reported the same
// way, as common.ErrDuplicateUser.
func (s *UserService) Register(ctx context.Context, email, name, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(name) == "" || password == "" {
		return nil, fmt.Errorf("%w: email, name and password are required", common.ErrValidation)
	}

	hash, err := s.hasher.Hash(password)
	if errors.Is(err, common.ErrValidation) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByEmail(ctx, email)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", common.ErrDuplicateUser, email)
		case !errors.Is(err, common.ErrNotFound):
			return fmt.Errorf("error searching user: %w", err)
		}

		user, err = repo.Create(ctx, &models.User{Email: email, Name: name, HashedPassword: hash})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.openSession(user)
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: incorrect email or password", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, fmt.Errorf("%w: incorrect email or password", common.ErrUnauthorized)
	}
	return s.openSession(user)
}

// Refresh verifies a refresh token and issues a new pair for its user.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	user, err := s.userFromToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return s.openSession(user)
}

// ResolveSession returns the user an access token was issued to.
// Expired tokens yield common.ErrTokenExpired, any other token problem
// or a vanished user yields an error matching common.ErrUnauthorized.
func (s *UserService) ResolveSession(ctx context.Context, accessToken string) (*models.User, error) {
	return s.userFromToken(ctx, accessToken)
}

// --- helpers below ---

func (s *UserService) userFromToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", common.ErrUnauthorized)
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d no longer exists", common.ErrUnauthorized, id)
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

func (s *UserService) openSession(user *models.User) (*AuthResult, error) {
	claims := auth.Claims{Email: user.Email}
	claims.Subject = strconv.FormatInt(user.ID, 10)

	access, err := s.tokens.Issue(claims, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	refresh, err := s.tokens.Issue(claims, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	return &AuthResult{TokenPair: TokenPair{AccessToken: access, RefreshToken: refresh}, User: user}, nil
}
