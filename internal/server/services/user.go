// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, logout, and
// issuing/refreshing JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

// dummyPasswordHash is compared against when the email is unknown, so the
// unknown-email and wrong-password paths cost the same bcrypt work.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session is the result of a successful login: a token pair plus the
// identity and authorities the caller should cache client-side.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       int64
	Username     string
	Roles        []models.Role
}

// UserService provides authentication-related operations:
//   - Register: create users
//   - Login: verify credentials and mint tokens
//   - RefreshToken: rotate refresh tokens and mint new access tokens
//   - Logout: revoke the caller's refresh token
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	refreshTokens                refreshtokens.Repository
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService. The refresh token store is passed
// explicitly because it may live in Redis rather than in the SQL database.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, rt refreshtokens.Repository, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		refreshTokens:                rt,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new user with the given roles, defaulting to USER when
// none are supplied. A duplicate email yields common.ErrorAlreadyExists.
// Registration never issues a session; the caller logs in explicitly.
func (s *UserService) Register(ctx context.Context, username, email, password string, roleNames []string) (*models.User, error) {
	roles, err := models.RolesFromStrings(roleNames)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if len(roles) == 0 {
		roles = []models.Role{models.RoleUser}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        roles,
	}

	// The pre-check gives a clean error; the unique constraint in the store
	// still backstops a race between two simultaneous registrations.
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if _, err := repo.GetByEmail(ctx, email); err == nil {
			return common.ErrorAlreadyExists
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		created, err := repo.Create(ctx, user)
		if err != nil {
			return err
		}
		user = created
		return nil
	}); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and, on success, mints a token pair and
// replaces the user's refresh token. Unknown email and wrong password
// produce the same error value, so accounts cannot be enumerated.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}

	pair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserID:       user.ID,
		Username:     user.Username,
		Roles:        user.Roles,
	}, nil
}

// RefreshToken validates a refresh token and rotates it: the consumed token
// is superseded by the new one in the same store write, so it is single-use.
// Expired tokens are deleted as part of detection and yield
// common.ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.refreshTokens.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if token.ExpiresAt.Before(time.Now()) {
		if err := s.refreshTokens.DeleteByUserID(ctx, token.UserID); err != nil {
			return nil, fmt.Errorf("error deleting expired refresh token: %w", err)
		}
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return s.generateTokenPair(ctx, user)
}

// Logout deletes the caller's refresh token. Already-issued access tokens
// stay valid until they expire; logout only prevents future refresh.
func (s *UserService) Logout(ctx context.Context, principal auth.Principal) error {
	return s.refreshTokens.DeleteByUserID(ctx, principal.UserID)
}

// --- helpers below ---

func (s *UserService) generateAccessToken(user *models.User) (string, error) {
	return auth.GenerateToken(user, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	// CreateOrReplace both issues the new token and atomically invalidates
	// whatever token the user held before.
	if _, err := s.refreshTokens.CreateOrReplace(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
