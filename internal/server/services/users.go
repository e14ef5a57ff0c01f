// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, and issuing/refreshing JWTs
// plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/parallaxhq/parallax/internal/common"
	"github.com/parallaxhq/parallax/internal/dbx"
	"github.com/parallaxhq/parallax/internal/server/auth"
	"github.com/parallaxhq/parallax/internal/server/config"
	"github.com/parallaxhq/parallax/internal/server/models"
	"github.com/parallaxhq/parallax/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials by email or phone and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
// - Seed: create the demo and admin accounts on startup
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	adminEnabled                 bool
	adminUsername                string
	adminPassword                string
}

// NewUserService constructs a UserService using repositories and server config.
// db may be nil when the in-memory repository manager is used.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		adminEnabled:                 cfg.AdminEnabled,
		adminUsername:                strings.ToLower(cfg.AdminEmail),
		adminPassword:                cfg.AdminPassword,
	}
}

// NormalizeUsername lowercases an email so it can serve as the account key.
func NormalizeUsername(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DigitsOnly strips everything but digits. Phone identifiers are compared on
// this form.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsAdmin reports whether the user is the built-in administrator account.
func (s *UserService) IsAdmin(user *models.User) bool {
	return s.adminEnabled && user != nil && user.Username == s.adminUsername
}

// Register creates an account. The email doubles as the username (lowercased)
// and must be unique; when a phone number is given its digit signature must be
// unique as well.
func (s *UserService) Register(ctx context.Context, email, displayName, phoneCountry, phone, password string) (*models.User, error) {
	username := NormalizeUsername(email)
	if username == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.dbtx())

	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("account %q: %w", username, common.ErrorAlreadyExists)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("checking account: %w", err)
	}

	if phoneCountry != "" && phone != "" {
		signature := DigitsOnly(phoneCountry + phone)
		if _, err := repo.GetByPhoneSignature(ctx, signature); err == nil {
			return nil, fmt.Errorf("phone number: %w", common.ErrorAlreadyExists)
		} else if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("checking phone: %w", err)
		}
	}

	user := &models.User{
		Username:     username,
		Email:        username,
		DisplayName:  displayName,
		PhoneCountry: phoneCountry,
		Phone:        phone,
		Password:     password,
	}

	user, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and mints a token pair. The identifier is the
// account email, or a phone number which is matched on its digits. Passwords
// are compared as stored.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*models.User, *TokenPair, error) {
	repo := s.repomanager.Users(s.dbtx())

	user, err := repo.GetByUsername(ctx, NormalizeUsername(identifier))
	if errors.Is(err, common.ErrorNotFound) {
		if digits := DigitsOnly(identifier); digits != "" {
			user, err = repo.GetByPhoneSignature(ctx, digits)
		}
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	if user.Password != password {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.dbtx())
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.dbtx())

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// GetByID resolves a user from the access token's subject.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.dbtx()).GetByID(ctx, id)
}

// Seed creates the demo account and, when enabled, the administrator account.
// Existing accounts are left untouched.
func (s *UserService) Seed(ctx context.Context) error {
	seeds := []*models.User{
		{
			Username:    "demo@parallax.test",
			Email:       "demo@parallax.test",
			DisplayName: "Demo User",
			Password:    "DemoPass123",
		},
	}
	if s.adminEnabled {
		seeds = append(seeds, &models.User{
			Username:    s.adminUsername,
			Email:       s.adminUsername,
			DisplayName: "Administrator",
			Password:    s.adminPassword,
		})
	}

	repo := s.repomanager.Users(s.dbtx())
	for _, u := range seeds {
		_, err := repo.GetByUsername(ctx, u.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("checking seed account %s: %w", u.Username, err)
		}
		if _, err := repo.Create(ctx, u); err != nil {
			return fmt.Errorf("seeding account %s: %w", u.Username, err)
		}
	}
	return nil
}

// ValidateAccessToken returns the user ID encoded in the access token.
func (s *UserService) ValidateAccessToken(tokenString string) (string, error) {
	return auth.GetUserIDFromToken(tokenString, s.jwtSecret)
}

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, db dbx.DBTX) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.RefreshTokens(db).Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// dbtx returns the root database handle, which is nil in in-memory mode. The
// in-memory repository manager ignores it.
func (s *UserService) dbtx() dbx.DBTX {
	if s.db == nil {
		return nil
	}
	return s.db
}

// inTx runs fn inside a transaction when a real database is present, and
// directly otherwise.
func (s *UserService) inTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}
