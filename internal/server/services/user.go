// Package services contains server-side business logic. This file implements
// UserService: registration, login and identity lookup.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/server/auth"
	"github.com/dmitrijs2005/devconnector/internal/server/avatar"
	"github.com/dmitrijs2005/devconnector/internal/server/config"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/repomanager"
)

// TokenIssuer mints signed tokens for a subject.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
}

// dummyPassword is hashed once at startup. Logins for unknown emails verify
// against that hash so they cost the same as a wrong password.
const dummyPassword = "devconnector-dummy-password"

// UserService provides account operations:
// - Register: create a user and return a token for it
// - Login: check credentials and return a token
// - GetUser: load the authenticated user's record
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	issuer      TokenIssuer
	tokenTTL    time.Duration
	avatarURL   func(email string) string
	dummyHash   string
}

// NewUserService constructs a UserService. It hashes the dummy password up
// front, so it fails if the hasher does.
func NewUserService(ctx context.Context, db *sql.DB, m repomanager.RepositoryManager,
	hasher auth.PasswordHasher, issuer TokenIssuer, cfg *config.Config) (*UserService, error) {

	dummy, err := hasher.Hash(ctx, dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("error preparing dummy hash: %w", err)
	}

	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		issuer:      issuer,
		tokenTTL:    cfg.TokenTTL,
		avatarURL:   avatar.Gravatar,
		dummyHash:   dummy,
	}, nil
}

// Register creates an account and returns a token for it. An email already
// taken yields common.ErrDuplicateUser, whether the lookup finds it or the
// store's unique constraint rejects a concurrent insert.
func (s *UserService) Register(ctx context.Context, name, email, password string) (string, error) {
	email = common.NormalizeEmail(email)
	repo := s.repomanager.Users(s.db)

	_, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return "", common.ErrDuplicateUser
	case !errors.Is(err, common.ErrorNotFound):
		return "", fmt.Errorf("error searching user: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return "", err
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Avatar:       s.avatarURL(email),
	}
	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return "", common.ErrDuplicateUser
		}
		return "", fmt.Errorf("error creating user: %w", err)
	}

	return s.issuer.Issue(user.ID, s.tokenTTL)
}

// Login returns a token when email and password match. An unknown email and
// a wrong password both yield common.ErrInvalidCredentials; a hasher failure
// is returned as is (common.ErrHashing).
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, common.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			if _, err := s.hasher.Verify(ctx, password, s.dummyHash); err != nil {
				return "", err
			}
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", common.ErrInvalidCredentials
	}

	return s.issuer.Issue(user.ID, s.tokenTTL)
}

// GetUser returns the user with the given id or common.ErrorNotFound.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}
