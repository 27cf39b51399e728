// Package services contains server-side business logic: UserService handles
// registration, login and sessions, TodoService the per-user todo list.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - Register: create users and issue a session token
// - Login: verify credentials and issue a session token
// - ResolveSession / Logout: check and revoke tokens
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
	}
}

// TokenValidity is the lifetime of issued tokens; the HTTP layer uses it for
// the cookie Max-Age.
func (s *UserService) TokenValidity() time.Duration { return s.tokenValidityDuration }

// Register validates req, creates the user and returns it with a fresh token.
// An email that is already taken yields a Conflict error.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, string, error) {
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, "", err
	}

	var created *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		exists, err := repo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return fmt.Errorf("error checking email: %w", err)
		}
		if exists {
			return common.NewConflictError("User already exists")
		}

		hash, err := auth.HashPassword(req.Password, s.bcryptCost)
		if err != nil {
			if errors.Is(err, auth.ErrPasswordTooLong) {
				return common.NewValidationError([]common.FieldError{
					{Field: "password", Message: "password is too long"},
				})
			}
			return fmt.Errorf("error hashing password: %w", err)
		}

		created, err = repo.Create(ctx, &models.User{
			UserName:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
		})
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.NewConflictError("User already exists")
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, "", asAppError(err)
	}

	token, err := s.issueToken(created.ID)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login checks the email/password pair. Unknown emails and wrong passwords
// produce the same InvalidCredentials error.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*models.User, string, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, "", err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.NewInvalidCredentialsError()
		}
		return nil, "", common.NewInternalError(err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", common.NewInvalidCredentialsError()
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ResolveSession maps a token to its user. Missing, revoked, expired and
// badly signed tokens are all Unauthenticated; a token whose subject is gone
// is NotFound.
func (s *UserService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.NewUnauthenticatedError(nil)
	}

	revoked, err := s.repomanager.RevokedTokens(s.db).IsRevoked(ctx, token)
	if err != nil {
		return nil, common.NewInternalError(err)
	}
	if revoked {
		return nil, common.NewUnauthenticatedError(common.ErrTokenRevoked)
	}

	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.NewUnauthenticatedError(err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewNotFoundError("User not found")
		}
		return nil, common.NewInternalError(err)
	}
	return user, nil
}

// Logout puts token on the revocation list. The token is not verified first.
func (s *UserService) Logout(ctx context.Context, token string) error {
	expiresAt, _ := auth.ExpiresAt(token)
	if err := s.repomanager.RevokedTokens(s.db).Revoke(ctx, token, expiresAt); err != nil {
		return common.NewInternalError(err)
	}
	return nil
}

// GetProfile returns the already resolved user.
func (s *UserService) GetProfile(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, common.NewNotFoundError("User not found")
	}
	return user, nil
}

func (s *UserService) issueToken(userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.NewInternalError(err)
	}
	return token, nil
}

// asAppError passes AppErrors through and wraps anything else as internal.
func asAppError(err error) error {
	var ae *common.AppError
	if errors.As(err, &ae) {
		return ae
	}
	return common.NewInternalError(err)
}
