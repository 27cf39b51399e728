// Package services holds the client-side application services: session
// bookkeeping on top of the API client and a cache of the last todo list.
package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

// AuthService defines authentication operations for the CLI.
//
// The logged-in user is cached after Register, Login and Profile. Any call
// answered with client.ErrUnauthorized drops the cache, so the REPL falls
// back to the logged-out command set.
type AuthService interface {
	Register(ctx context.Context, username, email string, password []byte) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.User, error)
	CurrentUser() *models.User
	Invalidate()
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client

	mu   sync.RWMutex
	user *models.User
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(c client.Client) AuthService {
	return &authService{client: c}
}

func (a *authService) Register(ctx context.Context, username, email string, password []byte) (*models.User, error) {
	u, err := a.client.Register(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	a.setUser(u)
	return u, nil
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	u, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	a.setUser(u)
	return u, nil
}

// Logout asks the server to revoke the session. The local session is
// dropped even when the server already considered it gone.
func (a *authService) Logout(ctx context.Context) error {
	err := a.client.Logout(ctx)
	if err != nil && !errors.Is(err, client.ErrUnauthorized) {
		return err
	}
	a.Invalidate()
	return nil
}

// Profile refreshes the cached user from the server.
func (a *authService) Profile(ctx context.Context) (*models.User, error) {
	u, err := a.client.Profile(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.Invalidate()
		}
		return nil, err
	}
	a.setUser(u)
	return u, nil
}

func (a *authService) CurrentUser() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user
}

func (a *authService) Invalidate() { a.setUser(nil) }

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) setUser(u *models.User) {
	a.mu.Lock()
	a.user = u
	a.mu.Unlock()
}
