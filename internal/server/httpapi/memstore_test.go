package httpapi

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/revokedtokens"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for all three repositories. Transactions
// are ignored.
type memStore struct {
	mu      sync.Mutex
	users   []*models.User
	todos   []*models.Todo
	revoked map[string]bool
}

func newMemStore() *memStore { return &memStore{revoked: map[string]bool{}} }

func (m *memStore) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *memStore) Users(dbx.DBTX) users.Repository                 { return memUsers{m} }
func (m *memStore) Todos(dbx.DBTX) todos.Repository                 { return memTodos{m} }
func (m *memStore) RevokedTokens(dbx.DBTX) revokedtokens.Repository { return memRevoked{m} }

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.users {
		if x.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.users = append(r.users, &cp)
	out := cp
	return &out, nil
}

func (r memUsers) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.users {
		if match(x) {
			cp := *x
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

type memTodos struct{ *memStore }

func (r memTodos) Create(_ context.Context, t *models.Todo) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.todos = append(r.todos, &cp)
	out := cp
	return &out, nil
}

func (r memTodos) ExistsByContent(_ context.Context, userID, content string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.todos {
		if t.UserID == userID && t.Content == content {
			return true, nil
		}
	}
	return false, nil
}

func (r memTodos) ListByUser(_ context.Context, userID string) ([]*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Todo{}
	for _, t := range r.todos {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memTodos) GetByID(_ context.Context, id string) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.todos {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memTodos) Update(_ context.Context, id string, p models.TodoPatch) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.todos {
		if t.ID != id {
			continue
		}
		if p.Content != nil {
			t.Content = *p.Content
		}
		if p.Completed != nil {
			t.Completed = *p.Completed
		}
		t.UpdatedAt = time.Now().UTC()
		cp := *t
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (r memTodos) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.todos {
		if t.ID == id {
			r.todos = append(r.todos[:i], r.todos[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type memRevoked struct{ *memStore }

func (r memRevoked) Revoke(_ context.Context, token string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token] = true
	return nil
}

func (r memRevoked) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revoked[token], nil
}
