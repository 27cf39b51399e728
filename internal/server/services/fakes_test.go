package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/revokedtokens"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	creates int

	existsErr error
	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.byID[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

type fakeTodosRepo struct {
	mu    sync.Mutex
	items []*models.Todo

	existsErr error
	createErr error
	listErr   error
	getErr    error
	updateErr error
	deleteErr error
}

func (f *fakeTodosRepo) Create(_ context.Context, t *models.Todo) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *t
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.items = append(f.items, &cp)
	out := cp
	return &out, nil
}

func (f *fakeTodosRepo) ExistsByContent(_ context.Context, userID, content string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, t := range f.items {
		if t.UserID == userID && t.Content == content {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTodosRepo) ListByUser(_ context.Context, userID string) ([]*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*models.Todo{}
	for _, t := range f.items {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTodosRepo) GetByID(_ context.Context, id string) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, t := range f.items {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTodosRepo) Update(_ context.Context, id string, p models.TodoPatch) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for _, t := range f.items {
		if t.ID != id {
			continue
		}
		if p.Content != nil {
			for _, o := range f.items {
				if o.ID != id && o.UserID == t.UserID && o.Content == *p.Content {
					return nil, common.ErrorAlreadyExists
				}
			}
			t.Content = *p.Content
		}
		if p.Completed != nil {
			t.Completed = *p.Completed
		}
		t.UpdatedAt = time.Now()
		cp := *t
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTodosRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, t := range f.items {
		if t.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeRevokedRepo struct {
	mu      sync.Mutex
	revoked map[string]time.Time

	revokeErr error
	checkErr  error
}

func newFakeRevokedRepo() *fakeRevokedRepo {
	return &fakeRevokedRepo{revoked: map[string]time.Time{}}
}

func (f *fakeRevokedRepo) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revoked[token] = expiresAt
	return nil
}

func (f *fakeRevokedRepo) IsRevoked(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.checkErr != nil {
		return false, f.checkErr
	}
	_, ok := f.revoked[token]
	return ok, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTodosRepo
	r *fakeRevokedRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), t: &fakeTodosRepo{}, r: newFakeRevokedRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) Todos(dbx.DBTX) todos.Repository                 { return m.t }
func (m *fakeRepoManager) RevokedTokens(dbx.DBTX) revokedtokens.Repository { return m.r }
