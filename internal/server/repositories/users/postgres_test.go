package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	insertQuery  = `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*email,\s*password_hash,\s*is_verified\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	byEmailQuery = `(?s)^SELECT\s+id,\s*username,\s*email,\s*password_hash,\s*is_verified,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	byIDQuery    = `(?s)^SELECT\s+id,\s*username,\s*email,\s*password_hash,\s*is_verified,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	existsQuery  = `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\)$`
)

var userColumns = []string{"id", "username", "email", "password_hash", "is_verified", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("u-42", now, now)
	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "a@x.io", "hash", false).
		WillReturnRows(rows)

	u := &models.User{UserName: "alice", Email: "a@x.io", PasswordHash: "hash"}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-42" || got.UserName != "alice" || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "a@x.io", "hash", false).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", Email: "a@x.io", PasswordHash: "hash"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "a@x.io", "hash", false).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", Email: "a@x.io", PasswordHash: "hash"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(userColumns).AddRow("u-1", "alice", "a@x.io", "hash", true, now, now)
	mock.ExpectQuery(byEmailQuery).WithArgs("a@x.io").WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "a@x.io")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.PasswordHash != "hash" || !got.IsVerified {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byEmailQuery).WithArgs("ghost@x.io").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@x.io")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byEmailQuery).WithArgs("a@x.io").WillReturnError(errors.New("db err"))

	_, err := repo.GetByEmail(context.Background(), "a@x.io")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(byIDQuery).WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u-1", "alice", "a@x.io", "hash", false, now, now))
	mock.ExpectQuery(byIDQuery).WithArgs("gone").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(byIDQuery).WithArgs("not-a-uuid").WillReturnError(&pgconn.PgError{Code: "22P02"})

	got, err := repo.GetByID(context.Background(), "u-1")
	if err != nil || got.Email != "a@x.io" {
		t.Fatalf("GetByID = %+v, %v", got, err)
	}

	if _, err := repo.GetByID(context.Background(), "gone"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "not-a-uuid"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("malformed id: want common.ErrorNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestExistsByEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(existsQuery).WithArgs("a@x.io").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(existsQuery).WithArgs("b@x.io").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(existsQuery).WithArgs("c@x.io").WillReturnError(errors.New("db err"))

	ok, err := repo.ExistsByEmail(context.Background(), "a@x.io")
	if err != nil || !ok {
		t.Fatalf("expected existing email, got %v, %v", ok, err)
	}
	ok, err = repo.ExistsByEmail(context.Background(), "b@x.io")
	if err != nil || ok {
		t.Fatalf("expected missing email, got %v, %v", ok, err)
	}
	if _, err := repo.ExistsByEmail(context.Background(), "c@x.io"); err == nil {
		t.Fatalf("expected db error")
	}
}
