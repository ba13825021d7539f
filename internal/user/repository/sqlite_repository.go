package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	sqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/mauryaent/mtech-store/internal/platform/logger"
	"github.com/mauryaent/mtech-store/internal/user/domain"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserConflict = errors.New("user with this email already exists")

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    email       TEXT NOT NULL UNIQUE,
    password    TEXT NOT NULL,
    created_at  TEXT NOT NULL
);
`

type sqliteUserRepository struct {
	db *sql.DB
}

func NewSQLiteUserRepository(db *sql.DB) (UserRepository, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("applying users schema: %w", err)
	}
	return &sqliteUserRepository{db: db}, nil
}

func (r *sqliteUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	// Truncate to the RFC3339 second precision the column stores.
	user.CreatedAt = time.Now().UTC().Truncate(time.Second)

	res, err := squirrel.Insert("users").
		SetMap(map[string]interface{}{
			"name":       user.Name,
			"email":      user.Email,
			"password":   user.PasswordHash,
			"created_at": user.CreatedAt.Format(time.RFC3339),
		}).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		// SQLITE_CONSTRAINT_UNIQUE signals a duplicate email.
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE {
			logger.Error("CreateUser: unique violation", err)
			return ErrUserConflict
		}
		logger.Error("CreateUser: failed to insert user", err)
		return err
	}

	user.ID, err = res.LastInsertId()
	if err != nil {
		logger.Error("CreateUser: failed to read inserted id", err)
		return err
	}
	return nil
}

func (r *sqliteUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}
	var createdAt string

	err := squirrel.Select("id", "name", "email", "password", "created_at").
		From("users").
		Where(squirrel.Eq{"email": email}).
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error("GetUserByEmail: query failed", err)
		return nil, err
	}

	user.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	return user, nil
}
