package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hungerhelp/hungerhelp/internal/database"
	"github.com/hungerhelp/hungerhelp/internal/interfaces"
	"github.com/hungerhelp/hungerhelp/internal/model"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// Common errors that can be returned by the repository
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrPostNotFound   = errors.New("post not found")
)

// uniqueViolation is the Postgres error code raised by the unique index on
// users.email; it is the authoritative duplicate check.
const uniqueViolation = "23505"

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	db *database.DB
}

// Verify that UserRepositoryImpl implements UserRepository interface
var _ interfaces.UserRepository = (*UserRepositoryImpl)(nil)

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *database.DB) interfaces.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// CreateUser inserts a new account. A conflict on the email unique index is
// mapped to ErrDuplicateEmail.
func (r *UserRepositoryImpl) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	created := *u
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, phone, notifications, role)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, registered_at`,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Notifications, u.Role).
		Scan(&created.ID, &created.RegisteredAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return &created, nil
}

// GetUserByEmail retrieves an account by its email address
func (r *UserRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, `WHERE email = $1`, email)
}

// GetUserByID retrieves an account by its id
func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getUser(ctx, `WHERE id = $1`, id)
}

func (r *UserRepositoryImpl) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, email, password_hash, first_name, last_name, phone, notifications, role,
		        registered_at, current_login, last_login
		 FROM users `+where,
		arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
		&u.Notifications, &u.Role, &u.RegisteredAt, &u.CurrentLogin, &u.LastLogin)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// RecordLogin shifts current_login into last_login and stamps current_login.
func (r *UserRepositoryImpl) RecordLogin(ctx context.Context, id int64, now time.Time) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE users
		 SET last_login = current_login,
		     current_login = $2
		 WHERE id = $1`,
		id, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListByRole returns every account with the given role, oldest first.
func (r *UserRepositoryImpl) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, email, password_hash, first_name, last_name, phone, notifications, role,
		        registered_at, current_login, last_login
		 FROM users
		 WHERE role = $1
		 ORDER BY id`,
		role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

// ListNotifiable returns every account that opted into notifications.
func (r *UserRepositoryImpl) ListNotifiable(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, email, password_hash, first_name, last_name, phone, notifications, role,
		        registered_at, current_login, last_login
		 FROM users
		 WHERE notifications
		 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

func scanUsers(rows pgx.Rows) ([]model.User, error) {
	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone,
			&u.Notifications, &u.Role, &u.RegisteredAt, &u.CurrentLogin, &u.LastLogin); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
