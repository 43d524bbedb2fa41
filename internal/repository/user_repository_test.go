package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/hungerhelp/hungerhelp/internal/database"
	"github.com/hungerhelp/hungerhelp/internal/model"
	"github.com/joho/godotenv"
)

func init() {
	_ = godotenv.Load("../../.env.test")
}

// setupTestDB connects to the database named by DATABASE_URL, runs the
// migrations and truncates the tables. Tests are skipped when no test
// database is configured.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL is not set; skipping repository integration tests")
	}

	if err := database.RunMigrations(dbURL); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	db, err := database.New(dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := db.Pool.Exec(context.Background(), "TRUNCATE users, posts RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return db
}

func testUser(email string) *model.User {
	return &model.User{
		Email:        email,
		PasswordHash: "$2a$12$notarealhashbutlongenoughtostore00000000000000000000",
		FirstName:    "Alice",
		LastName:     "Smith",
		Phone:        "1234-567-8901",
		Role:         model.RoleUser,
	}
}

func TestUserRepository_CreateUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, testUser("test@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected an assigned id")
	}
	if user.RegisteredAt.IsZero() {
		t.Error("expected registered_at to be stamped")
	}

	// The unique index is the duplicate check.
	_, err = repo.CreateUser(ctx, testUser("test@example.com"))
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("got error %v, want ErrDuplicateEmail", err)
	}
}

func TestUserRepository_GetUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, testUser("test@example.com"))
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	byEmail, err := repo.GetUserByEmail(ctx, "test@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Errorf("got id %d, want %d", byEmail.ID, created.ID)
	}

	byID, err := repo.GetUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byID.Email != "test@example.com" {
		t.Errorf("got email %q, want test@example.com", byID.Email)
	}

	if _, err := repo.GetUserByEmail(ctx, "nonexistent@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("got error %v, want ErrUserNotFound", err)
	}
	if _, err := repo.GetUserByID(ctx, 999999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("got error %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_RecordLogin(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, testUser("test@example.com"))
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	first := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	if err := repo.RecordLogin(ctx, created.ID, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, _ := repo.GetUserByID(ctx, created.ID)
	if user.CurrentLogin == nil || !user.CurrentLogin.Equal(first) {
		t.Errorf("got current_login %v, want %v", user.CurrentLogin, first)
	}
	if user.LastLogin != nil {
		t.Errorf("got last_login %v on first login, want nil", user.LastLogin)
	}

	second := first.Add(48 * time.Hour)
	if err := repo.RecordLogin(ctx, created.ID, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, _ = repo.GetUserByID(ctx, created.ID)
	if user.CurrentLogin == nil || !user.CurrentLogin.Equal(second) {
		t.Errorf("got current_login %v, want %v", user.CurrentLogin, second)
	}
	if user.LastLogin == nil || !user.LastLogin.Equal(first) {
		t.Errorf("got last_login %v, want %v", user.LastLogin, first)
	}

	if err := repo.RecordLogin(ctx, 999999, time.Now()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("got error %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_Listing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := testUser("alice@example.com")
	alice.Notifications = true
	bob := testUser("bob@example.com")
	admin := testUser("admin@email.com")
	admin.Role = model.RoleAdmin

	for _, u := range []*model.User{alice, bob, admin} {
		if _, err := repo.CreateUser(ctx, u); err != nil {
			t.Fatalf("failed to create %s: %v", u.Email, err)
		}
	}

	users, err := repo.ListByRole(ctx, model.RoleUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("got %d users, want 2", len(users))
	}

	notifiable, err := repo.ListNotifiable(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifiable) != 1 || notifiable[0].Email != "alice@example.com" {
		t.Errorf("got notifiable %v, want just alice", notifiable)
	}
}
