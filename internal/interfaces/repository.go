package interfaces

import (
	"context"
	"time"

	"github.com/hungerhelp/hungerhelp/internal/model"
)

// UserRepository defines the interface for account-related database operations
type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	// RecordLogin shifts current_login into last_login and stamps
	// current_login with now.
	RecordLogin(ctx context.Context, id int64, now time.Time) error
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	ListNotifiable(ctx context.Context) ([]model.User, error)
}

// PostRepository defines the interface for recipe post operations
type PostRepository interface {
	CreatePost(ctx context.Context, p *model.Post) (*model.Post, error)
	ListPosts(ctx context.Context, order model.PostOrder) ([]model.Post, error)
	GetPost(ctx context.Context, id int64) (*model.Post, error)
	// ViewPost atomically increments the view counter and returns the
	// updated post.
	ViewPost(ctx context.Context, id int64) (*model.Post, error)
	UpdatePost(ctx context.Context, p *model.Post) error
	DeletePost(ctx context.Context, id int64) error
}
