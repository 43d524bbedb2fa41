package test

import (
	"context"
	"sync"
	"time"

	"github.com/hungerhelp/hungerhelp/internal/interfaces"
	"github.com/hungerhelp/hungerhelp/internal/model"
	"github.com/hungerhelp/hungerhelp/internal/repository"
)

// MockUserRepository implements interfaces.UserRepository in memory.
type MockUserRepository struct {
	mu     sync.Mutex
	users  map[string]*model.User
	nextID int64

	// GetByEmailCalls counts lookups so tests can assert that locked
	// sessions never reach the credential store.
	GetByEmailCalls int
}

var _ interfaces.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[string]*model.User),
		nextID: 1,
	}
}

func (r *MockUserRepository) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[u.Email]; exists {
		return nil, repository.ErrDuplicateEmail
	}

	created := *u
	created.ID = r.nextID
	created.RegisteredAt = time.Now()
	r.nextID++
	r.users[created.Email] = &created

	out := created
	return &out, nil
}

func (r *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.GetByEmailCalls++
	u, exists := r.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *MockUserRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *MockUserRepository) RecordLogin(ctx context.Context, id int64, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			u.LastLogin = u.CurrentLogin
			t := now
			u.CurrentLogin = &t
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (r *MockUserRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *MockUserRepository) ListNotifiable(ctx context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.User
	for _, u := range r.users {
		if u.Notifications {
			out = append(out, *u)
		}
	}
	return out, nil
}

// MockPostRepository implements interfaces.PostRepository in memory.
type MockPostRepository struct {
	mu     sync.Mutex
	posts  map[int64]*model.Post
	nextID int64
}

var _ interfaces.PostRepository = (*MockPostRepository)(nil)

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		posts:  make(map[int64]*model.Post),
		nextID: 1,
	}
}

func (r *MockPostRepository) CreatePost(ctx context.Context, p *model.Post) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *p
	created.ID = r.nextID
	created.Views = 0
	r.nextID++
	r.posts[created.ID] = &created

	out := created
	return &out, nil
}

func (r *MockPostRepository) ListPosts(ctx context.Context, order model.PostOrder) ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, *p)
	}

	// Insertion sort keeps the mock dependency-free.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			var swap bool
			if order == model.OrderViews {
				swap = out[j].Views > out[j-1].Views
			} else {
				swap = out[j].ID > out[j-1].ID
			}
			if !swap {
				break
			}
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (r *MockPostRepository) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.posts[id]
	if !exists {
		return nil, repository.ErrPostNotFound
	}
	out := *p
	return &out, nil
}

func (r *MockPostRepository) ViewPost(ctx context.Context, id int64) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.posts[id]
	if !exists {
		return nil, repository.ErrPostNotFound
	}
	p.Views++
	out := *p
	return &out, nil
}

func (r *MockPostRepository) UpdatePost(ctx context.Context, p *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[p.ID]; !exists {
		return repository.ErrPostNotFound
	}
	updated := *p
	r.posts[p.ID] = &updated
	return nil
}

func (r *MockPostRepository) DeletePost(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[id]; !exists {
		return repository.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

// MockImageStore records saves without touching disk.
type MockImageStore struct {
	mu    sync.Mutex
	Saved []string
}

func (s *MockImageStore) Save(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Saved = append(s.Saved, filename)
	return "/images/" + filename, nil
}
