package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/hungerhelp/hungerhelp/internal/interfaces"
	"github.com/hungerhelp/hungerhelp/internal/metrics"
	"github.com/hungerhelp/hungerhelp/internal/model"
	"github.com/hungerhelp/hungerhelp/internal/repository"
	"github.com/hungerhelp/hungerhelp/internal/storage"
	"github.com/hungerhelp/hungerhelp/internal/validate"
	"github.com/microcosm-cc/bluemonday"
)

var (
	// ErrPostNotFound is re-exported for handlers.
	ErrPostNotFound = repository.ErrPostNotFound
	// ErrNotPostOwner means the caller is neither the author nor an admin.
	ErrNotPostOwner = errors.New("not the author of this post")
	// ErrInvalidOrder means the listing order is not recent or views.
	ErrInvalidOrder = errors.New("order must be views or recent")
)

// Notifier announces a new post to subscribed accounts.
type Notifier interface {
	AnnouncePost(ctx context.Context) error
}

// PostService owns the recipe blog: creation with sanitized content and a
// stored image, listing, viewing, partial edits and deletion.
type PostService struct {
	postRepo  interfaces.PostRepository
	images    storage.ImageStore
	notifier  Notifier
	collector *metrics.Collector
	policy    *bluemonday.Policy
}

func NewPostService(postRepo interfaces.PostRepository, images storage.ImageStore, notifier Notifier, collector *metrics.Collector) *PostService {
	return &PostService{
		postRepo:  postRepo,
		images:    images,
		notifier:  notifier,
		collector: collector,
		policy:    contentPolicy(),
	}
}

// contentPolicy allows basic formatting in recipe bodies and strips
// everything executable.
func contentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
	)
	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowURLSchemeWithCustomPolicy("https", func(u *url.URL) bool { return true })
	return p
}

// CreatePostInput carries the recipe form fields plus the raw upload.
type CreatePostInput struct {
	Title       string
	Recipe      string
	Ingredients string
	Price       string
	ImageName   string
	ImageType   string
	ImageData   []byte
}

// CreatePost validates the form, stores the image, persists the sanitized
// post and kicks off the notification fan-out. The fan-out runs in the
// background; its failure never fails the request.
func (s *PostService) CreatePost(ctx context.Context, authorID int64, in CreatePostInput) (*model.Post, error) {
	form := validate.Recipe{
		Title:       in.Title,
		Recipe:      in.Recipe,
		Ingredients: in.Ingredients,
		Price:       in.Price,
		Image:       in.ImageName,
	}
	if errs := form.Validate(); errs != nil {
		return nil, errs
	}

	imageURL, err := s.images.Save(ctx, in.ImageName, in.ImageType, in.ImageData)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			return nil, validate.FieldErrors{"image": {"only images are allowed"}}
		}
		return nil, fmt.Errorf("storing image: %w", err)
	}

	post, err := s.postRepo.CreatePost(ctx, &model.Post{
		UserID:      authorID,
		Title:       in.Title,
		Recipe:      s.policy.Sanitize(in.Recipe),
		Ingredients: s.policy.Sanitize(in.Ingredients),
		Image:       imageURL,
		Price:       in.Price,
	})
	if err != nil {
		return nil, err
	}

	s.collector.RecordPostCreated()

	if s.notifier != nil {
		go func() {
			if err := s.notifier.AnnouncePost(context.WithoutCancel(ctx)); err != nil {
				slog.Error("post announcement failed", "post_id", post.ID, "error", err)
			}
		}()
	}

	return post, nil
}

// ListPosts returns all posts in the requested order.
func (s *PostService) ListPosts(ctx context.Context, order model.PostOrder) ([]model.Post, error) {
	if order != model.OrderRecent && order != model.OrderViews {
		return nil, ErrInvalidOrder
	}
	return s.postRepo.ListPosts(ctx, order)
}

// ViewPost returns a post and counts the view.
func (s *PostService) ViewPost(ctx context.Context, id int64) (*model.Post, error) {
	return s.postRepo.ViewPost(ctx, id)
}

// EditPostInput carries the optional edit fields. Empty fields and a nil
// image leave the stored values unchanged.
type EditPostInput struct {
	Title       string
	Recipe      string
	Ingredients string
	Price       string
	ImageName   string
	ImageType   string
	ImageData   []byte
}

// EditPost applies a partial edit. Only the author or an admin may edit.
func (s *PostService) EditPost(ctx context.Context, callerID int64, callerRole model.Role, postID int64, in EditPostInput) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != callerID && callerRole != model.RoleAdmin {
		return nil, ErrNotPostOwner
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Recipe != "" {
		post.Recipe = s.policy.Sanitize(in.Recipe)
	}
	if in.Ingredients != "" {
		post.Ingredients = s.policy.Sanitize(in.Ingredients)
	}
	if in.Price != "" {
		if !validate.Price(in.Price) {
			return nil, validate.FieldErrors{"price": {"Price must be in the proper format e.g. (1, 1.99, 10.00)"}}
		}
		post.Price = in.Price
	}
	if len(in.ImageData) > 0 {
		imageURL, err := s.images.Save(ctx, in.ImageName, in.ImageType, in.ImageData)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedType) {
				return nil, validate.FieldErrors{"image": {"only images are allowed"}}
			}
			return nil, fmt.Errorf("storing image: %w", err)
		}
		post.Image = imageURL
	}

	if err := s.postRepo.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post. Only the author or an admin may delete.
func (s *PostService) DeletePost(ctx context.Context, callerID int64, callerRole model.Role, postID int64) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != callerID && callerRole != model.RoleAdmin {
		return ErrNotPostOwner
	}
	return s.postRepo.DeletePost(ctx, postID)
}
