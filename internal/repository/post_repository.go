package repository

import (
	"context"
	"errors"

	"github.com/hungerhelp/hungerhelp/internal/database"
	"github.com/hungerhelp/hungerhelp/internal/interfaces"
	"github.com/hungerhelp/hungerhelp/internal/model"
	"github.com/jackc/pgx/v4"
)

// PostRepositoryImpl implements the PostRepository interface
type PostRepositoryImpl struct {
	db *database.DB
}

var _ interfaces.PostRepository = (*PostRepositoryImpl)(nil)

// NewPostRepository creates a new PostRepository instance
func NewPostRepository(db *database.DB) interfaces.PostRepository {
	return &PostRepositoryImpl{db: db}
}

// CreatePost inserts a new recipe post with a zero view count.
func (r *PostRepositoryImpl) CreatePost(ctx context.Context, p *model.Post) (*model.Post, error) {
	created := *p
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO posts (user_id, title, recipe, ingredients, image, price)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING post_id, views`,
		p.UserID, p.Title, p.Recipe, p.Ingredients, p.Image, p.Price).
		Scan(&created.ID, &created.Views)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListPosts returns every post in the requested order.
func (r *PostRepositoryImpl) ListPosts(ctx context.Context, order model.PostOrder) ([]model.Post, error) {
	orderBy := `post_id DESC`
	if order == model.OrderViews {
		orderBy = `views DESC`
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT post_id, user_id, title, recipe, ingredients, image, price, views
		 FROM posts
		 ORDER BY `+orderBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Recipe, &p.Ingredients,
			&p.Image, &p.Price, &p.Views); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPost retrieves a post without touching the view counter.
func (r *PostRepositoryImpl) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	err := r.db.Pool.QueryRow(ctx,
		`SELECT post_id, user_id, title, recipe, ingredients, image, price, views
		 FROM posts
		 WHERE post_id = $1`,
		id).Scan(&p.ID, &p.UserID, &p.Title, &p.Recipe, &p.Ingredients, &p.Image, &p.Price, &p.Views)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ViewPost increments the view counter atomically and returns the updated
// post. Concurrent views never lose increments.
func (r *PostRepositoryImpl) ViewPost(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE posts
		 SET views = views + 1
		 WHERE post_id = $1
		 RETURNING post_id, user_id, title, recipe, ingredients, image, price, views`,
		id).Scan(&p.ID, &p.UserID, &p.Title, &p.Recipe, &p.Ingredients, &p.Image, &p.Price, &p.Views)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePost overwrites the mutable fields of a post.
func (r *PostRepositoryImpl) UpdatePost(ctx context.Context, p *model.Post) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE posts
		 SET title = $2, recipe = $3, ingredients = $4, image = $5, price = $6
		 WHERE post_id = $1`,
		p.ID, p.Title, p.Recipe, p.Ingredients, p.Image, p.Price)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// DeletePost removes a post.
func (r *PostRepositoryImpl) DeletePost(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM posts WHERE post_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}
