package postgres

import (
	"context"
	"fmt"

	"github.com/postboard/postboard/internal/domain"
	"github.com/postboard/postboard/pkg/database"
)

const postColumns = `id, title, content, published, author_id, created_at, updated_at`

// PostRepository is the PostgreSQL-backed post store.
type PostRepository struct {
	pool database.DBTX
}

// NewPostRepository creates a PostgreSQL-backed post repository.
func NewPostRepository(pool database.DBTX) *PostRepository {
	return &PostRepository{pool: pool}
}

// Create inserts a new post.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	query := `
		INSERT INTO posts (` + postColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Content,
		p.Published,
		p.AuthorID,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

// FindPage returns a page of posts ordered newest-first.
func (r *PostRepository) FindPage(ctx context.Context, skip, take int) ([]domain.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, take, skip)
	if err != nil {
		return nil, fmt.Errorf("query posts page: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Content,
			&p.Published,
			&p.AuthorID,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post rows: %w", err)
	}

	return posts, nil
}

// Count returns the total number of posts.
func (r *PostRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}
