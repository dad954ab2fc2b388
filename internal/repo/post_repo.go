package repo

import (
	"context"

	dom "Pulse/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostRepo provides post persistence.
type PostRepo interface {
	Create(ctx context.Context, p dom.Post) (dom.Post, error)
	GetByID(ctx context.Context, id int64) (dom.Post, error)
	ListWithAuthors(ctx context.Context) ([]dom.Post, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]dom.Post, error)
	Update(ctx context.Context, id, authorID int64, patch dom.Post) (dom.Post, error)
	Delete(ctx context.Context, id, authorID int64) error
	MutateLikeCount(ctx context.Context, id int64, dir dom.LikeDirection) (dom.Post, error)
	Count(ctx context.Context) (int64, error)
	TotalLikes(ctx context.Context) (int64, error)
}

// PGPostRepo implements PostRepo with Postgres.
type PGPostRepo struct {
	db *pgxpool.Pool
}

// NewPGPostRepo returns a new PGPostRepo.
func NewPGPostRepo(db *pgxpool.Pool) *PGPostRepo {
	return &PGPostRepo{db: db}
}

// Create inserts a new post and returns it.
func (r *PGPostRepo) Create(ctx context.Context, p dom.Post) (dom.Post, error) {
	query := `
		INSERT INTO posts (title, content, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, title, content, author_id, like_count, created_at`
	var out dom.Post
	err := r.db.QueryRow(ctx, query, p.Title, p.Content, p.AuthorID).Scan(
		&out.ID, &out.Title, &out.Content, &out.AuthorID, &out.LikeCount, &out.CreatedAt,
	)
	return out, err
}

// GetByID returns a post by ID.
func (r *PGPostRepo) GetByID(ctx context.Context, id int64) (dom.Post, error) {
	query := `
		SELECT id, title, content, author_id, like_count, created_at
		FROM posts WHERE id = $1`
	var p dom.Post
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.LikeCount, &p.CreatedAt,
	)
	return p, err
}

// ListWithAuthors returns all posts newest first with author usernames joined.
func (r *PGPostRepo) ListWithAuthors(ctx context.Context) ([]dom.Post, error) {
	query := `
		SELECT p.id, p.title, p.content, p.author_id, p.like_count, p.created_at, u.username
		FROM posts p JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Post
	for rows.Next() {
		var p dom.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.LikeCount,
			&p.CreatedAt, &p.AuthorName); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListByAuthor returns all posts by one author, newest first.
func (r *PGPostRepo) ListByAuthor(ctx context.Context, authorID int64) ([]dom.Post, error) {
	query := `
		SELECT id, title, content, author_id, like_count, created_at
		FROM posts WHERE author_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Post
	for rows.Next() {
		var p dom.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.LikeCount,
			&p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update changes title/content of the author's own post and returns it.
func (r *PGPostRepo) Update(ctx context.Context, id, authorID int64, patch dom.Post) (dom.Post, error) {
	query := `
		UPDATE posts SET title = $3, content = $4
		WHERE id = $1 AND author_id = $2
		RETURNING id, title, content, author_id, like_count, created_at`
	var p dom.Post
	err := r.db.QueryRow(ctx, query, id, authorID, patch.Title, patch.Content).Scan(
		&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.LikeCount, &p.CreatedAt,
	)
	return p, err
}

// Delete removes the author's own post. Returns pgx.ErrNoRows if nothing matched.
func (r *PGPostRepo) Delete(ctx context.Context, id, authorID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// MutateLikeCount applies an atomic like/unlike to the post's counter and
// returns the row produced by that same statement. The unlike branch clamps
// at zero inside the UPDATE expression, so concurrent callers can never
// drive the counter negative or lose increments to a read-modify-write race.
func (r *PGPostRepo) MutateLikeCount(ctx context.Context, id int64, dir dom.LikeDirection) (dom.Post, error) {
	var query string
	if dir == dom.Like {
		query = `
			UPDATE posts SET like_count = like_count + 1
			WHERE id = $1
			RETURNING id, title, content, author_id, like_count, created_at`
	} else {
		query = `
			UPDATE posts SET like_count = GREATEST(like_count - 1, 0)
			WHERE id = $1
			RETURNING id, title, content, author_id, like_count, created_at`
	}
	var p dom.Post
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.LikeCount, &p.CreatedAt,
	)
	return p, err
}

// Count returns the total number of posts.
func (r *PGPostRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

// TotalLikes returns the sum of like counters across all posts.
func (r *PGPostRepo) TotalLikes(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(like_count), 0) FROM posts`).Scan(&n)
	return n, err
}
