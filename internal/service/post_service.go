package service

import (
	"context"
	"errors"
	"strings"

	dom "Pulse/internal/domain"
	"Pulse/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"Pulse/internal/cache"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidID        = errors.New("id must be a positive integer")
	ErrInvalidDirection = errors.New("direction must be like or unlike")
	ErrInvalidTitle     = errors.New("title must be 1-100 characters")
	ErrInvalidContent   = errors.New("content must not be empty")
)

// PostService handles post CRUD and like-counter mutations.
type PostService struct {
	repo  repo.PostRepo
	cache *cache.PostCache
	sf    singleflight.Group
}

// NewPostService creates a PostService. If c is nil, caching is disabled.
func NewPostService(r repo.PostRepo, c *cache.PostCache) *PostService {
	return &PostService{repo: r, cache: c}
}

// Create validates and persists a new post for the author.
func (s *PostService) Create(ctx context.Context, authorID int64, title, content string) (dom.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if n := len(title); n < 1 || n > 100 {
		return dom.Post{}, ErrInvalidTitle
	}
	if content == "" {
		return dom.Post{}, ErrInvalidContent
	}

	p, err := s.repo.Create(ctx, dom.Post{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	})
	if err != nil {
		return dom.Post{}, err
	}
	s.invalidateCache(ctx)
	return p, nil
}

// Feed returns all posts newest first with author usernames.
func (s *PostService) Feed(ctx context.Context) ([]dom.Post, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("feed", func() (interface{}, error) {
			if list, err := s.cache.GetFeed(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.ListWithAuthors(ctx)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetFeed(ctx, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Post), nil
	}
	return s.repo.ListWithAuthors(ctx)
}

// GetByID returns one post.
func (s *PostService) GetByID(ctx context.Context, id int64) (dom.Post, error) {
	if id <= 0 {
		return dom.Post{}, ErrInvalidID
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Post{}, ErrNotFound
		}
		return dom.Post{}, err
	}
	return p, nil
}

// Update changes title/content of the author's own post.
func (s *PostService) Update(ctx context.Context, authorID, id int64, title, content *string) (dom.Post, error) {
	if id <= 0 {
		return dom.Post{}, ErrInvalidID
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Post{}, ErrNotFound
		}
		return dom.Post{}, err
	}
	patch := existing
	if title != nil {
		t := strings.TrimSpace(*title)
		if n := len(t); n < 1 || n > 100 {
			return dom.Post{}, ErrInvalidTitle
		}
		patch.Title = t
	}
	if content != nil {
		c := strings.TrimSpace(*content)
		if c == "" {
			return dom.Post{}, ErrInvalidContent
		}
		patch.Content = c
	}
	p, err := s.repo.Update(ctx, id, authorID, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Post{}, ErrNotFound
		}
		return dom.Post{}, err
	}
	s.invalidateCache(ctx)
	return p, nil
}

// Delete removes the author's own post.
func (s *PostService) Delete(ctx context.Context, authorID, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id, authorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// MutateLikeCount applies a like or unlike to the post's counter and returns
// the updated row from the same mutation. Input checks never touch the
// store; the floor clamp and atomicity live in the repository's UPDATE.
func (s *PostService) MutateLikeCount(ctx context.Context, postID int64, direction string) (dom.Post, error) {
	if postID <= 0 {
		return dom.Post{}, ErrInvalidID
	}
	dir, ok := dom.ParseLikeDirection(direction)
	if !ok {
		return dom.Post{}, ErrInvalidDirection
	}
	p, err := s.repo.MutateLikeCount(ctx, postID, dir)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Post{}, ErrNotFound
		}
		return dom.Post{}, err
	}
	s.invalidateCache(ctx)
	return p, nil
}

func (s *PostService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}
