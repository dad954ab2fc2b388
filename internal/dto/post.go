package dto

import "time"

// CreatePostRequest is the JSON body for POST /posts.
type CreatePostRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=100"`
	Content string `json:"content" binding:"required"`
}

// UpdatePostRequest is the JSON body for PATCH /posts/:id. Nil = keep as is.
type UpdatePostRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=100"`
	Content *string `json:"content" binding:"omitempty,min=1"`
}

// LikeRequest is the JSON body for POST /posts/:id/like.
type LikeRequest struct {
	Action string `json:"action" binding:"required"`
}

// PostResponse is a post as returned to clients.
type PostResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	LikeCount  int64     `json:"like_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListPostsResponse wraps the post feed.
type ListPostsResponse struct {
	Items []PostResponse `json:"items"`
}

// LikeResponse is returned after a like/unlike mutation.
type LikeResponse struct {
	OK   bool         `json:"ok"`
	Post PostResponse `json:"post"`
}

// StatsResponse is the dashboard aggregate numbers.
type StatsResponse struct {
	Users      int64 `json:"users"`
	Posts      int64 `json:"posts"`
	TotalLikes int64 `json:"total_likes"`
}
