package domain

import "time"

// Post is the domain entity for a social post.
type Post struct {
	ID        int64
	Title     string
	Content   string
	AuthorID  int64
	LikeCount int64
	CreatedAt time.Time

	// AuthorName is filled on reads that join the author. Not a column.
	AuthorName string
}

// LikeDirection is the sign of a like-counter mutation.
type LikeDirection string

const (
	Like   LikeDirection = "like"
	Unlike LikeDirection = "unlike"
)

// ParseLikeDirection maps a request string to a LikeDirection.
func ParseLikeDirection(s string) (LikeDirection, bool) {
	switch LikeDirection(s) {
	case Like, Unlike:
		return LikeDirection(s), true
	}
	return "", false
}
