package service

import (
	"context"

	dom "Pulse/internal/domain"
	"Pulse/internal/repo"

	"golang.org/x/sync/singleflight"

	"Pulse/internal/cache"
)

// DashboardService serves aggregate stats for the dashboard.
type DashboardService struct {
	users repo.UserRepo
	posts repo.PostRepo
	cache *cache.PostCache
	sf    singleflight.Group
}

// NewDashboardService creates a DashboardService. If c is nil, caching is disabled.
func NewDashboardService(users repo.UserRepo, posts repo.PostRepo, c *cache.PostCache) *DashboardService {
	return &DashboardService{users: users, posts: posts, cache: c}
}

// Stats returns user count, post count, and total likes.
func (s *DashboardService) Stats(ctx context.Context) (dom.DashboardStats, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("stats", func() (interface{}, error) {
			if cached, err := s.cache.GetStats(ctx); err == nil && cached != nil {
				return *cached, nil
			}
			stats, err := s.load(ctx)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetStats(ctx, stats)
			return stats, nil
		})
		if err != nil {
			return dom.DashboardStats{}, err
		}
		return v.(dom.DashboardStats), nil
	}
	return s.load(ctx)
}

func (s *DashboardService) load(ctx context.Context) (dom.DashboardStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return dom.DashboardStats{}, err
	}
	posts, err := s.posts.Count(ctx)
	if err != nil {
		return dom.DashboardStats{}, err
	}
	likes, err := s.posts.TotalLikes(ctx)
	if err != nil {
		return dom.DashboardStats{}, err
	}
	return dom.DashboardStats{Users: users, Posts: posts, TotalLikes: likes}, nil
}
