package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sarcoord/rescue-backend-go/internal/models"
)

// DashboardService aggregates the start page numbers
type DashboardService struct {
	users  *UserService
	events *EventService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(users *UserService, events *EventService) *DashboardService {
	return &DashboardService{users: users, events: events}
}

// Stats returns the user count and the active searches
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.UserCount, err = s.users.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveSearches, err = s.events.Active(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
