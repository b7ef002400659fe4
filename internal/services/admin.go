package services

//go:generate mockgen -source=admin.go -destination=admin_mock_test.go -package=services

import (
	"context"

	"github.com/sbilibin2017/gw-app-reviews/internal/logger"
	"github.com/sbilibin2017/gw-app-reviews/internal/models"
)

// Eraser removes every persisted record.
type Eraser interface {
	EraseAll(ctx context.Context) error
}

// Counter reports the number of records of one store.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// AdminService exposes destructive and diagnostic operations to administrators.
type AdminService struct {
	eraser  Eraser
	items   Counter
	reviews Counter
	users   Counter
	admins  map[string]struct{}
}

// NewAdminService creates an AdminService. Only subjects listed in admins are administrators.
func NewAdminService(eraser Eraser, items, reviews, users Counter, admins []string) *AdminService {
	set := make(map[string]struct{}, len(admins))
	for _, a := range admins {
		if a != "" {
			set[a] = struct{}{}
		}
	}
	return &AdminService{
		eraser:  eraser,
		items:   items,
		reviews: reviews,
		users:   users,
		admins:  set,
	}
}

// IsAdmin reports whether subject may use administrative operations.
func (s *AdminService) IsAdmin(subject string) bool {
	_, ok := s.admins[subject]
	return ok
}

// EraseAll deletes all items, reviews and users.
func (s *AdminService) EraseAll(ctx context.Context) error {
	if err := s.eraser.EraseAll(ctx); err != nil {
		logger.Log.Errorw("failed to erase records", "error", err)
		return err
	}
	logger.Log.Warnw("all records erased")
	return nil
}

// Stats returns the number of records in every store.
func (s *AdminService) Stats(ctx context.Context) (*models.Stats, error) {
	var (
		stats models.Stats
		err   error
	)
	if stats.Items, err = s.items.Count(ctx); err != nil {
		logger.Log.Errorw("failed to count items", "error", err)
		return nil, err
	}
	if stats.Reviews, err = s.reviews.Count(ctx); err != nil {
		logger.Log.Errorw("failed to count reviews", "error", err)
		return nil, err
	}
	if stats.Users, err = s.users.Count(ctx); err != nil {
		logger.Log.Errorw("failed to count users", "error", err)
		return nil, err
	}
	return &stats, nil
}
