package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/afeibuhuifei/project-flow/interfaces"
	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/models"
)

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, interfaces.ErrNotificationNotFound) || errors.Is(err, ErrBadNotificationKey)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

// BreakerActivityStore guards an ActivityStore with a circuit breaker.
type BreakerActivityStore struct {
	next interfaces.ActivityStore
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerActivityStore(next interfaces.ActivityStore) *BreakerActivityStore {
	return &BreakerActivityStore{next: next, cb: newBreaker("activity-cb")}
}

func (s *BreakerActivityStore) Record(ctx context.Context, activity *models.ProjectActivity) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Record(ctx, activity)
	})
	return err
}

func (s *BreakerActivityStore) ListByProject(ctx context.Context, projectID uint, limit int64) ([]models.ProjectActivity, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.ListByProject(ctx, projectID, limit)
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.ProjectActivity), nil
}

// BreakerNotificationStore guards a NotificationStore with a circuit breaker.
type BreakerNotificationStore struct {
	next interfaces.NotificationStore
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerNotificationStore(next interfaces.NotificationStore) *BreakerNotificationStore {
	return &BreakerNotificationStore{next: next, cb: newBreaker("notifications-cb")}
}

func (s *BreakerNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Create(ctx, n)
	})
	return err
}

func (s *BreakerNotificationStore) ListByUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.ListByUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.Notification), nil
}

func (s *BreakerNotificationStore) MarkAsRead(ctx context.Context, userID uint, id, createdAt string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.MarkAsRead(ctx, userID, id, createdAt)
	})
	return err
}

func (s *BreakerNotificationStore) Delete(ctx context.Context, userID uint, id, createdAt string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Delete(ctx, userID, id, createdAt)
	})
	return err
}
