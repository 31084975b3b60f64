// Package subscription tracks users' paid plans and expires the ones
// scheduled for cancellation.
package subscription

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kaspistat/catalog-service/internal/metrics"
	"github.com/kaspistat/catalog-service/internal/payment"
	"github.com/kaspistat/catalog-service/internal/session"
)

// Status values as reported by the payment provider.
type Status string

const (
	StatusActive          Status = "Active"
	StatusPastDue         Status = "PastDue"
	StatusWillBeCancelled Status = "WillBeCancelled"
	StatusCancelled       Status = "Cancelled"
	StatusRejected        Status = "Rejected"
	StatusExpired         Status = "Expired"
)

// LiveStatuses are the statuses of a subscription that still grants access.
var LiveStatuses = []Status{StatusActive, StatusPastDue, StatusWillBeCancelled}

type Subscription struct {
	ID                int64           `json:"id"`
	ExternalID        string          `json:"externalId"`
	UserID            int64           `json:"userId"`
	Status            Status          `json:"status"`
	Amount            decimal.Decimal `json:"amount"`
	NextTransactionAt *time.Time      `json:"nextTransactionAt"`
}

// Store persists subscriptions and the user roles they grant.
type Store interface {
	// LatestSubscription returns the newest subscription of userID in one of
	// statuses, or nil.
	LatestSubscription(ctx context.Context, userID int64, statuses []Status) (*Subscription, error)
	// DueSubscriptions returns subscriptions in status whose next
	// transaction is at or before until.
	DueSubscriptions(ctx context.Context, status Status, until time.Time) ([]Subscription, error)
	SetSubscriptionStatus(ctx context.Context, id int64, status Status) error
	UserRoles(ctx context.Context, userID int64) ([]session.Role, error)
	SetUserRoles(ctx context.Context, userID int64, roles []session.Role) error
}

type Service struct {
	store    Store
	provider payment.Provider
	logger   *zerolog.Logger
	metrics  *metrics.Recorder
}

func NewService(store Store, provider payment.Provider, logger *zerolog.Logger, m *metrics.Recorder) *Service {
	return &Service{store: store, provider: provider, logger: logger, metrics: m}
}

// GetActive returns the user's current subscription, or nil.
func (s *Service) GetActive(ctx context.Context, userID int64) (*Subscription, error) {
	sub, err := s.store.LatestSubscription(ctx, userID, LiveStatuses)
	if err != nil {
		return nil, fmt.Errorf("latest subscription of user %d: %w", userID, err)
	}
	return sub, nil
}

// Cancel asks the provider to stop billing sub and returns the user's
// subscription as it stands afterwards. The provider reports the status
// change back, so nothing is written here.
func (s *Service) Cancel(ctx context.Context, sub Subscription) (*Subscription, error) {
	if err := s.provider.Cancel(ctx, sub.ExternalID); err != nil {
		return nil, fmt.Errorf("cancel subscription %d: %w", sub.ID, err)
	}
	return s.GetActive(ctx, sub.UserID)
}

// ExpireDue cancels every subscription scheduled for cancellation whose
// next transaction falls on or before the end of now's day. Premium users
// are downgraded to site users. It returns the cancelled ids.
func (s *Service) ExpireDue(ctx context.Context, now time.Time) ([]int64, error) {
	until := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	due, err := s.store.DueSubscriptions(ctx, StatusWillBeCancelled, until)
	if err != nil {
		return nil, fmt.Errorf("due subscriptions: %w", err)
	}

	ids := make([]int64, 0, len(due))
	for _, sub := range due {
		roles, err := s.store.UserRoles(ctx, sub.UserID)
		if err != nil {
			return ids, fmt.Errorf("roles of user %d: %w", sub.UserID, err)
		}
		if slices.Contains(roles, session.RolePremiumUser) {
			if err := s.store.SetUserRoles(ctx, sub.UserID, []session.Role{session.RoleSiteUser}); err != nil {
				return ids, fmt.Errorf("downgrade user %d: %w", sub.UserID, err)
			}
		}
		if err := s.store.SetSubscriptionStatus(ctx, sub.ID, StatusCancelled); err != nil {
			return ids, fmt.Errorf("cancel subscription %d: %w", sub.ID, err)
		}
		ids = append(ids, sub.ID)
	}

	s.metrics.RecordSubscriptionsExpired(len(ids))
	s.logger.Info().Ints64("ids", ids).Msg("expired subscriptions")
	return ids, nil
}
