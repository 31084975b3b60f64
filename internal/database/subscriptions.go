package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/kaspistat/catalog-service/internal/session"
	"github.com/kaspistat/catalog-service/internal/subscription"
)

// SubscriptionStore is the pgx-backed subscription.Store. It owns the
// users.roles column the expiry sweep rewrites.
type SubscriptionStore struct {
	db conn
}

func NewSubscriptionStore(db conn) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

var _ subscription.Store = (*SubscriptionStore)(nil)

const subscriptionColumns = `id, external_id, user_id, status, amount, next_transaction_at`

func scanSubscription(row pgx.Row) (*subscription.Subscription, error) {
	var (
		sub    subscription.Subscription
		status string
	)
	if err := row.Scan(&sub.ID, &sub.ExternalID, &sub.UserID, &status, &sub.Amount, &sub.NextTransactionAt); err != nil {
		return nil, err
	}
	sub.Status = subscription.Status(status)
	return &sub, nil
}

func statusStrings(statuses []subscription.Status) []string {
	return lo.Map(statuses, func(s subscription.Status, _ int) string { return string(s) })
}

func (s *SubscriptionStore) LatestSubscription(ctx context.Context, userID int64, statuses []subscription.Status) (*subscription.Subscription, error) {
	sub, err := scanSubscription(s.db.QueryRow(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE user_id = $1 AND status = ANY($2)
		ORDER BY id DESC
		LIMIT 1
	`, userID, statusStrings(statuses)))
	if missing, err := noRows(err); missing || err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionStore) DueSubscriptions(ctx context.Context, status subscription.Status, until time.Time) ([]subscription.Subscription, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE status = $1 AND next_transaction_at <= $2
		ORDER BY id
	`, string(status), until)
	if err != nil {
		return nil, fmt.Errorf("query due subscriptions: %w", err)
	}
	defer rows.Close()

	var out []subscription.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		out = append(out, *sub)
	}
	return out, rows.Err()
}

func (s *SubscriptionStore) SetSubscriptionStatus(ctx context.Context, id int64, status subscription.Status) error {
	if _, err := s.db.Exec(ctx, `UPDATE subscriptions SET status = $2 WHERE id = $1`, id, string(status)); err != nil {
		return fmt.Errorf("set status of subscription %d: %w", id, err)
	}
	return nil
}

// UserRoles returns nil roles for an unknown user.
func (s *SubscriptionStore) UserRoles(ctx context.Context, userID int64) ([]session.Role, error) {
	var roles []string
	err := s.db.QueryRow(ctx, `SELECT roles FROM users WHERE id = $1`, userID).Scan(&roles)
	if missing, err := noRows(err); missing || err != nil {
		return nil, err
	}
	return lo.Map(roles, func(r string, _ int) session.Role { return session.Role(r) }), nil
}

func (s *SubscriptionStore) SetUserRoles(ctx context.Context, userID int64, roles []session.Role) error {
	raw := lo.Map(roles, func(r session.Role, _ int) string { return string(r) })
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, roles) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET roles = EXCLUDED.roles
	`, userID, raw)
	if err != nil {
		return fmt.Errorf("set roles of user %d: %w", userID, err)
	}
	return nil
}
