package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/couchcryptid/safejourney/internal/domain"
)

var validSubscriptionTypes = map[string]bool{
	domain.SubscribeState:    true,
	domain.SubscribeRoute:    true,
	domain.SubscribeNational: true,
}

var validSeverities = map[string]bool{
	"low": true, "moderate": true, "high": true, "severe": true,
}

// Subscribe creates or updates an alert subscription. The composite key is
// (platform, user, type, target); resubscribing updates the severity floor
// and reactivates the record.
func (s *Store) Subscribe(ctx context.Context, sub domain.Subscription) (domain.Subscription, error) {
	if sub.Platform == "" || sub.UserID == "" || sub.Target == "" {
		return domain.Subscription{}, fmt.Errorf("subscription requires platform, user, and target")
	}
	if !validSubscriptionTypes[sub.Type] {
		return domain.Subscription{}, fmt.Errorf("invalid subscription type %q", sub.Type)
	}
	if sub.MinSeverity == "" {
		sub.MinSeverity = "moderate"
	}
	if !validSeverities[sub.MinSeverity] {
		return domain.Subscription{}, fmt.Errorf("invalid min severity %q", sub.MinSeverity)
	}

	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alert_subscriptions (id, platform, user_id, type, target, min_severity, active)
		VALUES (?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(platform, user_id, type, target) DO UPDATE SET
		    min_severity = excluded.min_severity,
		    active = 1,
		    updated_at = datetime('now')`,
		id, sub.Platform, sub.UserID, sub.Type, sub.Target, sub.MinSeverity)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("upsert subscription: %w", err)
	}

	return s.getSubscription(ctx, sub.Platform, sub.UserID, sub.Type, sub.Target)
}

// Unsubscribe removes a subscription by ID. Removing an unknown ID is an error.
func (s *Store) Unsubscribe(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM alert_subscriptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("subscription %q not found", id)
	}
	return nil
}

// Subscriptions lists a user's active subscriptions, newest first.
func (s *Store) Subscriptions(ctx context.Context, platform, userID string) ([]domain.Subscription, error) {
	return s.querySubscriptions(ctx, `
		SELECT id, platform, user_id, type, target, min_severity, active, created_at, updated_at
		FROM alert_subscriptions
		WHERE platform = ? AND user_id = ? AND active = 1
		ORDER BY created_at DESC`,
		platform, userID)
}

// SubscriptionsForTarget lists every active subscription watching a target,
// used when fanning out alerts for a region or route.
func (s *Store) SubscriptionsForTarget(ctx context.Context, subType, target string) ([]domain.Subscription, error) {
	return s.querySubscriptions(ctx, `
		SELECT id, platform, user_id, type, target, min_severity, active, created_at, updated_at
		FROM alert_subscriptions
		WHERE type = ? AND target = ? AND active = 1
		ORDER BY created_at`,
		subType, target)
}

func (s *Store) getSubscription(ctx context.Context, platform, userID, subType, target string) (domain.Subscription, error) {
	var sub domain.Subscription
	err := s.db.QueryRowContext(ctx, `
		SELECT id, platform, user_id, type, target, min_severity, active, created_at, updated_at
		FROM alert_subscriptions
		WHERE platform = ? AND user_id = ? AND type = ? AND target = ?`,
		platform, userID, subType, target).Scan(
		&sub.ID, &sub.Platform, &sub.UserID, &sub.Type, &sub.Target,
		&sub.MinSeverity, &sub.Active, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("load subscription: %w", err)
	}
	return sub, nil
}

func (s *Store) querySubscriptions(ctx context.Context, query string, args ...any) ([]domain.Subscription, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(
			&sub.ID, &sub.Platform, &sub.UserID, &sub.Type, &sub.Target,
			&sub.MinSeverity, &sub.Active, &sub.CreatedAt, &sub.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
