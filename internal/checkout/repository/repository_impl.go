package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/innovatun/console/internal/checkout/domain"
	"github.com/innovatun/console/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sub *domain.LocalSubscription) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO local_subscriptions (id, email, name, plan, amount, currency, status, session_id, payload, period_start, period_end, synced, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID,
		sub.Email,
		sub.Name,
		sub.Plan,
		sub.Amount,
		sub.Currency,
		sub.Status,
		sub.SessionID,
		sub.Payload,
		sub.PeriodStart,
		sub.PeriodEnd,
		sub.Synced,
		sub.CreatedAt,
		sub.UpdatedAt,
	).Error
}

func (r *repo) ListByEmail(ctx context.Context, db *gorm.DB, email string) ([]*domain.LocalSubscription, error) {
	var subs []*domain.LocalSubscription
	err := db.WithContext(ctx).
		Model(&domain.LocalSubscription{}).
		Where("email = ?", email).
		Order("created_at desc, id desc").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repo) ListUnsynced(ctx context.Context, db *gorm.DB, limit int) ([]*domain.LocalSubscription, error) {
	var subs []*domain.LocalSubscription
	err := db.WithContext(ctx).
		Model(&domain.LocalSubscription{}).
		Where("synced = ?", false).
		Order("created_at asc, id asc").
		Limit(limit).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*domain.LocalSubscription, error) {
	stmt := db.WithContext(ctx).Model(&domain.LocalSubscription{})
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err == nil && cursor.CreatedAt != "" {
			createdAt, parseErr := time.Parse(time.RFC3339, cursor.CreatedAt)
			if parseErr == nil {
				stmt = stmt.Where("created_at < ? OR (created_at = ? AND id < ?)", createdAt, createdAt, cursor.ID)
			}
		}
	}
	if page.PageSize > 0 {
		stmt = stmt.Limit(page.PageSize + 1)
	}

	var subs []*domain.LocalSubscription
	err := stmt.
		Order("created_at desc, id desc").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repo) MarkSynced(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE local_subscriptions SET synced = ?, updated_at = ? WHERE id = ?`,
		true,
		at,
		id,
	).Error
}

func (r *repo) PruneSynced(ctx context.Context, db *gorm.DB) (int64, error) {
	result := db.WithContext(ctx).Exec(`DELETE FROM local_subscriptions WHERE synced = ?`, true)
	return result.RowsAffected, result.Error
}
