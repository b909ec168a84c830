package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/innovatun/console/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sub *LocalSubscription) error
	ListByEmail(ctx context.Context, db *gorm.DB, email string) ([]*LocalSubscription, error)
	ListUnsynced(ctx context.Context, db *gorm.DB, limit int) ([]*LocalSubscription, error)
	List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*LocalSubscription, error)
	MarkSynced(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
	PruneSynced(ctx context.Context, db *gorm.DB) (int64, error)
}
