package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// LocalSubscription is a checkout-success row the upstream API did not
// accept. Rows live here until a sweep re-posts them; synced rows are pruned.
type LocalSubscription struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	Email       string            `gorm:"not null;index" json:"email"`
	Name        string            `json:"name"`
	Plan        string            `gorm:"not null" json:"plan"`
	Amount      float64           `gorm:"not null" json:"amount"`
	Currency    string            `gorm:"not null" json:"currency"`
	Status      string            `gorm:"not null" json:"status"`
	SessionID   string            `gorm:"column:session_id;uniqueIndex" json:"session_id"`
	Payload     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"payload,omitempty"`
	PeriodStart time.Time         `gorm:"not null" json:"period_start"`
	PeriodEnd   time.Time         `gorm:"not null" json:"period_end"`
	Synced      bool              `gorm:"not null;index" json:"synced"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (LocalSubscription) TableName() string {
	return "local_subscriptions"
}
