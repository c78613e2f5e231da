package models

import (
	"time"

	"github.com/google/uuid"
)

// OptionValue is one concrete choice within a group, carrying a signed price
// delta applied on top of the base selling price.
type OptionValue struct {
	ID                   uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID              uuid.UUID `gorm:"column:group_id;type:uuid;not null"`
	Value                string    `gorm:"column:value;not null"`
	AdditionalPriceCents int       `gorm:"column:additional_price_cents;not null;default:0"`
	Position             int       `gorm:"column:position;not null;default:0"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
}
