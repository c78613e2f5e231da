package models

import (
	"time"

	"github.com/google/uuid"
)

// VariantOption pins a variant to one value of one option group. The value
// name is denormalized so read paths can label rows without joining the
// option templates, which may have changed since generation.
type VariantOption struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID uuid.UUID `gorm:"column:variant_id;type:uuid;not null"`
	GroupID   uuid.UUID `gorm:"column:group_id;type:uuid;not null"`
	ValueID   uuid.UUID `gorm:"column:value_id;type:uuid;not null"`
	ValueName string    `gorm:"column:value_name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
