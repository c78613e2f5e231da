package models

import (
	"time"

	"github.com/google/uuid"
)

// OptionGroup is a named axis of product variation ("Color", "Size").
type OptionGroup struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID     `gorm:"column:store_id;type:uuid;not null"`
	Name      string        `gorm:"column:name;not null"`
	Position  int           `gorm:"column:position;not null;default:0"`
	Values    []OptionValue `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
