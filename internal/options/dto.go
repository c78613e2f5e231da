package options

import (
	"time"

	"github.com/google/uuid"

	"github.com/emiliocantu/stockroom-backend/pkg/db/models"
)

// GroupDTO is the option template payload returned to clients and consumed
// by the product editor when a group is added to a selection.
type GroupDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Position  int        `json:"position"`
	Values    []ValueDTO `json:"values"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ValueDTO is one selectable value with its price delta.
type ValueDTO struct {
	ID                   uuid.UUID `json:"id"`
	Value                string    `json:"value"`
	AdditionalPriceCents int       `json:"additional_price_cents"`
	Position             int       `json:"position"`
}

// NewGroupDTO maps the model into the client payload.
func NewGroupDTO(group *models.OptionGroup) *GroupDTO {
	if group == nil {
		return nil
	}
	values := make([]ValueDTO, 0, len(group.Values))
	for _, v := range group.Values {
		values = append(values, ValueDTO{
			ID:                   v.ID,
			Value:                v.Value,
			AdditionalPriceCents: v.AdditionalPriceCents,
			Position:             v.Position,
		})
	}
	return &GroupDTO{
		ID:        group.ID,
		Name:      group.Name,
		Position:  group.Position,
		Values:    values,
		CreatedAt: group.CreatedAt,
		UpdatedAt: group.UpdatedAt,
	}
}
