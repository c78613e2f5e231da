package options

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emiliocantu/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/emiliocantu/stockroom-backend/pkg/errors"
)

// Service exposes option template management operations.
type Service interface {
	ListGroups(ctx context.Context, storeID uuid.UUID) ([]GroupDTO, error)
	GetGroup(ctx context.Context, storeID, groupID uuid.UUID) (*GroupDTO, error)
	CreateGroup(ctx context.Context, storeID uuid.UUID, input GroupInput) (*GroupDTO, error)
	UpdateGroup(ctx context.Context, storeID, groupID uuid.UUID, input GroupInput) (*GroupDTO, error)
	DeleteGroup(ctx context.Context, storeID, groupID uuid.UUID) error
}

// GroupInput holds the validated payload to create or replace a group.
type GroupInput struct {
	Name     string
	Position int
	Values   []ValueInput
}

// ValueInput is one value of a group being written.
type ValueInput struct {
	Value                string
	AdditionalPriceCents int
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService constructs an option template service.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("options repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListGroups(ctx context.Context, storeID uuid.UUID) ([]GroupDTO, error) {
	groups, err := s.repo.ListGroups(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list option groups")
	}
	out := make([]GroupDTO, 0, len(groups))
	for i := range groups {
		out = append(out, *NewGroupDTO(&groups[i]))
	}
	return out, nil
}

func (s *service) GetGroup(ctx context.Context, storeID, groupID uuid.UUID) (*GroupDTO, error) {
	group, err := s.loadStoreGroup(ctx, storeID, groupID)
	if err != nil {
		return nil, err
	}
	return NewGroupDTO(group), nil
}

func (s *service) CreateGroup(ctx context.Context, storeID uuid.UUID, input GroupInput) (*GroupDTO, error) {
	if err := validateGroupInput(input); err != nil {
		return nil, err
	}

	group := &models.OptionGroup{
		StoreID:  storeID,
		Name:     strings.TrimSpace(input.Name),
		Position: input.Position,
		Values:   buildValueRows(uuid.Nil, input.Values),
	}

	created, err := s.repo.CreateGroup(ctx, group)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert option group")
	}
	return NewGroupDTO(created), nil
}

func (s *service) UpdateGroup(ctx context.Context, storeID, groupID uuid.UUID, input GroupInput) (*GroupDTO, error) {
	if err := validateGroupInput(input); err != nil {
		return nil, err
	}

	group, err := s.loadStoreGroup(ctx, storeID, groupID)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		group.Name = strings.TrimSpace(input.Name)
		group.Position = input.Position
		if _, err := txRepo.UpdateGroup(ctx, group); err != nil {
			return err
		}
		return txRepo.ReplaceValues(ctx, group.ID, buildValueRows(group.ID, input.Values))
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update option group")
	}

	updated, err := s.repo.FindGroup(ctx, groupID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload option group")
	}
	return NewGroupDTO(updated), nil
}

func (s *service) DeleteGroup(ctx context.Context, storeID, groupID uuid.UUID) error {
	if _, err := s.loadStoreGroup(ctx, storeID, groupID); err != nil {
		return err
	}
	if err := s.repo.DeleteGroup(ctx, groupID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete option group")
	}
	return nil
}

func (s *service) loadStoreGroup(ctx context.Context, storeID, groupID uuid.UUID) (*models.OptionGroup, error) {
	group, err := s.repo.FindGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "option group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load option group")
	}
	if group.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "option group does not belong to store")
	}
	return group, nil
}

func validateGroupInput(input GroupInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "group name is required")
	}
	if len(input.Values) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "group needs at least one value")
	}
	seen := make(map[string]struct{}, len(input.Values))
	for _, v := range input.Values {
		name := strings.TrimSpace(v.Value)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "option value cannot be empty")
		}
		if _, ok := seen[name]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate option value").WithDetails(map[string]any{"value": name})
		}
		seen[name] = struct{}{}
	}
	return nil
}

func buildValueRows(groupID uuid.UUID, inputs []ValueInput) []models.OptionValue {
	rows := make([]models.OptionValue, 0, len(inputs))
	for idx, v := range inputs {
		row := models.OptionValue{
			Value:                strings.TrimSpace(v.Value),
			AdditionalPriceCents: v.AdditionalPriceCents,
			Position:             idx,
		}
		if groupID != uuid.Nil {
			row.GroupID = groupID
		}
		rows = append(rows, row)
	}
	return rows
}
