package options

import (
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/emiliocantu/stockroom-backend/pkg/errors"
)

func TestValidateGroupInput(t *testing.T) {
	valid := GroupInput{
		Name: "Color",
		Values: []ValueInput{
			{Value: "Red"},
			{Value: "Blue", AdditionalPriceCents: 500},
		},
	}
	if err := validateGroupInput(valid); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	cases := []struct {
		name  string
		input GroupInput
	}{
		{"blank name", GroupInput{Name: "  ", Values: []ValueInput{{Value: "Red"}}}},
		{"no values", GroupInput{Name: "Color"}},
		{"blank value", GroupInput{Name: "Color", Values: []ValueInput{{Value: " "}}}},
		{"duplicate value", GroupInput{Name: "Color", Values: []ValueInput{{Value: "Red"}, {Value: "Red"}}}},
		{"duplicate after trim", GroupInput{Name: "Color", Values: []ValueInput{{Value: "Red"}, {Value: " Red "}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateGroupInput(tc.input)
			if err == nil {
				t.Fatalf("expected rejection")
			}
			if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
				t.Fatalf("code = %s, want validation", pkgerrors.As(err).Code())
			}
		})
	}
}

func TestBuildValueRows(t *testing.T) {
	groupID := uuid.New()
	rows := buildValueRows(groupID, []ValueInput{
		{Value: " Red "},
		{Value: "Blue", AdditionalPriceCents: 500},
	})

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Value != "Red" {
		t.Fatalf("value not trimmed: %q", rows[0].Value)
	}
	if rows[0].Position != 0 || rows[1].Position != 1 {
		t.Fatalf("positions must follow input order")
	}
	if rows[1].GroupID != groupID {
		t.Fatalf("row not bound to group")
	}

	unbound := buildValueRows(uuid.Nil, []ValueInput{{Value: "Red"}})
	if unbound[0].GroupID != uuid.Nil {
		t.Fatalf("nil group id must stay unset for association insert")
	}
}
