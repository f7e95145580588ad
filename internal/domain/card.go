package domain

import (
	"strings"
	"time"
)

// Card is one catalog record loaded into a grid as an item value.
type Card struct {
	ID          string
	GridKey     string
	Kind        string
	Label       string
	Description string
	Position    int
	CreatedAt   time.Time
}

// CardInput holds values used to create a card.
type CardInput struct {
	ID          string
	GridKey     string
	Kind        string
	Label       string
	Description string
	Position    int
}

// NewCard validates input and constructs a card.
func NewCard(in CardInput, now time.Time) (Card, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.GridKey = strings.TrimSpace(strings.ToLower(in.GridKey))
	in.Kind = strings.TrimSpace(in.Kind)
	in.Label = strings.TrimSpace(in.Label)
	in.Description = strings.TrimSpace(in.Description)

	if in.ID == "" {
		return Card{}, ErrInvalidID
	}
	if in.GridKey == "" {
		return Card{}, ErrInvalidGridKey
	}
	if in.Kind == "" {
		return Card{}, ErrInvalidName
	}
	if in.Label == "" {
		return Card{}, ErrInvalidLabel
	}
	if in.Position < 0 {
		return Card{}, ErrInvalidPosition
	}

	return Card{
		ID:          in.ID,
		GridKey:     in.GridKey,
		Kind:        in.Kind,
		Label:       in.Label,
		Description: in.Description,
		Position:    in.Position,
		CreatedAt:   now.UTC(),
	}, nil
}
