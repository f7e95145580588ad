package app

import (
	"context"

	"github.com/evanschultz/flowgrid/internal/domain"
)

// Repository persists the card catalog behind every grid.
type Repository interface {
	CreateCard(context.Context, domain.Card) error
	UpdateCard(context.Context, domain.Card) error
	GetCard(context.Context, string) (domain.Card, error)
	ListCards(context.Context, string) ([]domain.Card, error)
	CountCards(context.Context) (int, error)
	// ConsumeCards rewrites the target card and deletes the consumed ids
	// atomically.
	ConsumeCards(context.Context, domain.Card, []string) error
	// MoveCards assigns ids to gridKey at positions 0..n-1 atomically.
	MoveCards(context.Context, string, []string) error
}
