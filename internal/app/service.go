package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/evanschultz/flowgrid/internal/domain"
)

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Service coordinates card catalog operations.
type Service struct {
	repo  Repository
	idGen IDGenerator
	clock Clock
}

// NewService constructs a new value for this package.
func NewService(repo Repository, idGen IDGenerator, clock Clock) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, idGen: idGen, clock: clock}
}

// CreateCardInput holds input values for create card operations.
type CreateCardInput struct {
	GridKey     string
	Kind        string
	Label       string
	Description string
}

// CreateCard appends a new card to the end of a grid.
func (s *Service) CreateCard(ctx context.Context, in CreateCardInput) (domain.Card, error) {
	gridKey, err := normalizeGridKey(in.GridKey)
	if err != nil {
		return domain.Card{}, err
	}
	existing, err := s.repo.ListCards(ctx, gridKey)
	if err != nil {
		return domain.Card{}, err
	}
	card, err := domain.NewCard(domain.CardInput{
		ID:          s.idGen(),
		GridKey:     gridKey,
		Kind:        in.Kind,
		Label:       in.Label,
		Description: in.Description,
		Position:    len(existing),
	}, s.clock())
	if err != nil {
		return domain.Card{}, err
	}
	if err := s.repo.CreateCard(ctx, card); err != nil {
		return domain.Card{}, err
	}
	return card, nil
}

// GetCard returns one card.
func (s *Service) GetCard(ctx context.Context, id string) (domain.Card, error) {
	return s.repo.GetCard(ctx, strings.TrimSpace(id))
}

// ListGridCards lists a grid's cards in display order.
func (s *Service) ListGridCards(ctx context.Context, gridKey string) ([]domain.Card, error) {
	gridKey, err := normalizeGridKey(gridKey)
	if err != nil {
		return nil, err
	}
	return s.repo.ListCards(ctx, gridKey)
}

// SaveGridOrder persists the full order of one grid, moving cards that came
// from other grids.
func (s *Service) SaveGridOrder(ctx context.Context, gridKey string, ids []string) error {
	gridKey, err := normalizeGridKey(gridKey)
	if err != nil {
		return err
	}
	if err := s.repo.MoveCards(ctx, gridKey, ids); err != nil {
		return fmt.Errorf("save order for grid %q: %w", gridKey, err)
	}
	return nil
}

// ConsumeCards folds consumed cards into target: their labels are appended
// to the target description as a list and the consumed cards are removed.
func (s *Service) ConsumeCards(ctx context.Context, targetID string, consumedIDs []string) (domain.Card, error) {
	target, err := s.repo.GetCard(ctx, strings.TrimSpace(targetID))
	if err != nil {
		return domain.Card{}, err
	}
	var lines []string
	for _, id := range consumedIDs {
		card, err := s.repo.GetCard(ctx, id)
		if err != nil {
			return domain.Card{}, err
		}
		lines = append(lines, "- "+card.Kind+": "+card.Label)
	}
	if len(lines) == 0 {
		return target, nil
	}
	target.Description = strings.TrimSpace(target.Description + "\n\n" + strings.Join(lines, "\n"))
	if err := s.repo.ConsumeCards(ctx, target, consumedIDs); err != nil {
		return domain.Card{}, err
	}
	return target, nil
}

// SeedGrid describes demo content for one grid.
type SeedGrid struct {
	Key   string
	Kind  string
	Count int
}

// demoLabels stores labels cycled through by SeedDemo.
var demoLabels = []string{
	"Parse config", "Render board", "Wire storage", "Fix hover", "Write tests",
	"Release notes", "Profile redraw", "Review filters", "Refine palette", "Plan sprint",
	"Triage issues", "Update docs",
}

// SeedDemo fills an empty catalog with demo cards and reports how many were
// created. A catalog that already holds cards is left untouched.
func (s *Service) SeedDemo(ctx context.Context, grids []SeedGrid) (int, error) {
	count, err := s.repo.CountCards(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	created := 0
	for _, g := range grids {
		for i := 0; i < g.Count; i++ {
			label := demoLabels[created%len(demoLabels)]
			_, err := s.CreateCard(ctx, CreateCardInput{
				GridKey:     g.Key,
				Kind:        g.Kind,
				Label:       label,
				Description: fmt.Sprintf("## %s\n\nDemo %s card #%d.", label, g.Kind, i+1),
			})
			if err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

// normalizeGridKey trims and lowercases a grid key.
func normalizeGridKey(raw string) (string, error) {
	key := strings.TrimSpace(strings.ToLower(raw))
	if key == "" {
		return "", ErrInvalidGridKey
	}
	return key, nil
}
