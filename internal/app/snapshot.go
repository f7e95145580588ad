package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/evanschultz/flowgrid/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "flowgrid.snapshot.v1"

// Snapshot is a portable copy of the card catalog.
type Snapshot struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Cards      []SnapshotCard `json:"cards"`
}

// SnapshotCard represents one card in a snapshot.
type SnapshotCard struct {
	ID          string    `json:"id"`
	GridKey     string    `json:"grid_key"`
	Kind        string    `json:"kind"`
	Label       string    `json:"label"`
	Description string    `json:"description,omitempty"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExportSnapshot exports the cards of every listed grid.
func (s *Service) ExportSnapshot(ctx context.Context, gridKeys []string) (Snapshot, error) {
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.clock().UTC(),
		Cards:      []SnapshotCard{},
	}
	seen := map[string]struct{}{}
	for _, raw := range gridKeys {
		key, err := normalizeGridKey(raw)
		if err != nil {
			return Snapshot{}, err
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		cards, err := s.repo.ListCards(ctx, key)
		if err != nil {
			return Snapshot{}, fmt.Errorf("list grid %q: %w", key, err)
		}
		for _, card := range cards {
			snap.Cards = append(snap.Cards, snapshotCardFromDomain(card))
		}
	}
	snap.sort()
	return snap, nil
}

// ImportSnapshot upserts every snapshot card, then rewrites each touched
// grid's order so positions stay dense.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	snap.sort()

	order := map[string][]string{}
	var keys []string
	for _, sc := range snap.Cards {
		card, err := sc.toDomain(s.clock())
		if err != nil {
			return fmt.Errorf("card %q: %w", sc.ID, err)
		}
		if _, err := s.repo.GetCard(ctx, card.ID); err == nil {
			if err := s.repo.UpdateCard(ctx, card); err != nil {
				return err
			}
		} else if !errors.Is(err, ErrNotFound) {
			return err
		} else if err := s.repo.CreateCard(ctx, card); err != nil {
			return err
		}
		if _, ok := order[card.GridKey]; !ok {
			keys = append(keys, card.GridKey)
		}
		order[card.GridKey] = append(order[card.GridKey], card.ID)
	}

	for _, key := range keys {
		existing, err := s.repo.ListCards(ctx, key)
		if err != nil {
			return err
		}
		ids := order[key]
		imported := map[string]struct{}{}
		for _, id := range ids {
			imported[id] = struct{}{}
		}
		for _, card := range existing {
			if _, ok := imported[card.ID]; !ok {
				ids = append(ids, card.ID)
			}
		}
		if err := s.repo.MoveCards(ctx, key, ids); err != nil {
			return fmt.Errorf("order grid %q: %w", key, err)
		}
	}
	return nil
}

// Validate checks version, required fields, and id uniqueness.
func (s *Snapshot) Validate() error {
	if strings.TrimSpace(s.Version) != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %q", s.Version)
	}
	ids := map[string]struct{}{}
	for i, card := range s.Cards {
		id := strings.TrimSpace(card.ID)
		if id == "" {
			return fmt.Errorf("cards[%d].id is required", i)
		}
		if _, ok := ids[id]; ok {
			return fmt.Errorf("duplicate card id %q", id)
		}
		ids[id] = struct{}{}
		if strings.TrimSpace(card.GridKey) == "" {
			return fmt.Errorf("cards[%d].grid_key is required", i)
		}
		if strings.TrimSpace(card.Label) == "" {
			return fmt.Errorf("cards[%d].label is required", i)
		}
		if card.Position < 0 {
			return fmt.Errorf("cards[%d].position must be >= 0", i)
		}
	}
	return nil
}

// sort orders cards by grid, then position, then id.
func (s *Snapshot) sort() {
	sort.SliceStable(s.Cards, func(i, j int) bool {
		a, b := s.Cards[i], s.Cards[j]
		if a.GridKey != b.GridKey {
			return a.GridKey < b.GridKey
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.ID < b.ID
	})
}

// snapshotCardFromDomain converts a card to its snapshot form.
func snapshotCardFromDomain(c domain.Card) SnapshotCard {
	return SnapshotCard{
		ID:          c.ID,
		GridKey:     c.GridKey,
		Kind:        c.Kind,
		Label:       c.Label,
		Description: c.Description,
		Position:    c.Position,
		CreatedAt:   c.CreatedAt,
	}
}

// toDomain validates and converts a snapshot card; a zero creation time
// falls back to now.
func (c SnapshotCard) toDomain(now time.Time) (domain.Card, error) {
	created := c.CreatedAt
	if created.IsZero() {
		created = now
	}
	return domain.NewCard(domain.CardInput{
		ID:          c.ID,
		GridKey:     c.GridKey,
		Kind:        c.Kind,
		Label:       c.Label,
		Description: c.Description,
		Position:    c.Position,
	}, created)
}
