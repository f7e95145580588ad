package app

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/evanschultz/flowgrid/internal/domain"
)

type fakeRepo struct {
	cards map[string]domain.Card
	err   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{cards: map[string]domain.Card{}}
}

func (f *fakeRepo) CreateCard(_ context.Context, c domain.Card) error {
	if f.err != nil {
		return f.err
	}
	f.cards[c.ID] = c
	return nil
}

func (f *fakeRepo) UpdateCard(_ context.Context, c domain.Card) error {
	if _, ok := f.cards[c.ID]; !ok {
		return ErrNotFound
	}
	f.cards[c.ID] = c
	return nil
}

func (f *fakeRepo) GetCard(_ context.Context, id string) (domain.Card, error) {
	c, ok := f.cards[id]
	if !ok {
		return domain.Card{}, ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) ListCards(_ context.Context, gridKey string) ([]domain.Card, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Card, 0, len(f.cards))
	for _, c := range f.cards {
		if c.GridKey == gridKey {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b domain.Card) int { return a.Position - b.Position })
	return out, nil
}

func (f *fakeRepo) CountCards(context.Context) (int, error) {
	return len(f.cards), f.err
}

func (f *fakeRepo) ConsumeCards(_ context.Context, target domain.Card, ids []string) error {
	if _, ok := f.cards[target.ID]; !ok {
		return ErrNotFound
	}
	for _, id := range ids {
		if _, ok := f.cards[id]; !ok {
			return ErrNotFound
		}
	}
	f.cards[target.ID] = target
	for _, id := range ids {
		delete(f.cards, id)
	}
	return nil
}

func (f *fakeRepo) MoveCards(_ context.Context, gridKey string, ids []string) error {
	for i, id := range ids {
		c, ok := f.cards[id]
		if !ok {
			return ErrNotFound
		}
		c.GridKey = gridKey
		c.Position = i
		f.cards[id] = c
	}
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	next := 0
	idGen := func() string {
		next++
		return "c" + strconv.Itoa(next)
	}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return NewService(repo, idGen, func() time.Time { return now })
}

func TestCreateCardAppendsToGrid(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.CreateCard(ctx, CreateCardInput{GridKey: " Backlog ", Kind: "task", Label: "one"})
	if err != nil {
		t.Fatalf("CreateCard() error = %v", err)
	}
	second, err := svc.CreateCard(ctx, CreateCardInput{GridKey: "backlog", Kind: "task", Label: "two"})
	if err != nil {
		t.Fatalf("CreateCard() error = %v", err)
	}
	if first.GridKey != "backlog" || first.Position != 0 || second.Position != 1 {
		t.Fatalf("unexpected cards %#v %#v", first, second)
	}
	if _, err := svc.CreateCard(ctx, CreateCardInput{GridKey: "  ", Kind: "task", Label: "x"}); !errors.Is(err, ErrInvalidGridKey) {
		t.Fatalf("expected ErrInvalidGridKey, got %v", err)
	}
	if _, err := svc.CreateCard(ctx, CreateCardInput{GridKey: "backlog", Kind: "task"}); !errors.Is(err, domain.ErrInvalidLabel) {
		t.Fatalf("expected ErrInvalidLabel, got %v", err)
	}
}

func TestSaveGridOrderMovesCards(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	a, _ := svc.CreateCard(ctx, CreateCardInput{GridKey: "left", Kind: "task", Label: "a"})
	b, _ := svc.CreateCard(ctx, CreateCardInput{GridKey: "right", Kind: "task", Label: "b"})

	if err := svc.SaveGridOrder(ctx, "right", []string{a.ID, b.ID}); err != nil {
		t.Fatalf("SaveGridOrder() error = %v", err)
	}
	cards, err := svc.ListGridCards(ctx, "right")
	if err != nil {
		t.Fatalf("ListGridCards() error = %v", err)
	}
	if len(cards) != 2 || cards[0].ID != a.ID || cards[1].ID != b.ID {
		t.Fatalf("unexpected order %#v", cards)
	}
	if err := svc.SaveGridOrder(ctx, "right", []string{"missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConsumeCardsFoldsLabels(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	target, _ := svc.CreateCard(ctx, CreateCardInput{GridKey: "tasks", Kind: "task", Label: "ship", Description: "Ship it."})
	tag, _ := svc.CreateCard(ctx, CreateCardInput{GridKey: "tags", Kind: "tag", Label: "urgent"})

	updated, err := svc.ConsumeCards(ctx, target.ID, []string{tag.ID})
	if err != nil {
		t.Fatalf("ConsumeCards() error = %v", err)
	}
	if !strings.Contains(updated.Description, "- tag: urgent") {
		t.Fatalf("unexpected description %q", updated.Description)
	}
	if _, err := svc.GetCard(ctx, tag.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected consumed card to be deleted, got %v", err)
	}
}

func TestConsumeCardsMissingLeavesCatalogUntouched(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	target, _ := svc.CreateCard(ctx, CreateCardInput{GridKey: "tasks", Kind: "task", Label: "ship", Description: "Ship it."})
	tag, _ := svc.CreateCard(ctx, CreateCardInput{GridKey: "tags", Kind: "tag", Label: "urgent"})

	if _, err := svc.ConsumeCards(ctx, target.ID, []string{tag.ID, "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ConsumeCards() error = %v, want ErrNotFound", err)
	}
	if got, _ := svc.GetCard(ctx, target.ID); got.Description != "Ship it." {
		t.Fatalf("target description = %q", got.Description)
	}
	if _, err := svc.GetCard(ctx, tag.ID); err != nil {
		t.Fatalf("expected consumed card to survive, got %v", err)
	}
}

func TestSeedDemoOnlySeedsEmptyCatalog(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	grids := []SeedGrid{{Key: "todo", Kind: "task", Count: 3}, {Key: "tags", Kind: "tag", Count: 2}}

	created, err := svc.SeedDemo(ctx, grids)
	if err != nil {
		t.Fatalf("SeedDemo() error = %v", err)
	}
	if created != 5 {
		t.Fatalf("expected 5 seeded cards, got %d", created)
	}
	todo, _ := svc.ListGridCards(ctx, "todo")
	if len(todo) != 3 || todo[2].Position != 2 {
		t.Fatalf("unexpected seeded grid %#v", todo)
	}
	again, err := svc.SeedDemo(ctx, grids)
	if err != nil || again != 0 {
		t.Fatalf("second SeedDemo() = %d, %v", again, err)
	}
}
