package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/evanschultz/flowgrid/internal/domain"
)

func TestExportSnapshotListsGridsInOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	for _, in := range []CreateCardInput{
		{GridKey: "todo", Kind: "task", Label: "one"},
		{GridKey: "todo", Kind: "task", Label: "two"},
		{GridKey: "tags", Kind: "tag", Label: "urgent"},
		{GridKey: "ignored", Kind: "task", Label: "hidden"},
	} {
		if _, err := svc.CreateCard(ctx, in); err != nil {
			t.Fatalf("CreateCard() error = %v", err)
		}
	}

	snap, err := svc.ExportSnapshot(ctx, []string{"todo", "tags", "TODO"})
	if err != nil {
		t.Fatalf("ExportSnapshot() error = %v", err)
	}
	if snap.Version != SnapshotVersion {
		t.Fatalf("unexpected version %q", snap.Version)
	}
	if len(snap.Cards) != 3 {
		t.Fatalf("expected 3 cards, got %#v", snap.Cards)
	}
	if snap.Cards[0].GridKey != "tags" || snap.Cards[1].Label != "one" || snap.Cards[2].Label != "two" {
		t.Fatalf("unexpected card order %#v", snap.Cards)
	}
	if _, err := svc.ExportSnapshot(ctx, []string{" "}); err == nil {
		t.Fatal("expected blank grid key to fail")
	}
}

func TestImportSnapshotUpsertsAndReorders(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	existing, _ := svc.CreateCard(ctx, CreateCardInput{GridKey: "todo", Kind: "task", Label: "local"})

	snap := Snapshot{
		Version: SnapshotVersion,
		Cards: []SnapshotCard{
			{ID: "b", GridKey: "todo", Kind: "task", Label: "second", Position: 1},
			{ID: "a", GridKey: "todo", Kind: "task", Label: "first", Position: 0},
			{ID: existing.ID, GridKey: "done", Kind: "task", Label: "renamed", Position: 0},
		},
	}
	if err := svc.ImportSnapshot(ctx, snap); err != nil {
		t.Fatalf("ImportSnapshot() error = %v", err)
	}
	todo, _ := svc.ListGridCards(ctx, "todo")
	if len(todo) != 2 || todo[0].ID != "a" || todo[1].ID != "b" {
		t.Fatalf("unexpected todo cards %#v", todo)
	}
	done, _ := svc.ListGridCards(ctx, "done")
	if len(done) != 1 || done[0].Label != "renamed" || done[0].Position != 0 {
		t.Fatalf("unexpected done cards %#v", done)
	}
	if done[0].CreatedAt.IsZero() {
		t.Fatal("expected zero creation time to fall back to the clock")
	}
}

func TestSnapshotValidate(t *testing.T) {
	valid := SnapshotCard{ID: "a", GridKey: "todo", Kind: "task", Label: "x"}
	cases := []struct {
		name string
		snap Snapshot
		want string
	}{
		{name: "version", snap: Snapshot{Version: "legacy.snapshot.v0"}, want: "unsupported snapshot version"},
		{name: "missing id", snap: Snapshot{Version: SnapshotVersion, Cards: []SnapshotCard{{GridKey: "todo", Label: "x"}}}, want: "id is required"},
		{name: "duplicate id", snap: Snapshot{Version: SnapshotVersion, Cards: []SnapshotCard{valid, valid}}, want: "duplicate card id"},
		{name: "missing grid", snap: Snapshot{Version: SnapshotVersion, Cards: []SnapshotCard{{ID: "a", Label: "x"}}}, want: "grid_key is required"},
		{name: "missing label", snap: Snapshot{Version: SnapshotVersion, Cards: []SnapshotCard{{ID: "a", GridKey: "todo"}}}, want: "label is required"},
		{name: "negative position", snap: Snapshot{Version: SnapshotVersion, Cards: []SnapshotCard{{ID: "a", GridKey: "todo", Label: "x", Position: -1}}}, want: "position must be >= 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.snap.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Validate() = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestSnapshotCardToDomainKeepsCreationTime(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	card, err := SnapshotCard{ID: "a", GridKey: "Todo", Kind: "task", Label: "x", CreatedAt: created}.toDomain(time.Now())
	if err != nil {
		t.Fatalf("toDomain() error = %v", err)
	}
	if !card.CreatedAt.Equal(created) || card.GridKey != "todo" {
		t.Fatalf("unexpected card %#v", card)
	}
	if _, err := (SnapshotCard{ID: "a", GridKey: "todo", Label: "x"}).toDomain(created); err != domain.ErrInvalidName {
		t.Fatalf("expected ErrInvalidName for missing kind, got %v", err)
	}
}
