package supervisor

import (
	"slices"
	"testing"

	"github.com/evanschultz/flowgrid/internal/domain"
	"github.com/evanschultz/flowgrid/internal/geometry"
)

// fakeSource records supervisor callbacks.
type fakeSource struct {
	bounds      geometry.Rect
	returned    [][]domain.Item
	transferred [][]domain.Item
}

// ReceiveReturnedCells records returned items.
func (f *fakeSource) ReceiveReturnedCells(items []domain.Item) {
	f.returned = append(f.returned, items)
}

// CellsTransferred records transferred items.
func (f *fakeSource) CellsTransferred(items []domain.Item) {
	f.transferred = append(f.transferred, items)
}

// Bounds returns the configured bounds.
func (f *fakeSource) Bounds() geometry.Rect {
	return f.bounds
}

// fakeOverlay records draw calls.
type fakeOverlay struct {
	clears     int
	selections []geometry.Rect
	dragged    []geometry.Point
}

// Clear records a clear.
func (f *fakeOverlay) Clear() {
	f.clears++
	f.selections = nil
	f.dragged = nil
}

// DrawSelection records a rubber band.
func (f *fakeOverlay) DrawSelection(r geometry.Rect) {
	f.selections = append(f.selections, r)
}

// DrawDragged records a dragged cell position.
func (f *fakeOverlay) DrawDragged(_ DraggedCell, position geometry.Point) {
	f.dragged = append(f.dragged, position)
}

func mustTemplate(t *testing.T, name string) *domain.Template {
	t.Helper()
	tpl, err := domain.NewTemplate(name, geometry.Size{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("NewTemplate() error = %v", err)
	}
	return tpl
}

func TestClaimNotifiesOriginalSource(t *testing.T) {
	tpl := mustTemplate(t, "card")
	a, b := &fakeSource{}, &fakeSource{}
	s := New()
	s.PickUp(a, tpl, []Cell{{Item: 1, Index: 0}, {Item: 2, Index: 3}}, geometry.Point{}, nil)

	if !s.IsDragging() || s.NumberOfDraggedCells() != 2 {
		t.Fatalf("expected two dragged cells, got %d", s.NumberOfDraggedCells())
	}
	claimed := s.ClaimDraggedCells(b, s.DraggedCells())
	if len(claimed) != 2 {
		t.Fatalf("ClaimDraggedCells() = %d cells, want 2", len(claimed))
	}
	if len(a.transferred) != 1 || !slices.Equal(a.transferred[0], []domain.Item{1, 2}) {
		t.Fatalf("transferred = %v", a.transferred)
	}
	if s.IsDragging() {
		t.Fatal("expected drag to end once payload is empty")
	}
	if again := s.ClaimDraggedCells(b, claimed); len(again) != 0 {
		t.Fatalf("second claim = %v, want none", again)
	}
}

func TestClaimBySourceDoesNotNotify(t *testing.T) {
	tpl := mustTemplate(t, "card")
	a := &fakeSource{}
	s := New()
	s.PickUp(a, tpl, []Cell{{Item: 1}}, geometry.Point{}, nil)
	s.ClaimDraggedCells(a, s.DraggedCells())
	if len(a.transferred) != 0 {
		t.Fatalf("transferred = %v, want none", a.transferred)
	}
}

func TestPointerReleasedReturnsGroupedPerSource(t *testing.T) {
	tpl := mustTemplate(t, "card")
	a, b := &fakeSource{}, &fakeSource{}
	s := New()
	s.PickUp(a, tpl, []Cell{{Item: 1}, {Item: 2}}, geometry.Point{}, nil)
	s.PickUp(b, tpl, []Cell{{Item: 3}}, geometry.Point{}, nil)
	s.PointerReleased()

	if len(a.returned) != 1 || !slices.Equal(a.returned[0], []domain.Item{1, 2}) {
		t.Fatalf("a returned = %v", a.returned)
	}
	if len(b.returned) != 1 || !slices.Equal(b.returned[0], []domain.Item{3}) {
		t.Fatalf("b returned = %v", b.returned)
	}
	if s.IsDragging() {
		t.Fatal("expected empty payload after release")
	}
}

func TestHomogeneity(t *testing.T) {
	card, tag := mustTemplate(t, "card"), mustTemplate(t, "tag")
	src := &fakeSource{}
	s := New()
	s.PickUp(src, card, []Cell{{Item: 1}, {Item: 2}}, geometry.Point{}, nil)
	if !s.DraggedCellsAreHomogeneous(nil) || !s.DraggedCellsAreHomogeneous(card) {
		t.Fatal("expected card payload to be homogeneous")
	}
	if s.DraggedCellsAreHomogeneous(tag) {
		t.Fatal("expected tag comparison to fail")
	}
	s.PickUp(src, tag, []Cell{{Item: 3}}, geometry.Point{}, nil)
	if s.DraggedCellsAreHomogeneous(nil) {
		t.Fatal("expected mixed payload to be heterogeneous")
	}
}

func TestCentreOfFocusConfined(t *testing.T) {
	tpl := mustTemplate(t, "card")
	src := &fakeSource{bounds: geometry.Rect{Origin: geometry.Point{X: 100, Y: 50}, Size: geometry.Size{Width: 60, Height: 40}}}
	s := New()
	s.PointerMoved(geometry.Point{X: 3, Y: 3})
	if got := s.CentreOfFocus(); got != (geometry.Point{X: 3, Y: 3}) {
		t.Fatalf("idle focus = %+v", got)
	}

	bounds := geometry.Rect{Origin: geometry.Point{X: 2, Y: 2}, Size: geometry.Size{Width: 30, Height: 20}}
	s.PickUp(src, tpl, []Cell{{Item: 1}}, geometry.Point{X: 4, Y: 4}, &bounds)
	s.PointerMoved(geometry.Point{X: 120, Y: 60})
	if got := s.CentreOfFocus(); got != (geometry.Point{X: 121, Y: 61}) {
		t.Fatalf("inside focus = %+v", got)
	}
	s.PointerMoved(geometry.Point{X: 0, Y: 500})
	// x clamps to 102, y clamps to 52+20-10.
	if got := s.CentreOfFocus(); got != (geometry.Point{X: 107, Y: 67}) {
		t.Fatalf("confined focus = %+v", got)
	}
}

func TestSelectionLifecycle(t *testing.T) {
	owner := &fakeSource{bounds: geometry.Rect{Size: geometry.Size{Width: 50, Height: 50}}}
	other := &fakeSource{}
	overlay := &fakeOverlay{}
	s := New(WithOverlay(overlay))

	s.PointerMoved(geometry.Point{X: 40, Y: 40})
	s.StartSelection(owner)
	s.PointerMoved(geometry.Point{X: 10.4, Y: 80})
	r, ok := s.Selection(owner)
	if !ok {
		t.Fatal("expected owner selection")
	}
	want := geometry.Rect{Origin: geometry.Point{X: 10, Y: 40}, Size: geometry.Size{Width: 30, Height: 10}}
	if r != want {
		t.Fatalf("Selection() = %+v, want %+v", r, want)
	}
	if _, ok := s.Selection(other); ok {
		t.Fatal("expected no selection for non-owner")
	}
	s.Draw()
	if len(overlay.selections) != 1 {
		t.Fatalf("overlay selections = %v", overlay.selections)
	}
	if s.EndSelection(other) {
		t.Fatal("non-owner must not end the selection")
	}
	if !s.EndSelection(owner) || s.IsSelecting() {
		t.Fatal("expected owner to end the selection")
	}
}

func TestDrawStacksDraggedCells(t *testing.T) {
	tpl := mustTemplate(t, "card")
	src := &fakeSource{}
	overlay := &fakeOverlay{}
	s := New(WithOverlay(overlay))
	s.PickUp(src, tpl, []Cell{{Item: 1}, {Item: 2}, {Item: 3}, {Item: 4}}, geometry.Point{X: 5, Y: 5}, nil)
	s.PointerMoved(geometry.Point{X: 20, Y: 20})
	s.Draw()
	want := []geometry.Point{{X: 31, Y: 31}, {X: 31, Y: 31}, {X: 23, Y: 23}, {X: 15, Y: 15}}
	if !slices.Equal(overlay.dragged, want) {
		t.Fatalf("dragged positions = %v, want %v", overlay.dragged, want)
	}
}
