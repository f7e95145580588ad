package geometry

import (
	"slices"
	"testing"
)

func rowLayout() Layout {
	return Layout{Rows: 1, Columns: 3, Cell: Size{Width: 10, Height: 10}}
}

func spacedLayout() Layout {
	return Layout{
		Rows:    2,
		Columns: 3,
		Margin:  Uniform(4),
		Spacing: Spacing{X: 2, Y: 2},
		Cell:    Size{Width: 10, Height: 10},
	}
}

func TestSlotAtScenario(t *testing.T) {
	slot, ok := rowLayout().SlotAt(Point{X: 15, Y: 5}, false)
	if !ok || slot != 1 {
		t.Fatalf("SlotAt() = %d, %t, want 1, true", slot, ok)
	}
	index, ok := DataIndex(slot, 3, nil)
	if !ok || index != 1 {
		t.Fatalf("DataIndex() = %d, %t, want 1, true", index, ok)
	}
}

func TestSlotAtFootprintAndOverflow(t *testing.T) {
	l := spacedLayout()
	cases := []struct {
		name     string
		point    Point
		overflow bool
		want     int
		ok       bool
	}{
		{name: "first cell", point: Point{X: 5, Y: 5}, want: 0, ok: true},
		{name: "second row", point: Point{X: 17, Y: 17}, want: 4, ok: true},
		{name: "horizontal gap", point: Point{X: 15, Y: 5}, ok: false},
		{name: "gap resolves with overflow", point: Point{X: 15, Y: 5}, overflow: true, want: 1, ok: true},
		{name: "left of margin", point: Point{X: 1, Y: 5}, ok: false},
		{name: "past last column", point: Point{X: 45, Y: 5}, ok: false},
		{name: "above margin", point: Point{X: 5, Y: -3}, ok: false},
		{name: "implicit extra row", point: Point{X: 5, Y: 29}, want: 6, ok: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := l.SlotAt(tc.point, tc.overflow)
			if ok != tc.ok {
				t.Fatalf("SlotAt() ok = %t, want %t (slot %d)", ok, tc.ok, got)
			}
			if ok && got != tc.want {
				t.Fatalf("SlotAt() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSlotOriginAndSize(t *testing.T) {
	l := spacedLayout()
	got := l.SlotOrigin(4, 3)
	if got != (Point{X: 16, Y: 13}) {
		t.Fatalf("SlotOrigin() = %+v", got)
	}
	size := l.Size()
	if size != (Size{Width: 42, Height: 30}) {
		t.Fatalf("Size() = %+v", size)
	}
}

func TestDisplacementRoundTrip(t *testing.T) {
	cases := [][]int{nil, {0}, {2}, {1, 3}, {0, 1, 5}}
	const count = 5
	for _, displacements := range cases {
		for index := 0; index < count; index++ {
			slot, ok := Slot(index, count, displacements)
			if !ok {
				t.Fatalf("Slot(%d, %v) reported no match", index, displacements)
			}
			if slices.Contains(displacements, slot) {
				t.Fatalf("Slot(%d, %v) = %d lands on a gap", index, displacements, slot)
			}
			back, ok := DataIndex(slot, count, displacements)
			if !ok || back != index {
				t.Fatalf("DataIndex(Slot(%d)) = %d, %t with gaps %v", index, back, ok, displacements)
			}
		}
		for _, gap := range displacements {
			if _, ok := DataIndex(gap, count, displacements); ok {
				t.Fatalf("gap slot %d mapped to a data index", gap)
			}
		}
	}
}

func TestDataIndexBounds(t *testing.T) {
	if _, ok := DataIndex(-1, 3, nil); ok {
		t.Fatal("expected negative slot to miss")
	}
	if _, ok := DataIndex(4, 3, []int{1}); ok {
		t.Fatal("expected slot past items+gaps to miss")
	}
	if got, ok := DataIndex(3, 3, []int{1}); !ok || got != 2 {
		t.Fatalf("DataIndex(3) = %d, %t", got, ok)
	}
	if got := InsertionSlot(3, 3, []int{1}); got != 4 {
		t.Fatalf("InsertionSlot(end) = %d", got)
	}
}

func TestOccupiedBounds(t *testing.T) {
	l := spacedLayout()
	full := l.OccupiedBounds(6)
	if full != (Rect{Origin: Point{X: 4, Y: 4}, Size: Size{Width: 34, Height: 22}}) {
		t.Fatalf("OccupiedBounds(6) = %+v", full)
	}
	partial := l.OccupiedBounds(2)
	if partial.Size != (Size{Width: 22, Height: 10}) {
		t.Fatalf("OccupiedBounds(2) = %+v", partial)
	}
}

func TestSelectionCells(t *testing.T) {
	l := spacedLayout()
	// Starts in the margin and covers the first two columns of both rows.
	r := RectFromCorners(Point{X: 27, Y: 27}, Point{X: 3, Y: 3})
	got := l.SelectionCells(r, 6)
	want := []int{0, 3, 1, 4}
	if !slices.Equal(got, want) {
		t.Fatalf("SelectionCells() = %v, want %v", got, want)
	}

	// Clamped by the item count in the last partial row.
	got = l.SelectionCells(Rect{Origin: Point{X: 2, Y: 2}, Size: Size{Width: 40, Height: 40}}, 4)
	want = []int{0, 3, 1, 2}
	if !slices.Equal(got, want) {
		t.Fatalf("SelectionCells() partial = %v, want %v", got, want)
	}

	// A band starting in the gap after the first column skips it.
	got = l.SelectionCells(Rect{Origin: Point{X: 15, Y: 2}, Size: Size{Width: 10, Height: 5}}, 6)
	if !slices.Equal(got, []int{1}) {
		t.Fatalf("SelectionCells() gap start = %v", got)
	}
}

func TestRectFromCornersAndClamp(t *testing.T) {
	r := RectFromCorners(Point{X: 10, Y: 2}, Point{X: 4, Y: 8})
	if r != (Rect{Origin: Point{X: 4, Y: 2}, Size: Size{Width: 6, Height: 6}}) {
		t.Fatalf("RectFromCorners() = %+v", r)
	}
	if got := r.Clamp(Point{X: 20, Y: -1}); got != (Point{X: 10, Y: 2}) {
		t.Fatalf("Clamp() = %+v", got)
	}
	if !r.Contains(Point{X: 4, Y: 2}) || r.Contains(Point{X: 10, Y: 2}) {
		t.Fatal("Contains() should be half-open")
	}
}
