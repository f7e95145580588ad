package geometry

import (
	"math"
	"slices"
)

// Layout describes the cell arrangement of one grid.
type Layout struct {
	Rows    int
	Columns int
	Margin  Insets
	Spacing Spacing
	Cell    Size
}

// Valid reports whether the layout can map positions at all.
func (l Layout) Valid() bool {
	return l.Rows > 0 && l.Columns > 0 && l.Cell.Width > 0 && l.Cell.Height > 0 &&
		l.Spacing.X >= 0 && l.Spacing.Y >= 0
}

// pitch returns the distance between the origins of adjacent cells.
func (l Layout) pitch() (float64, float64) {
	return l.Cell.Width + l.Spacing.X, l.Cell.Height + l.Spacing.Y
}

// Size returns the visible widget size for the configured rows and columns.
func (l Layout) Size() Size {
	return Size{
		Width:  l.span(l.Columns, l.Cell.Width, l.Spacing.X) + l.Margin.Left + l.Margin.Right,
		Height: l.span(l.Rows, l.Cell.Height, l.Spacing.Y) + l.Margin.Top + l.Margin.Bottom,
	}
}

// span returns the extent of n cells with n-1 gaps between them.
func (l Layout) span(n int, cell, gap float64) float64 {
	return float64(n)*cell + float64(n-1)*gap
}

// ContentHeight returns the full scrollable height needed for n display slots.
func (l Layout) ContentHeight(slots int) float64 {
	rows := int(math.Ceil(float64(slots) / float64(l.Columns)))
	return l.span(rows, l.Cell.Height, l.Spacing.Y) + l.Margin.Top + l.Margin.Bottom
}

// FractionalCell converts p into fractional cell coordinates. Overflow mode
// shifts the point by half the spacing so a gap resolves to its nearest cell.
func (l Layout) FractionalCell(p Point, overflow bool) (float64, float64) {
	pitchX, pitchY := l.pitch()
	var biasX, biasY float64
	if overflow {
		biasX, biasY = l.Spacing.X/2, l.Spacing.Y/2
	}
	return (p.X - l.Margin.Left + biasX) / pitchX, (p.Y - l.Margin.Top + biasY) / pitchY
}

// SlotAt resolves p to a display slot. Without overflow the point must lie on
// a cell's visual footprint; with overflow any point whose integer cell
// coordinates are in bounds resolves. Rows are not bounded so content may
// extend into implicit extra rows.
func (l Layout) SlotAt(p Point, overflow bool) (int, bool) {
	if !l.Valid() {
		return -1, false
	}
	cx, cy := l.FractionalCell(p, overflow)
	if cx < 0 || cy < 0 || cx >= float64(l.Columns) {
		return -1, false
	}
	if !overflow {
		pitchX, pitchY := l.pitch()
		if frac(cx) >= l.Cell.Width/pitchX || frac(cy) >= l.Cell.Height/pitchY {
			return -1, false
		}
	}
	return int(math.Floor(cy))*l.Columns + int(math.Floor(cx)), true
}

// SlotOrigin returns the top-left corner of slot in view coordinates.
func (l Layout) SlotOrigin(slot int, scroll float64) Point {
	pitchX, pitchY := l.pitch()
	return Point{
		X: l.Margin.Left + float64(slot%l.Columns)*pitchX,
		Y: l.Margin.Top + float64(slot/l.Columns)*pitchY - scroll,
	}
}

// OccupiedBounds returns the rectangle covered by count items, shrunk below
// the full rows×columns extent when fewer items exist than capacity.
func (l Layout) OccupiedBounds(count int) Rect {
	size := l.Size()
	bounds := Rect{
		Origin: Point{X: l.Margin.Left, Y: l.Margin.Top},
		Size: Size{
			Width:  size.Width - (l.Margin.Left + l.Margin.Right),
			Height: size.Height - (l.Margin.Top + l.Margin.Bottom),
		},
	}
	if count < l.Columns {
		bounds.Size.Width = l.span(count, l.Cell.Width, l.Spacing.X)
	}
	if rows := int(math.Ceil(float64(count) / float64(l.Columns))); rows < l.Rows {
		bounds.Size.Height = l.span(rows, l.Cell.Height, l.Spacing.Y)
	}
	return bounds
}

// SelectionCells enumerates the data indices covered by a rubber-band
// rectangle given in grid content coordinates. The left/top edge rounds up to
// the next whole cell only when it falls inside an inter-cell gap, since a
// rubber band always starts between cells. The right/bottom edge is clamped
// by capacity and the actual item count.
func (l Layout) SelectionCells(r Rect, count int) []int {
	if !l.Valid() || count <= 0 {
		return nil
	}
	pitchX, pitchY := l.pitch()
	left := math.Max(0, (r.Origin.X-l.Margin.Left)/pitchX)
	top := math.Max(0, (r.Origin.Y-l.Margin.Top)/pitchY)
	right := (r.Origin.X + r.Size.Width - 1 - l.Margin.Left) / pitchX
	bottom := (r.Origin.Y + r.Size.Height - 1 - l.Margin.Top) / pitchY

	startX := int(math.Floor(left))
	if frac(left) >= l.Cell.Width/pitchX {
		startX++
	}
	startY := int(math.Floor(top))
	if frac(top) >= l.Cell.Height/pitchY {
		startY++
	}
	endX := min(count, l.Columns, int(math.Ceil(right)))
	endY := min(int(math.Ceil(float64(count)/float64(l.Columns))), int(math.Ceil(bottom)))

	var out []int
	for x := startX; x < endX; x++ {
		for y := startY; y < endY; y++ {
			index := y*l.Columns + x
			if index < count {
				out = append(out, index)
			}
		}
	}
	return out
}

// DataIndex maps a display slot to a data index. Slots that address a
// displacement gap or lie outside [0, count+len(displacements)) do not match.
func DataIndex(slot, count int, displacements []int) (int, bool) {
	if slot < 0 || slot >= count+len(displacements) || slices.Contains(displacements, slot) {
		return -1, false
	}
	before := 0
	for _, d := range displacements {
		if d <= slot {
			before++
		}
	}
	return slot - before, true
}

// Slot maps a data index to its display slot, shifting it past every gap that
// precedes it.
func Slot(index, count int, displacements []int) (int, bool) {
	if index < 0 || index >= count {
		return -1, false
	}
	sorted := slices.Clone(displacements)
	slices.Sort(sorted)
	slot := index
	for _, d := range sorted {
		if d > slot {
			break
		}
		slot++
	}
	return slot, true
}

// InsertionSlot maps an insertion data index (0..count) to a display slot;
// unlike Slot it accepts count itself.
func InsertionSlot(index, count int, displacements []int) int {
	if index >= count {
		return count + len(displacements)
	}
	slot, ok := Slot(max(0, index), count, displacements)
	if !ok {
		return count + len(displacements)
	}
	return slot
}
