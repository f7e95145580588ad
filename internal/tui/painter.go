package tui

import (
	"fmt"
	"image"
	"math"

	"github.com/evanschultz/flowgrid/internal/domain"
	"github.com/evanschultz/flowgrid/internal/geometry"
	"github.com/evanschultz/flowgrid/internal/grid"
	"github.com/evanschultz/flowgrid/internal/supervisor"
)

// labeler resolves the text shown for an item.
type labeler func(domain.Item) string

// toCells converts a surface rectangle to whole terminal cells.
func toCells(r geometry.Rect) image.Rectangle {
	x0 := int(math.Floor(r.Origin.X))
	y0 := int(math.Floor(r.Origin.Y))
	return image.Rect(x0, y0, x0+int(math.Round(r.Size.Width)), y0+int(math.Round(r.Size.Height)))
}

// gridPainter paints one grid viewport onto the shared surface.
type gridPainter struct {
	surface *canvas
	origin  geometry.Point
	size    geometry.Size
	margin  geometry.Insets
	label   labeler
}

// viewport returns the grid's surface rectangle.
func (p *gridPainter) viewport() image.Rectangle {
	return toCells(geometry.Rect{Origin: p.origin, Size: p.size})
}

// content returns the viewport minus margins; cells never paint outside it.
func (p *gridPainter) content() image.Rectangle {
	return toCells(geometry.Rect{
		Origin: p.origin.Add(geometry.Point{X: p.margin.Left, Y: p.margin.Top}),
		Size: geometry.Size{
			Width:  p.size.Width - p.margin.Left - p.margin.Right,
			Height: p.size.Height - p.margin.Top - p.margin.Bottom,
		},
	})
}

// framed reports whether the margin leaves room for an outline.
func (p *gridPainter) framed() bool {
	return p.margin.Left >= 1 && p.margin.Right >= 1 && p.margin.Top >= 1 && p.margin.Bottom >= 1
}

// DrawRegion clears region; a full-grid region also repaints the outline.
func (p *gridPainter) DrawRegion(total geometry.Size, region geometry.Rect) {
	if region.Origin == (geometry.Point{}) && region.Size == total {
		p.surface.fill(p.viewport(), glyph{})
		if p.framed() {
			p.surface.outline(p.viewport(), squareBorder, toneFrame, p.viewport())
		}
		return
	}
	r := toCells(geometry.Rect{Origin: p.origin.Add(region.Origin), Size: region.Size})
	p.surface.fill(r.Intersect(p.content()), glyph{})
}

// DrawCell paints one item box.
func (p *gridPainter) DrawCell(cell grid.Cell) {
	r := toCells(geometry.Rect{Origin: p.origin.Add(cell.Position), Size: cell.Size})
	label := p.label(cell.Item)
	if n := len(cell.Interacting); n > 0 {
		label = fmt.Sprintf("+%d %s", n, label)
	}
	b, t := roundedBorder, toneCard
	switch {
	case cell.States.Has(grid.StateInteract):
		b, t = doubleBorder, toneInteract
	case cell.States.Has(grid.StateSelect):
		b, t = doubleBorder, toneSelect
	case cell.States.Has(grid.StateHover):
		t = toneHover
	}
	p.surface.card(r, label, b, t, p.content())
}

// badge paints a single-glyph attachment in viewport coordinates.
func (p *gridPainter) badge(position geometry.Point, r rune, t tone) {
	at := toCells(geometry.Rect{Origin: p.origin.Add(position), Size: geometry.Size{Width: 1, Height: 1}})
	p.surface.set(at.Min.X, at.Min.Y, r, t, p.viewport())
}

// overlayPainter paints the supervisor layer: the rubber band and every
// in-flight cell.
type overlayPainter struct {
	layer *canvas
	label labeler
}

// Clear erases the overlay.
func (o *overlayPainter) Clear() {
	o.layer.clear()
}

// DrawSelection outlines the rubber band.
func (o *overlayPainter) DrawSelection(r geometry.Rect) {
	o.layer.outline(toCells(r), dashedBorder, toneBand, o.layer.bounds())
}

// DrawDragged paints one in-flight cell at its surface position.
func (o *overlayPainter) DrawDragged(cell supervisor.DraggedCell, position geometry.Point) {
	if cell.Template == nil {
		return
	}
	r := toCells(geometry.Rect{Origin: position, Size: cell.Template.Size})
	o.layer.card(r, o.label(cell.Item), roundedBorder, toneDrag, o.layer.bounds())
}
