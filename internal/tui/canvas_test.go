package tui

import (
	"image"
	"strings"
	"testing"

	"github.com/evanschultz/flowgrid/internal/domain"
	"github.com/evanschultz/flowgrid/internal/geometry"
	"github.com/evanschultz/flowgrid/internal/grid"
)

func TestCanvasCardDrawsOutlineAndLabel(t *testing.T) {
	c := newCanvas(8, 3)
	c.card(image.Rect(0, 0, 8, 3), "alphabet soup", roundedBorder, toneCard, c.bounds())
	want := []string{"╭──────╮", "│alpha…│", "╰──────╯"}
	for y, line := range want {
		if got := c.plainLine(y); got != line {
			t.Fatalf("line %d = %q, want %q", y, got, line)
		}
	}
}

func TestCanvasClipsWrites(t *testing.T) {
	c := newCanvas(6, 2)
	c.fill(image.Rect(-2, -2, 20, 20), glyph{r: '.', tone: toneFrame})
	c.text(4, 0, 5, "xyz", toneCard, image.Rect(0, 0, 5, 2))
	if got := c.plainLine(0); got != "....x." {
		t.Fatalf("line = %q", got)
	}
	if got := c.at(9, 9); got != (glyph{}) {
		t.Fatalf("at() outside = %+v", got)
	}
}

func TestComposeOverlayWins(t *testing.T) {
	base := newCanvas(4, 1)
	overlay := newCanvas(4, 1)
	base.text(0, 0, 4, "base", toneCard, base.bounds())
	overlay.set(1, 0, '#', toneDrag, overlay.bounds())
	lines := compose(base, overlay, palette{})
	if len(lines) != 1 || lines[0] != "b#se" {
		t.Fatalf("compose() = %q", lines)
	}
}

func TestGridPainterHighlightsSelection(t *testing.T) {
	surface := newCanvas(12, 5)
	p := &gridPainter{
		surface: surface,
		size:    geometry.Size{Width: 12, Height: 5},
		margin:  geometry.Uniform(1),
		label:   func(domain.Item) string { return "card" },
	}
	p.DrawRegion(p.size, geometry.Rect{Size: p.size})
	p.DrawCell(grid.Cell{
		Item:     1,
		Position: geometry.Point{X: 1, Y: 1},
		Size:     geometry.Size{Width: 10, Height: 3},
		States:   grid.StateSelect,
	})
	if got := surface.plainLine(0); got != "┌──────────┐" {
		t.Fatalf("frame = %q", got)
	}
	if got := surface.plainLine(1); got != "│╔════════╗│" {
		t.Fatalf("selected top = %q", got)
	}
	if got := surface.plainLine(2); !strings.Contains(got, "card") {
		t.Fatalf("label row = %q", got)
	}
	if got := surface.at(5, 2).tone; got != toneSelect {
		t.Fatalf("tone = %v, want select", got)
	}
}
