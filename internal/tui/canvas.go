package tui

import (
	"image"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// tone selects the palette style of one glyph.
type tone uint8

// Glyph tones.
const (
	toneBlank tone = iota
	toneFrame
	toneCard
	toneHover
	toneSelect
	toneInteract
	toneDrag
	toneBand
)

// glyph is one painted terminal cell. A zero rune is unpainted.
type glyph struct {
	r    rune
	tone tone
}

// border holds the runes used to outline a rectangle.
type border struct {
	topLeft, topRight, bottomLeft, bottomRight rune
	horizontal, vertical                       rune
}

// Outline styles.
var (
	roundedBorder = border{'╭', '╮', '╰', '╯', '─', '│'}
	squareBorder  = border{'┌', '┐', '└', '┘', '─', '│'}
	doubleBorder  = border{'╔', '╗', '╚', '╝', '═', '║'}
	dashedBorder  = border{'┌', '┐', '└', '┘', '┄', '┆'}
)

// canvas is a retained glyph buffer that painters write into between frames.
type canvas struct {
	width  int
	height int
	cells  []glyph
}

// newCanvas constructs a blank canvas.
func newCanvas(width, height int) *canvas {
	c := &canvas{}
	c.resize(width, height)
	return c
}

// resize reallocates the buffer, discarding its contents.
func (c *canvas) resize(width, height int) {
	c.width, c.height = max(0, width), max(0, height)
	c.cells = make([]glyph, c.width*c.height)
}

// bounds returns the drawable rectangle.
func (c *canvas) bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// clear erases every glyph.
func (c *canvas) clear() {
	clear(c.cells)
}

// at returns the glyph at (x, y), or an unpainted glyph outside the canvas.
func (c *canvas) at(x, y int) glyph {
	if !image.Pt(x, y).In(c.bounds()) {
		return glyph{}
	}
	return c.cells[y*c.width+x]
}

// set paints one glyph when (x, y) lies inside clip and the canvas.
func (c *canvas) set(x, y int, r rune, t tone, clip image.Rectangle) {
	if !image.Pt(x, y).In(clip.Intersect(c.bounds())) {
		return
	}
	c.cells[y*c.width+x] = glyph{r: r, tone: t}
}

// fill paints every cell of r with g.
func (c *canvas) fill(r image.Rectangle, g glyph) {
	r = r.Intersect(c.bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := c.cells[y*c.width : (y+1)*c.width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = g
		}
	}
}

// text writes s from (x, y), truncated to width cells.
func (c *canvas) text(x, y, width int, s string, t tone, clip image.Rectangle) {
	if width <= 0 {
		return
	}
	for _, r := range ansi.Truncate(s, width, "…") {
		c.set(x, y, r, t, clip)
		x++
	}
}

// outline draws the edge of r. Rectangles smaller than 2x2 are skipped.
func (c *canvas) outline(r image.Rectangle, b border, t tone, clip image.Rectangle) {
	if r.Dx() < 2 || r.Dy() < 2 {
		return
	}
	right, bottom := r.Max.X-1, r.Max.Y-1
	for x := r.Min.X + 1; x < right; x++ {
		c.set(x, r.Min.Y, b.horizontal, t, clip)
		c.set(x, bottom, b.horizontal, t, clip)
	}
	for y := r.Min.Y + 1; y < bottom; y++ {
		c.set(r.Min.X, y, b.vertical, t, clip)
		c.set(right, y, b.vertical, t, clip)
	}
	c.set(r.Min.X, r.Min.Y, b.topLeft, t, clip)
	c.set(right, r.Min.Y, b.topRight, t, clip)
	c.set(r.Min.X, bottom, b.bottomLeft, t, clip)
	c.set(right, bottom, b.bottomRight, t, clip)
}

// card paints an opaque item box with a centred label row. Boxes shorter than
// three rows get the label only.
func (c *canvas) card(r image.Rectangle, label string, b border, t tone, clip image.Rectangle) {
	c.fill(r.Intersect(clip), glyph{r: ' ', tone: t})
	if r.Dx() >= 3 && r.Dy() >= 3 {
		c.outline(r, b, t, clip)
		c.text(r.Min.X+1, r.Min.Y+r.Dy()/2, r.Dx()-2, label, t, clip)
		return
	}
	c.text(r.Min.X, r.Min.Y, r.Dx(), label, t, clip)
}

// plainLine returns row y without styling.
func (c *canvas) plainLine(y int) string {
	var b strings.Builder
	for x := 0; x < c.width; x++ {
		r := c.at(x, y).r
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}

// palette maps tones to styles.
type palette map[tone]lipgloss.Style

// defaultPalette returns the board colors.
func defaultPalette() palette {
	return palette{
		toneFrame:    lipgloss.NewStyle().Foreground(lipgloss.Color("239")),
		toneCard:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		toneHover:    lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true),
		toneSelect:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		toneInteract: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		toneDrag:     lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Background(lipgloss.Color("236")),
		toneBand:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// compose flattens overlay above base into styled lines, batching runs of the
// same tone into one styled segment.
func compose(base, overlay *canvas, pal palette) []string {
	lines := make([]string, base.height)
	var line, run strings.Builder
	for y := 0; y < base.height; y++ {
		line.Reset()
		current := toneBlank
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if style, ok := pal[current]; ok {
				line.WriteString(style.Render(run.String()))
			} else {
				line.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < base.width; x++ {
			g := base.at(x, y)
			if o := overlay.at(x, y); o.r != 0 {
				g = o
			}
			if g.r == 0 {
				g = glyph{r: ' ', tone: toneBlank}
			}
			if g.tone != current {
				flush()
				current = g.tone
			}
			run.WriteRune(g.r)
		}
		flush()
		lines[y] = line.String()
	}
	return lines
}
