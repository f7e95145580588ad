package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/evanschultz/flowgrid/internal/domain"
)

// minDetailsWidth keeps glamour from wrapping word by word on narrow screens.
const minDetailsWidth = 24

// detailsRenderer renders card details as markdown and rebuilds its glamour
// renderer only when the wrap width changes.
type detailsRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// cardMarkdown formats card as a markdown document.
func cardMarkdown(card domain.Card) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", card.Label)
	fmt.Fprintf(&b, "`%s` in **%s**", card.Kind, card.GridKey)
	if !card.CreatedAt.IsZero() {
		fmt.Fprintf(&b, ", created %s", card.CreatedAt.Format("2006-01-02"))
	}
	b.WriteString("\n")
	if desc := strings.TrimSpace(card.Description); desc != "" {
		b.WriteString("\n")
		b.WriteString(desc)
		b.WriteString("\n")
	}
	return b.String()
}

// render converts card details to styled terminal text. Rendering failures
// fall back to the raw markdown.
func (r *detailsRenderer) render(card domain.Card, width int) string {
	markdown := cardMarkdown(card)
	wrap := max(width, minDetailsWidth)
	if r.renderer == nil || r.width != wrap {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrap
	}
	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}
