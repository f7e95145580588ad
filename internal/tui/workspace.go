package tui

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/evanschultz/flowgrid/internal/app"
	"github.com/evanschultz/flowgrid/internal/board"
	"github.com/evanschultz/flowgrid/internal/domain"
	"github.com/evanschultz/flowgrid/internal/filter"
	"github.com/evanschultz/flowgrid/internal/geometry"
	"github.com/evanschultz/flowgrid/internal/grid"
	"github.com/evanschultz/flowgrid/internal/supervisor"
)

// paneGutter is the number of blank columns between adjacent grids.
const paneGutter = 2

// GridSpec declares one grid of the board. Config.Items is ignored; items
// come from the catalog cards stored under Key.
type GridSpec struct {
	Key    string
	Title  string
	Config grid.Config
}

// pane is one grid on the board together with its catalog key.
type pane struct {
	key   string
	title string
	grid  *grid.Grid
}

// effectKind identifies deferred work raised by grid notifications.
type effectKind int

// Deferred work kinds.
const (
	effectSaveOrder effectKind = iota
	effectConsume
	effectClearFilter
	effectDetails
)

// effect is work queued by a grid listener and run after the gesture that
// raised it finishes.
type effect struct {
	kind     effectKind
	pane     *pane
	target   domain.Item
	consumed []domain.Item
}

// workspace owns the interactive board built from one catalog load.
type workspace struct {
	sup     *supervisor.Supervisor
	board   *board.Board
	panes   []*pane
	cards   *domain.Arena[domain.Card]
	surface *canvas
	overlay *canvas
	effects []effect
	focused domain.Item
	hovered domain.Item
	logger  *log.Logger
}

// newWorkspace lays the grids out left to right and fills them from cards,
// keyed by grid key.
func newWorkspace(specs []GridSpec, cards map[string][]domain.Card, logger *log.Logger) (*workspace, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ws := &workspace{
		cards:   domain.NewArena[domain.Card](),
		surface: newCanvas(0, 0),
		overlay: newCanvas(0, 0),
		logger:  logger,
	}
	ws.sup = supervisor.New(supervisor.WithOverlay(&overlayPainter{layer: ws.overlay, label: ws.label}))
	ws.board = board.New(ws.sup)

	x := 0.0
	for _, spec := range specs {
		cfg := spec.Config
		if cfg.Template == nil {
			return nil, fmt.Errorf("grid %q: %w", spec.Key, grid.ErrNilTemplate)
		}
		cfg.Items = ws.cards.AddAll(cards[spec.Key])
		size := geometry.Layout{
			Rows:    cfg.Rows,
			Columns: cfg.Columns,
			Margin:  cfg.Margin,
			Spacing: cfg.Spacing,
			Cell:    cfg.Template.Size,
		}.Size()
		origin := geometry.Point{X: x}
		painter := &gridPainter{surface: ws.surface, origin: origin, size: size, margin: cfg.Margin, label: ws.label}
		p := &pane{key: spec.Key, title: spec.Title}
		g, err := grid.New(ws.sup, cfg,
			grid.WithOrigin(origin),
			grid.WithRenderer(painter),
			grid.WithAttachments(ws.filterBadge(p, painter)),
		)
		if err != nil {
			return nil, fmt.Errorf("grid %q: %w", spec.Key, err)
		}
		p.grid = g
		ws.listen(p)
		ws.panes = append(ws.panes, p)
		ws.board.Add(g)
		x += size.Width + paneGutter
	}
	return ws, nil
}

// filterBadge marks a filtered grid in the top-right corner of its frame;
// clicking the mark clears that grid's filter.
func (ws *workspace) filterBadge(p *pane, painter *gridPainter) grid.Attachment {
	return grid.Attachment{
		Position: geometry.Point{X: painter.size.Width - 2, Y: 0},
		Size:     geometry.Size{Width: 1, Height: 1},
		Draw: func(position geometry.Point, _ geometry.Size) {
			if p.grid != nil && p.grid.Filtered() {
				painter.badge(position, '⧩', toneSelect)
			}
		},
		OnClick: func(geometry.Point) bool {
			if p.grid == nil || !p.grid.Filtered() {
				return false
			}
			ws.effects = append(ws.effects, effect{kind: effectClearFilter, pane: p})
			return true
		},
	}
}

// listen routes every notification of p's grid through handle.
func (ws *workspace) listen(p *pane) {
	for _, name := range grid.EventNames {
		p.grid.On(name, func(ev grid.Event) bool {
			return ws.handle(p, ev)
		})
	}
}

// handle records focus, queues persistence, and accepts interactions.
func (ws *workspace) handle(p *pane, ev grid.Event) bool {
	switch ev.Name {
	case grid.EventCellHover:
		ws.hovered = ev.Item
	case grid.EventCellSelect, grid.EventCellClick:
		ws.focused = ev.Item
	case grid.EventCellContextMenu:
		ws.focused = ev.Item
		ws.effects = append(ws.effects, effect{kind: effectDetails, pane: p})
	case grid.EventBackgroundClick:
		ws.focused = 0
	case grid.EventCellDrag:
		ws.logger.Debug("drag started", "grid", p.key, "index", ev.Index, "count", len(ev.Cells))
	case grid.EventCellInteract:
		if len(ev.Interacting) == 0 {
			return false
		}
		ws.logger.Debug("interaction accepted", "grid", p.key, "target", ws.label(ev.Item), "count", len(ev.Interacting))
		ws.effects = append(ws.effects, effect{
			kind:     effectConsume,
			pane:     p,
			target:   ev.Item,
			consumed: slices.Clone(ev.Interacting),
		})
		return true
	case grid.EventCellsDrop, grid.EventCellsReturn, grid.EventCellsTransferred:
		ws.logger.Debug(string(ev.Name), "grid", p.key, "index", ev.Index, "count", len(ev.Items))
		ws.effects = append(ws.effects, effect{kind: effectSaveOrder, pane: p})
	case grid.EventGridLock, grid.EventGridUnlock:
		ws.logger.Debug(string(ev.Name), "grid", p.key, "capabilities", ev.Capabilities.String(), "locked", p.grid.Locked().String())
		// A drag lock reclaims in-flight cells without a drop or return.
		if ev.Name == grid.EventGridLock && ev.Capabilities.Has(domain.CapabilityDrag) {
			ws.effects = append(ws.effects, effect{kind: effectSaveOrder, pane: p})
		}
	}
	return false
}

// drain returns and forgets the queued effects.
func (ws *workspace) drain() []effect {
	out := ws.effects
	ws.effects = nil
	return out
}

// resize reallocates both layers and repaints the board.
func (ws *workspace) resize(width, height int) {
	ws.surface.resize(width, height)
	ws.overlay.resize(width, height)
	ws.board.Resize()
}

// label returns the card label behind item.
func (ws *workspace) label(item domain.Item) string {
	card, ok := ws.cards.Get(item)
	if !ok {
		return "?"
	}
	return card.Label
}

// card returns the card behind item.
func (ws *workspace) card(item domain.Item) (domain.Card, bool) {
	return ws.cards.Get(item)
}

// cardIDs maps items to catalog ids.
func (ws *workspace) cardIDs(items []domain.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if card, ok := ws.cards.Get(item); ok {
			out = append(out, card.ID)
		}
	}
	return out
}

// paneOf returns the pane currently holding item in its source items.
func (ws *workspace) paneOf(item domain.Item) (*pane, bool) {
	for _, p := range ws.panes {
		if slices.Contains(p.grid.SourceItems(), item) {
			return p, true
		}
	}
	return nil, false
}

// applyFilter installs the fuzzy label matcher on every grid, or clears
// filtering for a blank query.
func (ws *workspace) applyFilter(query string) {
	query = strings.TrimSpace(query)
	var predicate filter.Predicate
	if query != "" {
		predicate = func(item domain.Item) bool {
			card, ok := ws.cards.Get(item)
			return ok && app.MatchCard(card, query)
		}
	}
	for _, p := range ws.panes {
		p.grid.Filter(predicate)
	}
}
