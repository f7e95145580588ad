package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/evanschultz/flowgrid/internal/board"
	"github.com/evanschultz/flowgrid/internal/domain"
	"github.com/evanschultz/flowgrid/internal/geometry"
)

// Service represents the catalog operations the board needs.
type Service interface {
	ListGridCards(context.Context, string) ([]domain.Card, error)
	SaveGridOrder(context.Context, string, []string) error
	ConsumeCards(context.Context, string, []string) (domain.Card, error)
}

// inputMode represents a selectable mode.
type inputMode int

// Input modes.
const (
	modeNone inputMode = iota
	modeFilter
	modeDetails
)

// boardTop is the terminal row of the surface's first line, below the header
// and the grid titles.
const boardTop = 2

// chromeBelow counts the lines under the surface: status and the bordered
// help footer.
const chromeBelow = 3

// wheelStep is the scroll distance of one wheel tick, in terminal rows.
const wheelStep = 1

// Model is the Bubble Tea model driving the board.
type Model struct {
	svc         Service
	specs       []GridSpec
	logger      *log.Logger
	keys        keyMap
	help        help.Model
	filterInput textinput.Model
	details     *detailsRenderer
	palette     palette
	copyText    func(string) error

	ws          *workspace
	ready       bool
	width       int
	height      int
	status      string
	err         error
	mode        inputMode
	active      int
	filterQuery string
	detailsItem domain.Item
}

// loadedMsg carries the catalog cards of every grid.
type loadedMsg struct {
	cards map[string][]domain.Card
	err   error
}

// persistJob is one catalog write raised by a finished gesture.
type persistJob struct {
	kind        effectKind
	gridKey     string
	ids         []string
	target      domain.Item
	targetID    string
	consumedIDs []string
}

// persistedMsg reports the outcome of a batch of catalog writes.
type persistedMsg struct {
	saved    []string
	consumed map[domain.Item]domain.Card
	err      error
}

// NewModel constructs the board model.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	filterInput := textinput.New()
	filterInput.Prompt = "/ "
	filterInput.Placeholder = "label or kind"
	filterInput.CharLimit = 120
	m := Model{
		svc:         svc,
		logger:      log.New(io.Discard),
		keys:        newKeyMap(),
		help:        h,
		filterInput: filterInput,
		details:     &detailsRenderer{},
		palette:     defaultPalette(),
		copyText:    clipboard.WriteAll,
		status:      "loading...",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init loads the catalog.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		if m.ws != nil {
			m.ws.resize(m.width, m.surfaceHeight())
		}
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		ws, err := newWorkspace(m.specs, msg.cards, m.logger)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.ws = ws
		m.active = clamp(m.active, 0, len(ws.panes)-1)
		if m.filterQuery != "" {
			ws.applyFilter(m.filterQuery)
		}
		ws.resize(m.width, m.surfaceHeight())
		m.status = fmt.Sprintf("%d cards", ws.cards.Len())
		return m, nil

	case persistedMsg:
		if msg.err != nil {
			m.logger.Error("persist board", "err", msg.err)
			m.status = "save failed: " + msg.err.Error()
			return m, nil
		}
		if m.ws != nil {
			for item, card := range msg.consumed {
				if !m.ws.cards.Set(item, card) {
					continue
				}
				p, ok := m.ws.paneOf(item)
				switch {
				case !ok:
				case m.filterQuery != "":
					p.grid.RefreshDataFromSource()
				default:
					p.grid.RedrawCell(item)
				}
			}
		}
		if len(msg.saved) > 0 {
			m.status = "saved " + strings.Join(msg.saved, ", ")
		}
		return m, nil

	case tea.KeyPressMsg:
		switch m.mode {
		case modeFilter:
			return m.handleFilterKey(msg)
		case modeDetails:
			return m.handleDetailsKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg, tea.MouseWheelMsg:
		return m.handleMouse(msg)

	default:
		return m, nil
	}
}

// loadData loads every configured grid's cards.
func (m Model) loadData() tea.Msg {
	cards := make(map[string][]domain.Card, len(m.specs))
	for _, spec := range m.specs {
		list, err := m.svc.ListGridCards(context.Background(), spec.Key)
		if err != nil {
			return loadedMsg{err: fmt.Errorf("load grid %q: %w", spec.Key, err)}
		}
		cards[spec.Key] = list
	}
	return loadedMsg{cards: cards}
}

// surfaceHeight returns the number of terminal rows given to the grids.
func (m Model) surfaceHeight() int {
	return max(0, m.height-boardTop-chromeBelow)
}

// surfacePoint converts terminal coordinates to surface coordinates and
// reports whether they fall on the surface.
func (m Model) surfacePoint(x, y int) (geometry.Point, bool) {
	p := geometry.Point{X: float64(x), Y: float64(y - boardTop)}
	return p, y >= boardTop && y < boardTop+m.surfaceHeight() && x >= 0 && x < m.width
}

// activePane returns the pane keyboard actions apply to.
func (m Model) activePane() *pane {
	if m.ws == nil || len(m.ws.panes) == 0 {
		return nil
	}
	return m.ws.panes[clamp(m.active, 0, len(m.ws.panes)-1)]
}

// handleMouse routes pointer input to the board and runs the effects the
// gesture raised.
func (m Model) handleMouse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.ws == nil || m.mode != modeNone {
		return m, nil
	}
	b := m.ws.board
	switch msg := msg.(type) {
	case tea.MouseClickMsg:
		p, ok := m.surfacePoint(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseLeft:
			m.focusPaneAt(p)
			b.PointerDown(p, board.ButtonPrimary, msg.Mod&tea.ModShift != 0)
		case tea.MouseRight:
			b.PointerDown(p, board.ButtonSecondary, false)
		}
	case tea.MouseMotionMsg:
		p, ok := m.surfacePoint(msg.X, msg.Y)
		if !ok {
			b.PointerLeave()
			return m, nil
		}
		b.PointerMove(p)
	case tea.MouseReleaseMsg:
		if msg.Button == tea.MouseRight {
			return m, nil
		}
		// Releases off the surface still end the gesture so the payload returns.
		p, _ := m.surfacePoint(msg.X, msg.Y)
		b.PointerUp(p, board.ButtonPrimary)
	case tea.MouseWheelMsg:
		p, ok := m.surfacePoint(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseWheelUp:
			b.Wheel(p, -wheelStep)
		case tea.MouseWheelDown:
			b.Wheel(p, wheelStep)
		}
	}
	return m.afterGesture()
}

// focusPaneAt makes the pane under p active.
func (m *Model) focusPaneAt(p geometry.Point) {
	for i, candidate := range m.ws.panes {
		if candidate.grid.Bounds().Contains(p) {
			m.active = i
			return
		}
	}
}

// afterGesture runs the effects queued by grid listeners and schedules the
// catalog writes they need as one sequential command.
func (m Model) afterGesture() (tea.Model, tea.Cmd) {
	var jobs []persistJob
	saved := map[*pane]bool{}
	for _, e := range m.ws.drain() {
		switch e.kind {
		case effectSaveOrder:
			if saved[e.pane] {
				continue
			}
			saved[e.pane] = true
			jobs = append(jobs, persistJob{
				kind:    effectSaveOrder,
				gridKey: e.pane.key,
				ids:     m.ws.cardIDs(e.pane.grid.SourceItems()),
			})
		case effectConsume:
			target, ok := m.ws.card(e.target)
			if !ok {
				continue
			}
			jobs = append(jobs, persistJob{
				kind:        effectConsume,
				target:      e.target,
				targetID:    target.ID,
				consumedIDs: m.ws.cardIDs(e.consumed),
			})
		case effectClearFilter:
			e.pane.grid.Filter(nil)
			m.status = "filter cleared on " + e.pane.title
		case effectDetails:
			m.openDetails(m.ws.focused)
		}
	}
	if len(jobs) == 0 {
		return m, nil
	}
	return m, m.persist(jobs)
}

// persist runs jobs in order against the catalog.
func (m Model) persist(jobs []persistJob) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx := context.Background()
		out := persistedMsg{consumed: map[domain.Item]domain.Card{}}
		var errs []error
		for _, job := range jobs {
			switch job.kind {
			case effectConsume:
				card, err := svc.ConsumeCards(ctx, job.targetID, job.consumedIDs)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				out.consumed[job.target] = card
			default:
				if err := svc.SaveGridOrder(ctx, job.gridKey, job.ids); err != nil {
					errs = append(errs, err)
					continue
				}
				out.saved = append(out.saved, job.gridKey)
			}
		}
		out.err = errors.Join(errs...)
		return out
	}
}

// handleNormalModeKey handles board keys.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadData
	}

	p := m.activePane()
	if p == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.nextGrid):
		m.active = wrapIndex(m.active, 1, len(m.ws.panes))
	case key.Matches(msg, m.keys.prevGrid):
		m.active = wrapIndex(m.active, -1, len(m.ws.panes))
	case key.Matches(msg, m.keys.scrollUp):
		p.grid.Wheel(-rowPitch(p))
	case key.Matches(msg, m.keys.scrollDown):
		p.grid.Wheel(rowPitch(p))
	case key.Matches(msg, m.keys.filter):
		m.mode = modeFilter
		m.filterInput.SetValue(m.filterQuery)
		m.filterInput.CursorEnd()
		cmd := m.filterInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.clearFilter):
		if m.filterQuery != "" {
			m.filterQuery = ""
			m.ws.applyFilter("")
			m.status = "filter cleared"
		}
	case key.Matches(msg, m.keys.deselect):
		p.grid.DeselectAll()
	case key.Matches(msg, m.keys.lockHover):
		m.toggleLock(p, domain.CapabilityHover)
	case key.Matches(msg, m.keys.lockSelect):
		m.toggleLock(p, domain.CapabilitySelect)
	case key.Matches(msg, m.keys.lockDrag):
		m.toggleLock(p, domain.CapabilityDrag)
	case key.Matches(msg, m.keys.lockDrop):
		m.toggleLock(p, domain.CapabilityDrop)
	case key.Matches(msg, m.keys.details):
		item := m.ws.focused
		if item == 0 {
			item = m.ws.hovered
		}
		m.openDetails(item)
	case key.Matches(msg, m.keys.copyLabel):
		m.copyLabel(m.ws.focused)
	}
	return m.afterGesture()
}

// handleFilterKey edits the filter query, filtering live as it changes.
func (m Model) handleFilterKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.filterInput.Blur()
		if m.ws != nil {
			m.ws.applyFilter(m.filterQuery)
		}
		return m, nil
	case "enter":
		m.mode = modeNone
		m.filterInput.Blur()
		m.filterQuery = strings.TrimSpace(m.filterInput.Value())
		if m.ws != nil {
			m.ws.applyFilter(m.filterQuery)
		}
		if m.filterQuery == "" {
			m.status = "filter cleared"
		} else {
			m.status = "filter: " + m.filterQuery
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if m.ws != nil {
		m.ws.applyFilter(m.filterInput.Value())
	}
	return m, cmd
}

// handleDetailsKey handles keys while the details pane is open.
func (m Model) handleDetailsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.copyLabel):
		m.copyLabel(m.detailsItem)
	case msg.String() == "esc", key.Matches(msg, m.keys.details), key.Matches(msg, m.keys.quit):
		m.mode = modeNone
		m.detailsItem = 0
	}
	return m, nil
}

// toggleLock flips one capability lock on p.
func (m *Model) toggleLock(p *pane, c domain.Capability) {
	if p.grid.Locked().Has(c) {
		p.grid.Unlock(c)
		m.status = fmt.Sprintf("%s: unlocked %s", p.title, c)
		return
	}
	p.grid.Lock(c)
	m.status = fmt.Sprintf("%s: locked %s", p.title, c)
}

// openDetails shows the details pane for item.
func (m *Model) openDetails(item domain.Item) {
	if _, ok := m.ws.card(item); !ok {
		m.status = "no card focused"
		return
	}
	m.mode = modeDetails
	m.detailsItem = item
}

// copyLabel writes item's label to the clipboard.
func (m *Model) copyLabel(item domain.Item) {
	card, ok := m.ws.card(item)
	if !ok {
		m.status = "no card focused"
		return
	}
	if err := m.copyText(card.Label); err != nil {
		m.status = "copy failed: " + err.Error()
		return
	}
	m.status = "copied " + card.Label
}

// rowPitch returns the scroll distance of one cell row of p.
func rowPitch(p *pane) float64 {
	layout := p.grid.Layout()
	return layout.Cell.Height + layout.Spacing.Y
}
