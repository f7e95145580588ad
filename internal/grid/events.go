package grid

import (
	"github.com/evanschultz/flowgrid/internal/domain"
	"github.com/evanschultz/flowgrid/internal/geometry"
	"github.com/evanschultz/flowgrid/internal/supervisor"
)

// EventName identifies one grid notification.
type EventName string

// Grid notifications.
const (
	EventCellHover        EventName = "cell:hover"
	EventCellSelect       EventName = "cell:select"
	EventCellClick        EventName = "cell:click"
	EventCellContextMenu  EventName = "cell:contextmenu"
	EventCellDrag         EventName = "cell:drag"
	EventCellInteract     EventName = "cell:interact"
	EventBackgroundClick  EventName = "background:click"
	EventCellsDrop        EventName = "cells:drop"
	EventCellsReturn      EventName = "cells:return"
	EventCellsTransferred EventName = "cells:transferred"
	EventGridLock         EventName = "grid:lock"
	EventGridUnlock       EventName = "grid:unlock"
)

// EventNames lists every notification in a stable order.
var EventNames = []EventName{
	EventCellHover,
	EventCellSelect,
	EventCellClick,
	EventCellContextMenu,
	EventCellDrag,
	EventCellInteract,
	EventBackgroundClick,
	EventCellsDrop,
	EventCellsReturn,
	EventCellsTransferred,
	EventGridLock,
	EventGridUnlock,
}

// Vetoable reports whether a listener's return value can cancel the action.
func (n EventName) Vetoable() bool {
	return n == EventCellDrag || n == EventCellInteract
}

// Event carries the arguments of one notification. Index is -1 when the
// notification has no cell.
type Event struct {
	Name         EventName
	Grid         *Grid
	Index        int
	Item         domain.Item
	Items        []domain.Item
	Cells        []supervisor.Cell
	Interacting  []domain.Item
	Capabilities domain.Capability
	Point        geometry.Point
}

// Listener handles one notification. The return value cancels cell:drag and
// accepts cell:interact; it is ignored for every other notification.
type Listener func(Event) bool

// On registers listener for name, replacing any previous one.
func (g *Grid) On(name EventName, listener Listener) {
	if listener == nil {
		delete(g.listeners, name)
		return
	}
	g.listeners[name] = listener
}

// notify invokes the listener for ev.Name and reports whether it cancelled a
// vetoable notification. Other notifications ignore the return value.
func (g *Grid) notify(ev Event) bool {
	listener, ok := g.listeners[ev.Name]
	if !ok {
		return false
	}
	ev.Grid = g
	return listener(ev) && ev.Name.Vetoable()
}
