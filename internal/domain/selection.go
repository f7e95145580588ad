package domain

import "strings"

// SelectionMode controls how pointer presses change a grid's selection.
type SelectionMode string

// SelectionMode values.
const (
	SelectionNone     SelectionMode = "none"
	SelectionSingle   SelectionMode = "single"
	SelectionMultiple SelectionMode = "multiple"
)

// ParseSelectionMode normalizes a configured selection mode.
func ParseSelectionMode(raw string) (SelectionMode, error) {
	switch mode := SelectionMode(strings.TrimSpace(strings.ToLower(raw))); mode {
	case "":
		return SelectionNone, nil
	case SelectionNone, SelectionSingle, SelectionMultiple:
		return mode, nil
	default:
		return "", ErrInvalidSelectionMode
	}
}

// Selectable reports whether presses select items at all.
func (m SelectionMode) Selectable() bool {
	return m == SelectionSingle || m == SelectionMultiple
}
