package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// KeyConfig holds configurable key overrides. Blank fields keep defaults.
type KeyConfig struct {
	Filter      string
	ClearFilter string
	LockHover   string
	LockSelect  string
	LockDrag    string
	LockDrop    string
	Details     string
	Reload      string
}

// keyMap holds every board binding.
type keyMap struct {
	quit        key.Binding
	reload      key.Binding
	toggleHelp  key.Binding
	nextGrid    key.Binding
	prevGrid    key.Binding
	scrollUp    key.Binding
	scrollDown  key.Binding
	filter      key.Binding
	clearFilter key.Binding
	deselect    key.Binding
	lockHover   key.Binding
	lockSelect  key.Binding
	lockDrag    key.Binding
	lockDrop    key.Binding
	details     key.Binding
	copyLabel   key.Binding
}

// newKeyMap constructs the default bindings.
func newKeyMap() keyMap {
	return keyMap{
		quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		nextGrid:    key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab", "next grid")),
		prevGrid:    key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("shift+tab", "previous grid")),
		scrollUp:    key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "scroll up")),
		scrollDown:  key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "scroll down")),
		filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		clearFilter: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter")),
		deselect:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "deselect")),
		lockHover:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "lock hover")),
		lockSelect:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "lock select")),
		lockDrag:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "lock drag")),
		lockDrop:    key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "lock drop")),
		details:     key.NewBinding(key.WithKeys("d", "enter"), key.WithHelp("d", "details")),
		copyLabel:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy label")),
	}
}

// applyConfig applies configured overrides. Blank fields leave the default
// binding, including its aliases, untouched.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	overrides := []struct {
		binding *key.Binding
		raw     string
	}{
		{&k.filter, cfg.Filter},
		{&k.clearFilter, cfg.ClearFilter},
		{&k.lockHover, cfg.LockHover},
		{&k.lockSelect, cfg.LockSelect},
		{&k.lockDrag, cfg.LockDrag},
		{&k.lockDrop, cfg.LockDrop},
		{&k.details, cfg.Details},
		{&k.reload, cfg.Reload},
	}
	for _, o := range overrides {
		rebind(o.binding, o.raw)
	}
}

// rebind swaps b's keys for raw and keeps its help description.
func rebind(b *key.Binding, raw string) {
	keys, help, ok := bindingKeys(raw)
	if !ok {
		return
	}
	b.SetKeys(keys...)
	b.SetHelp(help, b.Help().Desc)
}

// bindingKeys turns a configured key into matcher keys and help text. An
// uppercase rune also matches its shift+ form and "space" matches a literal
// space.
func bindingKeys(raw string) ([]string, string, bool) {
	if raw == " " || strings.EqualFold(strings.TrimSpace(raw), "space") {
		return []string{" ", "space"}, "space", true
	}
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return nil, "", false
	case utf8.RuneCountInString(raw) == 1:
		r, _ := utf8.DecodeRuneInString(raw)
		if unicode.IsUpper(r) {
			return []string{raw, "shift+" + string(unicode.ToLower(r))}, raw, true
		}
		return []string{raw}, raw, true
	default:
		return []string{strings.ToLower(raw)}, raw, true
	}
}

// ShortHelp returns the footer bindings.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.filter, k.nextGrid, k.lockDrag, k.details, k.toggleHelp, k.quit}
}

// FullHelp returns every binding grouped for the expanded help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.filter, k.clearFilter, k.deselect, k.details, k.copyLabel, k.reload, k.toggleHelp, k.quit},
		{k.nextGrid, k.prevGrid, k.scrollUp, k.scrollDown},
		{k.lockHover, k.lockSelect, k.lockDrag, k.lockDrop},
	}
}
