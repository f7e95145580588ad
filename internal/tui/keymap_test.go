package tui

import (
	"slices"
	"testing"
)

func TestBindingKeys(t *testing.T) {
	cases := []struct {
		raw      string
		wantKeys []string
		wantHelp string
		wantOK   bool
	}{
		{raw: "space", wantKeys: []string{" ", "space"}, wantHelp: "space", wantOK: true},
		{raw: " ", wantKeys: []string{" ", "space"}, wantHelp: "space", wantOK: true},
		{raw: "L", wantKeys: []string{"L", "shift+l"}, wantHelp: "L", wantOK: true},
		{raw: " g ", wantKeys: []string{"g"}, wantHelp: "g", wantOK: true},
		{raw: "Ctrl+F", wantKeys: []string{"ctrl+f"}, wantHelp: "Ctrl+F", wantOK: true},
		{raw: "", wantOK: false},
		{raw: "\t", wantOK: false},
	}
	for _, tc := range cases {
		keys, help, ok := bindingKeys(tc.raw)
		if ok != tc.wantOK {
			t.Fatalf("bindingKeys(%q) ok = %t, want %t", tc.raw, ok, tc.wantOK)
		}
		if !ok {
			continue
		}
		if !slices.Equal(keys, tc.wantKeys) || help != tc.wantHelp {
			t.Fatalf("bindingKeys(%q) = %#v, %q", tc.raw, keys, help)
		}
	}
}

func TestApplyConfigKeepsDefaultsForBlankFields(t *testing.T) {
	k := newKeyMap()
	k.applyConfig(KeyConfig{LockDrag: "D", Filter: "f"})

	if got := k.lockDrag.Keys(); !slices.Equal(got, []string{"D", "shift+d"}) {
		t.Fatalf("lock drag keys = %#v", got)
	}
	if k.lockDrag.Help().Desc != "lock drag" {
		t.Fatalf("lock drag help = %#v", k.lockDrag.Help())
	}
	if got := k.filter.Keys(); !slices.Equal(got, []string{"f"}) {
		t.Fatalf("filter keys = %#v", got)
	}
	// Blank overrides leave multi-key defaults intact.
	if got := k.details.Keys(); !slices.Equal(got, []string{"d", "enter"}) {
		t.Fatalf("details keys = %#v", got)
	}
	if got := k.clearFilter.Keys(); !slices.Equal(got, []string{"esc"}) {
		t.Fatalf("clear filter keys = %#v", got)
	}
}

func TestApplyConfigSpaceDetails(t *testing.T) {
	k := newKeyMap()
	k.applyConfig(KeyConfig{Details: "space", Reload: "R"})
	if got := k.details.Keys(); !slices.Equal(got, []string{" ", "space"}) {
		t.Fatalf("details keys = %#v", got)
	}
	if k.details.Help().Key != "space" || k.details.Help().Desc != "details" {
		t.Fatalf("details help = %#v", k.details.Help())
	}
	if got := k.reload.Keys(); !slices.Equal(got, []string{"R", "shift+r"}) {
		t.Fatalf("reload keys = %#v", got)
	}
}

func TestHelpGroupsCoverLockBindings(t *testing.T) {
	k := newKeyMap()
	groups := k.FullHelp()
	if len(groups) != 3 {
		t.Fatalf("FullHelp() groups = %d, want 3", len(groups))
	}
	if len(groups[2]) != 4 {
		t.Fatalf("lock group = %d bindings, want 4", len(groups[2]))
	}
	if len(k.ShortHelp()) == 0 {
		t.Fatal("expected short help bindings")
	}
}
