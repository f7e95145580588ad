package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evanschultz/flowgrid/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default("/tmp/flowgrid.db")
	if cfg.Database.Path != "/tmp/flowgrid.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(cfg.Grids) != 4 || cfg.Grids[0].Key != "backlog" {
		t.Fatalf("unexpected default grids %#v", cfg.Grids)
	}
	if cfg.Keys.Filter != "/" || cfg.Keys.LockDrop != "4" {
		t.Fatalf("unexpected default keys %#v", cfg.Keys)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default("/tmp/flowgrid.db")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != defaults.Database.Path {
		t.Fatalf("expected default db path, got %q", cfg.Database.Path)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
path = "/custom/flowgrid.db"

[logging]
level = "debug"

[[templates]]
name = "ticket"
width = 20
height = 3

[[templates.interacts]]
template = "ticket"
cardinality = "one"

[[grids]]
key = "inbox"
title = "Inbox"
template = "ticket"
rows = 4
columns = 2
margin = 1
spacing_x = 2
selection = "single"

[keys]
filter = "f"
`)

	cfg, err := Load(path, Default("/tmp/default.db"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/custom/flowgrid.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level %q", cfg.Logging.Level)
	}
	if len(cfg.Templates) != 1 || len(cfg.Grids) != 1 {
		t.Fatalf("expected array tables to replace defaults, got %d templates %d grids", len(cfg.Templates), len(cfg.Grids))
	}
	if cfg.Keys.Filter != "f" || cfg.Keys.Details != "d" {
		t.Fatalf("unexpected keys %#v", cfg.Keys)
	}
	margin, spacing := cfg.Grids[0].Geometry()
	if margin.Left != 1 || margin.Bottom != 1 || spacing.X != 2 || spacing.Y != 0 {
		t.Fatalf("unexpected geometry %+v %+v", margin, spacing)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name: "unknown template",
			content: `
[[grids]]
key = "a"
template = "missing"
rows = 1
columns = 1
`,
			want: "unknown template",
		},
		{
			name: "duplicate grid key",
			content: `
[[grids]]
key = "a"
template = "card"
rows = 1
columns = 1

[[grids]]
key = "A"
template = "card"
rows = 1
columns = 1
`,
			want: "duplicated",
		},
		{
			name: "bad selection",
			content: `
[[grids]]
key = "a"
template = "card"
rows = 1
columns = 1
selection = "lasso"
`,
			want: "selection",
		},
		{
			name: "bad level",
			content: `
[logging]
level = "loud"
`,
			want: "logging.level",
		},
		{
			name: "zero size",
			content: `
[[templates]]
name = "card"
width = 0
height = 3
`,
			want: "width and height",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content), Default("/tmp/default.db"))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Load() error = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestLoadRejectsBadCardinality(t *testing.T) {
	path := writeConfig(t, `
[[templates]]
name = "card"
width = 10
height = 3

[[templates.interacts]]
template = "card"
cardinality = "some"
`)
	_, err := Load(path, Default("/tmp/default.db"))
	if !errors.Is(err, domain.ErrInvalidCardinality) {
		t.Fatalf("expected domain.ErrInvalidCardinality, got %v", err)
	}
}

func TestBuildTemplatesWiresInteractions(t *testing.T) {
	templates, err := Default("/tmp/flowgrid.db").BuildTemplates()
	if err != nil {
		t.Fatalf("BuildTemplates() error = %v", err)
	}
	card, tag := templates["card"], templates["tag"]
	if card == nil || tag == nil {
		t.Fatalf("expected card and tag templates, got %#v", templates)
	}
	if len(card.Interactions) != 1 || card.Interactions[0].Template != tag {
		t.Fatalf("expected card to accept tags, got %#v", card.Interactions)
	}
	if card.Interactions[0].Cardinality != domain.CardinalityMultiple {
		t.Fatalf("unexpected cardinality %q", card.Interactions[0].Cardinality)
	}
	if card.Size.Width != 18 || card.Size.Height != 3 {
		t.Fatalf("unexpected card size %+v", card.Size)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "config.toml")
	if err := EnsureConfigDir(target); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("expected dir to exist, stat error %v", err)
	}
}
