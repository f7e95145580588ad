package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanschultz/flowgrid/internal/domain"
	"github.com/evanschultz/flowgrid/internal/geometry"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the full runtime configuration.
type Config struct {
	Database  DatabaseConfig   `toml:"database"`
	Logging   LoggingConfig    `toml:"logging"`
	Templates []TemplateConfig `toml:"templates"`
	Grids     []GridConfig     `toml:"grids"`
	Keys      KeyConfig        `toml:"keys"`
}

// DatabaseConfig holds the catalog database location.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig holds runtime logger settings.
type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

// DevFileConfig controls the dev-mode logfmt file sink.
type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// TemplateConfig declares one item kind and its cell size in terminal cells.
type TemplateConfig struct {
	Name      string              `toml:"name"`
	Width     int                 `toml:"width"`
	Height    int                 `toml:"height"`
	Interacts []InteractionConfig `toml:"interacts"`
}

// InteractionConfig declares a template whose items may be dropped onto items
// of the owning template.
type InteractionConfig struct {
	Template    string `toml:"template"`
	Cardinality string `toml:"cardinality"`
}

// GridConfig declares one grid on the board.
type GridConfig struct {
	Key               string `toml:"key"`
	Title             string `toml:"title"`
	Template          string `toml:"template"`
	Rows              int    `toml:"rows"`
	Columns           int    `toml:"columns"`
	Margin            int    `toml:"margin"`
	SpacingX          int    `toml:"spacing_x"`
	SpacingY          int    `toml:"spacing_y"`
	Selection         string `toml:"selection"`
	ConstrainToBounds bool   `toml:"constrain_to_bounds"`
}

// KeyConfig overrides TUI key bindings.
type KeyConfig struct {
	Filter      string `toml:"filter"`
	ClearFilter string `toml:"clear_filter"`
	LockHover   string `toml:"lock_hover"`
	LockSelect  string `toml:"lock_select"`
	LockDrag    string `toml:"lock_drag"`
	LockDrop    string `toml:"lock_drop"`
	Details     string `toml:"details"`
	Reload      string `toml:"reload"`
}

// Default returns the built-in configuration.
func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".flowgrid/log",
			},
		},
		Templates: []TemplateConfig{
			{
				Name:   "card",
				Width:  18,
				Height: 3,
				Interacts: []InteractionConfig{
					{Template: "tag", Cardinality: string(domain.CardinalityMultiple)},
				},
			},
			{Name: "tag", Width: 12, Height: 3},
		},
		Grids: []GridConfig{
			{Key: "backlog", Title: "Backlog", Template: "card", Rows: 6, Columns: 1, Margin: 1, Selection: "multiple", ConstrainToBounds: true},
			{Key: "doing", Title: "Doing", Template: "card", Rows: 6, Columns: 1, Margin: 1, Selection: "multiple", ConstrainToBounds: true},
			{Key: "done", Title: "Done", Template: "card", Rows: 6, Columns: 1, Margin: 1, Selection: "single"},
			{Key: "tags", Title: "Tags", Template: "tag", Rows: 6, Columns: 1, Margin: 1, Selection: "multiple"},
		},
		Keys: KeyConfig{
			Filter:      "/",
			ClearFilter: "esc",
			LockHover:   "1",
			LockSelect:  "2",
			LockDrag:    "3",
			LockDrop:    "4",
			Details:     "d",
			Reload:      "r",
		},
	}
}

// Load reads path over defaults. A missing or empty file yields defaults.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	// Array tables replace the defaults wholesale when present.
	var probe struct {
		Templates []TemplateConfig `toml:"templates"`
		Grids     []GridConfig     `toml:"grids"`
	}
	if err := toml.Unmarshal(content, &probe); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	if probe.Templates != nil {
		cfg.Templates = nil
	}
	if probe.Grids != nil {
		cfg.Grids = nil
	}
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks references, sizes, and enum values.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	if len(c.Templates) == 0 {
		return errors.New("templates must include at least one template")
	}
	names := map[string]struct{}{}
	for idx, tpl := range c.Templates {
		name := strings.TrimSpace(tpl.Name)
		if name == "" {
			return fmt.Errorf("templates[%d].name is required", idx)
		}
		if _, ok := names[name]; ok {
			return fmt.Errorf("templates[%d].name is duplicated: %s", idx, name)
		}
		names[name] = struct{}{}
		if tpl.Width <= 0 || tpl.Height <= 0 {
			return fmt.Errorf("templates[%d] width and height must be > 0", idx)
		}
	}
	for idx, tpl := range c.Templates {
		for j, in := range tpl.Interacts {
			if _, ok := names[strings.TrimSpace(in.Template)]; !ok {
				return fmt.Errorf("templates[%d].interacts[%d] references unknown template %q", idx, j, in.Template)
			}
			if _, err := domain.ParseCardinality(in.Cardinality); err != nil {
				return fmt.Errorf("templates[%d].interacts[%d].cardinality: %w", idx, j, err)
			}
		}
	}

	if len(c.Grids) == 0 {
		return errors.New("grids must include at least one grid")
	}
	keys := map[string]struct{}{}
	for idx, g := range c.Grids {
		key := strings.TrimSpace(strings.ToLower(g.Key))
		if key == "" {
			return fmt.Errorf("grids[%d].key is required", idx)
		}
		if _, ok := keys[key]; ok {
			return fmt.Errorf("grids[%d].key is duplicated: %s", idx, key)
		}
		keys[key] = struct{}{}
		if _, ok := names[strings.TrimSpace(g.Template)]; !ok {
			return fmt.Errorf("grids[%d] references unknown template %q", idx, g.Template)
		}
		if g.Rows <= 0 || g.Columns <= 0 {
			return fmt.Errorf("grids[%d] rows and columns must be > 0", idx)
		}
		if g.Margin < 0 || g.SpacingX < 0 || g.SpacingY < 0 {
			return fmt.Errorf("grids[%d] margin and spacing must be >= 0", idx)
		}
		if _, err := domain.ParseSelectionMode(g.Selection); err != nil {
			return fmt.Errorf("grids[%d].selection: %w", idx, err)
		}
	}

	return nil
}

// BuildTemplates constructs the configured templates and wires their
// interactions. The config must already be valid.
func (c Config) BuildTemplates() (map[string]*domain.Template, error) {
	out := make(map[string]*domain.Template, len(c.Templates))
	for _, tc := range c.Templates {
		tpl, err := domain.NewTemplate(tc.Name, geometry.Size{Width: float64(tc.Width), Height: float64(tc.Height)})
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", tc.Name, err)
		}
		out[tpl.Name] = tpl
	}
	for _, tc := range c.Templates {
		owner := out[strings.TrimSpace(tc.Name)]
		for _, in := range tc.Interacts {
			card, err := domain.ParseCardinality(in.Cardinality)
			if err != nil {
				return nil, fmt.Errorf("template %q: %w", tc.Name, err)
			}
			if err := owner.Accept(out[strings.TrimSpace(in.Template)], card); err != nil {
				return nil, fmt.Errorf("template %q: %w", tc.Name, err)
			}
		}
	}
	return out, nil
}

// Geometry returns the grid margin and inter-cell spacing.
func (g GridConfig) Geometry() (geometry.Insets, geometry.Spacing) {
	return geometry.Uniform(float64(g.Margin)), geometry.Spacing{X: float64(g.SpacingX), Y: float64(g.SpacingY)}
}

// EnsureConfigDir creates the parent directory of path.
func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
