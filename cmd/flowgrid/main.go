package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/evanschultz/flowgrid/internal/adapters/storage/sqlite"
	"github.com/evanschultz/flowgrid/internal/app"
	"github.com/evanschultz/flowgrid/internal/config"
	"github.com/evanschultz/flowgrid/internal/domain"
	"github.com/evanschultz/flowgrid/internal/grid"
	"github.com/evanschultz/flowgrid/internal/platform"
	"github.com/evanschultz/flowgrid/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// version stores a package-level helper value.
var version = "dev"

// Environment variables read by the CLI in addition to the path overrides.
const (
	envDevMode = "FLOWGRID_DEV_MODE"
	envAppName = "FLOWGRID_APP_NAME"
)

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// main handles main.
func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := fang.Execute(context.Background(), root, fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree with args, without fang's styled output.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// cliOptions holds the persistent flags shared by every command.
type cliOptions struct {
	configPath string
	dbPath     string
	appName    string
	devMode    bool
	stdout     io.Writer
	stderr     io.Writer
}

// newRootCmd builds the command tree. With no subcommand it runs the board.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	opts := &cliOptions{stdout: stdout, stderr: stderr}

	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv(envDevMode); ok {
		defaultDevMode = envDev
	}
	defaultApp := platform.DefaultAppName
	if envApp := strings.TrimSpace(os.Getenv(envAppName)); envApp != "" {
		defaultApp = envApp
	}

	cmd := &cobra.Command{
		Use:           "flowgrid",
		Short:         "Drag-and-drop card grids in the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBoard(cmd.Context(), opts)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config TOML")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path to sqlite database")
	cmd.PersistentFlags().StringVar(&opts.appName, "app", defaultApp, "application name for config/data path resolution")
	cmd.PersistentFlags().BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	cmd.AddCommand(
		newPathsCmd(opts),
		newSeedCmd(opts),
		newAddCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
	)
	return cmd
}

// newPathsCmd prints the resolved runtime paths.
func newPathsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			paths, err := resolvePaths(opts)
			if err != nil {
				return err
			}
			out := opts.stdout
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", paths.ConfigPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "db: %s\n", paths.DBPath)
			return nil
		},
	}
}

// newSeedCmd fills an empty catalog with demo cards.
func newSeedCmd(opts *cliOptions) *cobra.Command {
	var perGrid int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty catalog with demo cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if perGrid < 0 {
				return fmt.Errorf("--per-grid must be >= 0")
			}
			return withRuntime(cmd.Context(), opts, "seed", func(ctx context.Context, rt *runtimeEnv) error {
				grids := make([]app.SeedGrid, 0, len(rt.cfg.Grids))
				for _, g := range rt.cfg.Grids {
					grids = append(grids, app.SeedGrid{Key: g.Key, Kind: g.Template, Count: perGrid})
				}
				created, err := rt.svc.SeedDemo(ctx, grids)
				if err != nil {
					return fmt.Errorf("seed demo cards: %w", err)
				}
				if created == 0 {
					_, _ = fmt.Fprintln(opts.stdout, "catalog already has cards; nothing seeded")
					return nil
				}
				_, _ = fmt.Fprintf(opts.stdout, "seeded %d cards\n", created)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&perGrid, "per-grid", 4, "cards to create in each grid")
	return cmd
}

// newAddCmd appends one card to a configured grid.
func newAddCmd(opts *cliOptions) *cobra.Command {
	var in app.CreateCardInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a card to a grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), opts, "add", func(ctx context.Context, rt *runtimeEnv) error {
				gridCfg, ok := findGrid(rt.cfg, in.GridKey)
				if !ok {
					return fmt.Errorf("unknown grid %q", in.GridKey)
				}
				if strings.TrimSpace(in.Kind) == "" {
					in.Kind = gridCfg.Template
				}
				card, err := rt.svc.CreateCard(ctx, in)
				if err != nil {
					return fmt.Errorf("create card: %w", err)
				}
				_, _ = fmt.Fprintln(opts.stdout, card.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.GridKey, "grid", "", "grid key to append to")
	cmd.Flags().StringVar(&in.Label, "label", "", "card label")
	cmd.Flags().StringVar(&in.Kind, "kind", "", "card kind (defaults to the grid template)")
	cmd.Flags().StringVar(&in.Description, "description", "", "markdown description")
	_ = cmd.MarkFlagRequired("grid")
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

// newExportCmd writes a catalog snapshot as JSON.
func newExportCmd(opts *cliOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every configured grid as a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd.Context(), opts, "export", func(ctx context.Context, rt *runtimeEnv) error {
				keys := make([]string, 0, len(rt.cfg.Grids))
				for _, g := range rt.cfg.Grids {
					keys = append(keys, g.Key)
				}
				snap, err := rt.svc.ExportSnapshot(ctx, keys)
				if err != nil {
					return fmt.Errorf("export snapshot: %w", err)
				}
				encoded, err := json.MarshalIndent(snap, "", "  ")
				if err != nil {
					return fmt.Errorf("encode snapshot json: %w", err)
				}
				encoded = append(encoded, '\n')
				if outPath == "-" {
					if _, err := opts.stdout.Write(encoded); err != nil {
						return fmt.Errorf("write snapshot to stdout: %w", err)
					}
					return nil
				}
				if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
					return fmt.Errorf("create export output dir: %w", err)
				}
				if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	return cmd
}

// newImportCmd upserts cards from a JSON snapshot.
func newImportCmd(opts *cliOptions) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import cards from a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(inPath) == "" {
				return errors.New("--in is required")
			}
			content, err := os.ReadFile(inPath)
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			var snap app.Snapshot
			if err := json.Unmarshal(content, &snap); err != nil {
				return fmt.Errorf("decode snapshot json: %w", err)
			}
			return withRuntime(cmd.Context(), opts, "import", func(ctx context.Context, rt *runtimeEnv) error {
				if err := rt.svc.ImportSnapshot(ctx, snap); err != nil {
					return fmt.Errorf("import snapshot: %w", err)
				}
				_, _ = fmt.Fprintf(opts.stdout, "imported %d cards\n", len(snap.Cards))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input snapshot JSON file")
	return cmd
}

// runtimeEnv holds everything a command needs once config is resolved.
type runtimeEnv struct {
	cfg    config.Config
	logger *runtimeLogger
	svc    *app.Service
}

// resolvePaths resolves platform paths for the selected app and mode.
func resolvePaths(opts *cliOptions) (platform.Paths, error) {
	return platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
}

// withRuntime loads config, opens logging and storage, runs fn, and tears
// everything down again.
func withRuntime(ctx context.Context, opts *cliOptions, command string, fn func(context.Context, *runtimeEnv) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	paths, err := resolvePaths(opts)
	if err != nil {
		return err
	}

	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		configPath = paths.ConfigPath
	}
	dbPath := strings.TrimSpace(opts.dbPath)
	dbOverridden := dbPath != "" || strings.TrimSpace(os.Getenv(platform.EnvDBPath)) != ""
	if dbPath == "" {
		dbPath = paths.DBPath
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}

	logger, err := newRuntimeLogger(opts.stderr, opts.appName, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		// Runtime logs stay in the dev-file sink while the board owns the terminal.
		logger.SetConsoleEnabled(false)
	}
	defer func() {
		if closeErr := logger.Close(); closeErr != nil && logger.shouldLogToSink(logger.consoleSink) {
			_, _ = fmt.Fprintf(opts.stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", dbPath)
	logger.Info("configuration loaded", "config_path", configPath, "db_path", cfg.Database.Path, "log_level", cfg.Logging.Level, "grids", len(cfg.Grids))
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		return fmt.Errorf("open sqlite repository: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.Warn("sqlite close failed", "db_path", cfg.Database.Path, "err", closeErr)
		}
	}()
	logger.Info("sqlite repository ready", "db_path", cfg.Database.Path, "migrations", "ensured")

	rt := &runtimeEnv{
		cfg:    cfg,
		logger: logger,
		svc:    app.NewService(repo, uuid.NewString, time.Now),
	}
	logger.Info("command flow start", "command", command)
	if err := fn(ctx, rt); err != nil {
		logger.Error("command flow failed", "command", command, "err", err)
		return err
	}
	logger.Info("command flow complete", "command", command)
	return nil
}

// runBoard runs the interactive board.
func runBoard(ctx context.Context, opts *cliOptions) error {
	return withRuntime(ctx, opts, "tui", func(_ context.Context, rt *runtimeEnv) error {
		specs, err := gridSpecs(rt.cfg)
		if err != nil {
			return fmt.Errorf("build grids: %w", err)
		}
		m := tui.NewModel(
			rt.svc,
			tui.WithGrids(specs),
			tui.WithLogger(rt.logger.BoardLogger()),
			tui.WithKeyConfig(toTUIKeyConfig(rt.cfg.Keys)),
		)
		rt.logger.Info("starting tui program loop", "grids", len(specs))
		if _, err := programFactory(m).Run(); err != nil {
			rt.logger.Error("tui program terminated with error", "err", err)
			return fmt.Errorf("run tui program: %w", err)
		}
		return nil
	})
}

// gridSpecs maps configured templates and grids into board grid specs.
func gridSpecs(cfg config.Config) ([]tui.GridSpec, error) {
	templates, err := cfg.BuildTemplates()
	if err != nil {
		return nil, err
	}
	specs := make([]tui.GridSpec, 0, len(cfg.Grids))
	for _, g := range cfg.Grids {
		tpl, ok := templates[g.Template]
		if !ok {
			return nil, fmt.Errorf("grid %q: unknown template %q", g.Key, g.Template)
		}
		selection, err := domain.ParseSelectionMode(g.Selection)
		if err != nil {
			return nil, fmt.Errorf("grid %q: %w", g.Key, err)
		}
		margin, spacing := g.Geometry()
		title := strings.TrimSpace(g.Title)
		if title == "" {
			title = g.Key
		}
		specs = append(specs, tui.GridSpec{
			Key:   g.Key,
			Title: title,
			Config: grid.Config{
				Template:          tpl,
				Rows:              g.Rows,
				Columns:           g.Columns,
				Margin:            margin,
				Spacing:           spacing,
				Selection:         selection,
				ConstrainToBounds: g.ConstrainToBounds,
			},
		})
	}
	return specs, nil
}

// toTUIKeyConfig maps persisted key overrides into the board key config.
func toTUIKeyConfig(keys config.KeyConfig) tui.KeyConfig {
	return tui.KeyConfig{
		Filter:      keys.Filter,
		ClearFilter: keys.ClearFilter,
		LockHover:   keys.LockHover,
		LockSelect:  keys.LockSelect,
		LockDrag:    keys.LockDrag,
		LockDrop:    keys.LockDrop,
		Details:     keys.Details,
		Reload:      keys.Reload,
	}
}

// findGrid returns the configured grid with key.
func findGrid(cfg config.Config, key string) (config.GridConfig, bool) {
	key = strings.TrimSpace(strings.ToLower(key))
	for _, g := range cfg.Grids {
		if g.Key == key {
			return g, true
		}
	}
	return config.GridConfig{}, false
}

// parseBoolEnv parses input into a normalized form.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
