package tui

import (
	"slices"

	"github.com/charmbracelet/log"
)

// Option configures a Model.
type Option func(*Model)

// WithGrids sets the grids laid out on the board, left to right.
func WithGrids(specs []GridSpec) Option {
	return func(m *Model) {
		m.specs = slices.Clone(specs)
	}
}

// WithLogger routes grid notifications to logger at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithKeyConfig applies key overrides.
func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

// WithClipboard replaces the clipboard writer used by the copy key.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}
