package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanschultz/flowgrid/internal/app"
	"github.com/evanschultz/flowgrid/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository stores the card catalog.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newRepository(db)
}

// OpenInMemory opens a private in-memory database.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// Every pooled connection would otherwise see its own empty database.
	db.SetMaxOpenConns(1)
	return newRepository(db)
}

// newRepository migrates db and wraps it.
func newRepository(db *sql.DB) (*Repository, error) {
	repo := &Repository{db: db, now: time.Now}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the schema.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			grid_key TEXT NOT NULL,
			kind TEXT NOT NULL,
			label TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_grid_position ON cards(grid_key, position);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// CreateCard inserts a card.
func (r *Repository) CreateCard(ctx context.Context, c domain.Card) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cards(id, grid_key, kind, label, description, position, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.GridKey, c.Kind, c.Label, c.Description, c.Position, ts(c.CreatedAt), ts(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

// UpdateCard rewrites a card's mutable fields.
func (r *Repository) UpdateCard(ctx context.Context, c domain.Card) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cards
		SET grid_key = ?, kind = ?, label = ?, description = ?, position = ?, updated_at = ?
		WHERE id = ?
	`, c.GridKey, c.Kind, c.Label, c.Description, c.Position, ts(r.now()), c.ID)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	return translateNoRows(res)
}

// GetCard returns one card.
func (r *Repository) GetCard(ctx context.Context, id string) (domain.Card, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, grid_key, kind, label, description, position, created_at
		FROM cards
		WHERE id = ?
	`, id)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Card{}, app.ErrNotFound
	}
	return card, err
}

// ListCards lists one grid's cards by position.
func (r *Repository) ListCards(ctx context.Context, gridKey string) ([]domain.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, grid_key, kind, label, description, position, created_at
		FROM cards
		WHERE grid_key = ?
		ORDER BY position ASC, created_at ASC
	`, gridKey)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	return out, rows.Err()
}

// CountCards counts every stored card.
func (r *Repository) CountCards(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

// ConsumeCards rewrites target and deletes consumedIDs inside one
// transaction, so a missing consumed card leaves the target untouched.
func (r *Repository) ConsumeCards(ctx context.Context, target domain.Card, consumedIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin consume: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE cards
		SET grid_key = ?, kind = ?, label = ?, description = ?, position = ?, updated_at = ?
		WHERE id = ?
	`, target.GridKey, target.Kind, target.Label, target.Description, target.Position, ts(r.now()), target.ID)
	if err != nil {
		return fmt.Errorf("update consuming card: %w", err)
	}
	if err := translateNoRows(res); err != nil {
		return err
	}
	for _, id := range consumedIDs {
		res, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete consumed card %q: %w", id, err)
		}
		if err := translateNoRows(res); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit consume: %w", err)
	}
	return nil
}

// MoveCards assigns ids to gridKey in order inside one transaction.
func (r *Repository) MoveCards(ctx context.Context, gridKey string, ids []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin move: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	updatedAt := ts(r.now())
	for position, id := range ids {
		res, err := tx.ExecContext(ctx, `
			UPDATE cards SET grid_key = ?, position = ?, updated_at = ? WHERE id = ?
		`, gridKey, position, updatedAt, id)
		if err != nil {
			return fmt.Errorf("move card %q: %w", id, err)
		}
		if err := translateNoRows(res); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit move: %w", err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanCard reads one card row.
func scanCard(s scanner) (domain.Card, error) {
	var (
		card       domain.Card
		createdRaw string
	)
	if err := s.Scan(&card.ID, &card.GridKey, &card.Kind, &card.Label, &card.Description, &card.Position, &createdRaw); err != nil {
		return domain.Card{}, err
	}
	card.CreatedAt = parseTS(createdRaw)
	return card, nil
}

// translateNoRows maps a zero-row write to app.ErrNotFound.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// ts formats a timestamp for storage.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses a stored timestamp.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
