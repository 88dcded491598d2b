package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/walloflove/wol-server/internal/domain"
	"github.com/walloflove/wol-server/internal/store"
)

// widgetColumns is the ordered list of columns selected in widget queries.
// Must match the scan order in scanWidget.
const widgetColumns = `id, created_at, updated_at, owner_id, name, type, settings, is_active, view_count, click_count`

// scanWidget scans a sql.Row (or sql.Rows via its Scan method) into a domain.Widget.
func scanWidget(scanner interface{ Scan(dest ...any) error }) (*domain.Widget, error) {
	var w domain.Widget

	var (
		createdAt string
		updatedAt string
		widgetTyp string
		settings  sql.NullString
		isActive  int
	)

	err := scanner.Scan(
		&w.ID,
		&createdAt,
		&updatedAt,
		&w.OwnerID,
		&w.Name,
		&widgetTyp,
		&settings,
		&isActive,
		&w.ViewCount,
		&w.ClickCount,
	)
	if err != nil {
		return nil, err
	}

	w.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	w.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	w.Type = domain.WidgetType(widgetTyp)
	w.IsActive = isActive != 0

	w.Settings, err = domain.ParseWidgetSettings([]byte(settings.String))
	if err != nil {
		return nil, fmt.Errorf("widget %s settings: %w", w.ID, err)
	}

	return &w, nil
}

// CreateWidget inserts a new widget.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateWidget(ctx context.Context, w *domain.Widget) error {
	settings, err := json.Marshal(w.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO widgets (
			id, created_at, updated_at, owner_id, name, type, settings, is_active, view_count, click_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID,
		formatTime(w.CreatedAt),
		formatTime(w.UpdatedAt),
		w.OwnerID,
		w.Name,
		string(w.Type),
		string(settings),
		boolToInt(w.IsActive),
		w.ViewCount,
		w.ClickCount,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.Errorf("widget %s already exists", w.ID)
	}
	return err
}

// GetWidget returns a widget by ID regardless of its active flag.
func (s *Store) GetWidget(ctx context.Context, id string) (*domain.Widget, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+widgetColumns+` FROM widgets WHERE id = ?`, id)
	w, err := scanWidget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return w, err
}

// GetActiveWidget returns a widget by ID only if it is active.
// Inactive and missing widgets are indistinguishable to callers.
func (s *Store) GetActiveWidget(ctx context.Context, id string) (*domain.Widget, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+widgetColumns+` FROM widgets WHERE id = ? AND is_active = 1`, id)
	w, err := scanWidget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return w, err
}

// SetWidgetActive toggles a widget's active flag.
func (s *Store) SetWidgetActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE widgets SET is_active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListWidgets returns all widgets of an owner, newest first.
func (s *Store) ListWidgets(ctx context.Context, ownerID string) ([]*domain.Widget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+widgetColumns+` FROM widgets WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var widgets []*domain.Widget
	for rows.Next() {
		w, err := scanWidget(rows)
		if err != nil {
			return nil, err
		}
		widgets = append(widgets, w)
	}
	return widgets, rows.Err()
}
