package sqlite

import (
	"context"
	"fmt"

	"github.com/walloflove/wol-server/internal/domain"
	"github.com/walloflove/wol-server/internal/store"
)

// counterColumns maps counters to their column. Only these names are ever
// interpolated into SQL.
var counterColumns = map[domain.Counter]string{
	domain.CounterViews:  "view_count",
	domain.CounterClicks: "click_count",
}

// IncrementWidgetCounter adds one to a widget counter in a single statement,
// so concurrent increments are never lost. Unknown widgets are left alone.
func (s *Store) IncrementWidgetCounter(ctx context.Context, widgetID string, counter domain.Counter) error {
	col, ok := counterColumns[counter]
	if !ok {
		return store.ErrInvalidInput.Errorf("unknown counter %q", counter)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE widgets SET `+col+` = `+col+` + 1 WHERE id = ?`, widgetID)
	if err != nil {
		return fmt.Errorf("increment %s: %w", col, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		s.logger.Debug("counter increment for unknown widget", "widget_id", widgetID, "counter", counter)
	}
	return nil
}
