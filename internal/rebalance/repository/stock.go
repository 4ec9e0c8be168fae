package repository

import (
	"context"
	"fmt"

	"github.com/wardstock/wardstock-backend/internal/rebalance/domain"
	"github.com/wardstock/wardstock-backend/pkg/database"
)

// StockRepository loads per-location stock states from the inventory
// database. It is the concrete snapshot provider behind the rebalancing
// engine; the engine itself never touches the database.
type StockRepository struct {
	db *database.DB
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *database.DB) *StockRepository {
	return &StockRepository{db: db}
}

type stockRow struct {
	ItemID           string `db:"item_id"`
	ItemName         string `db:"item_name"`
	LocationID       string `db:"location_id"`
	Quantity         int    `db:"quantity"`
	Reserved         int    `db:"reserved"`
	MinimumThreshold int    `db:"minimum_threshold"`
}

// Snapshot returns the current stock states grouped by item. Items are
// ordered by ID and locations by ID inside each item, so two reads of an
// unchanged database produce identical snapshots.
func (r *StockRepository) Snapshot(ctx context.Context) ([]domain.Item, error) {
	query := `
		SELECT i.id AS item_id, i.name AS item_name, s.location_id,
		       s.quantity, COALESCE(s.reserved, 0) AS reserved,
		       COALESCE(s.minimum_threshold, 0) AS minimum_threshold
		FROM inventory_items i
		JOIN location_stock s ON s.item_id = i.id
		WHERE i.is_active
		ORDER BY i.id, s.location_id
	`

	var rows []stockRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("stock snapshot: %w", err)
	}

	var items []domain.Item
	index := make(map[string]int)

	for _, row := range rows {
		i, ok := index[row.ItemID]
		if !ok {
			items = append(items, domain.Item{ID: row.ItemID, Name: row.ItemName})
			i = len(items) - 1
			index[row.ItemID] = i
		}

		items[i].Stock = append(items[i].Stock, domain.LocationStockState{
			LocationID:       row.LocationID,
			ItemID:           row.ItemID,
			Quantity:         row.Quantity,
			Reserved:         row.Reserved,
			MinimumThreshold: row.MinimumThreshold,
		})
	}

	return items, nil
}
