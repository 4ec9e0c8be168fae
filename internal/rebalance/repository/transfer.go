package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/wardstock/wardstock-backend/internal/rebalance/domain"
	"github.com/wardstock/wardstock-backend/pkg/database"
)

// TransferRepository reads the historical transfer feed owned by the
// transfer-execution system. This service never writes transfers.
type TransferRepository struct {
	db *database.DB
}

// NewTransferRepository creates a new transfer repository
func NewTransferRepository(db *database.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

// ListByRange returns transfers created inside [from, to], both bounds
// inclusive, oldest first.
func (r *TransferRepository) ListByRange(ctx context.Context, from, to time.Time) ([]domain.TransferRecord, error) {
	query := `
		SELECT id, item_id, from_location, to_location, quantity,
		       priority, status, automated, created_at, completed_at
		FROM transfers
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at, id
	`

	var records []domain.TransferRecord
	if err := r.db.SelectContext(ctx, &records, query, from, to); err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}

	return records, nil
}
