package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository"
)

type ledgerRepository struct {
	db *DB
}

var (
	_ repository.OutputRepository      = (*ledgerRepository)(nil)
	_ repository.TransactionRepository = (*ledgerRepository)(nil)
	_ repository.BOMRepository         = (*ledgerRepository)(nil)
	_ repository.MaterialRepository    = (*ledgerRepository)(nil)
)

// NewLedgerRepository reads the forecast input ledgers.
func NewLedgerRepository(db *DB) *ledgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) ListDailyOutput(ctx context.Context) ([]domain.OutputSample, error) {
	query := `
		SELECT output_date, quantity_produced
		FROM production_outputs
		ORDER BY output_date, id
	`

	var samples []domain.OutputSample
	if err := r.db.SelectContext(ctx, &samples, query); err != nil {
		return nil, fmt.Errorf("error listing production outputs: %w", err)
	}
	return samples, nil
}

func (r *ledgerRepository) ListByType(ctx context.Context, txType string, since time.Time) ([]domain.InventoryTransaction, error) {
	query := `
		SELECT id, COALESCE(material_id, 0) AS material_id, occurred_at, quantity, transaction_type
		FROM inventory_transactions
		WHERE LOWER(transaction_type) = LOWER($1)
	`
	args := []interface{}{txType}
	if !since.IsZero() {
		query += ` AND occurred_at >= $2`
		args = append(args, since)
	}
	query += ` ORDER BY occurred_at, id`

	var transactions []domain.InventoryTransaction
	if err := r.db.SelectContext(ctx, &transactions, query, args...); err != nil {
		return nil, fmt.Errorf("error listing %s transactions: %w", txType, err)
	}
	return transactions, nil
}

func (r *ledgerRepository) ListActive(ctx context.Context) ([]domain.BOMEntry, error) {
	query := `
		SELECT b.id, b.product_id, COALESCE(b.material_id, 0) AS material_id,
		       b.quantity_per_unit, b.is_active
		FROM bom_entries b
		JOIN products p ON p.id = b.product_id
		WHERE b.is_active
		ORDER BY b.material_id, b.product_id
	`

	var entries []domain.BOMEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("error listing active bom entries: %w", err)
	}
	return entries, nil
}

func (r *ledgerRepository) List(ctx context.Context) ([]domain.Material, error) {
	query := `
		SELECT id, name, unit, current_stock, critical_stock, reorder_level,
		       max_level, created_at, updated_at
		FROM materials
		ORDER BY id
	`

	var materials []domain.Material
	if err := r.db.SelectContext(ctx, &materials, query); err != nil {
		return nil, fmt.Errorf("error listing materials: %w", err)
	}
	return materials, nil
}
