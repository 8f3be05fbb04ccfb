package repository

import (
	"context"
	"fmt"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
	"github.com/andresuchdata/furnicast/backend-go/internal/ledger"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// IngestRepository loads ledger datasets into the database.
type IngestRepository struct {
	db *sqlx.DB
}

func NewIngestRepository(db *sqlx.DB) *IngestRepository {
	return &IngestRepository{db: db}
}

// Import writes ds in a single transaction. Materials, products and
// transactions are upserted by id. A non-empty BOM replaces the stored BOM,
// and production outputs replace the stored rows of the dates they cover.
func (r *IngestRepository) Import(ctx context.Context, ds *ledger.Dataset) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin import transaction: %w", err)
	}

	if err := importDataset(ctx, tx, ds); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("could not rollback import transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit import: %w", err)
	}

	log.Info().
		Int("materials", len(ds.Materials)).
		Int("products", len(ds.Products)).
		Int("bom_entries", len(ds.BOM)).
		Int("outputs", len(ds.Outputs)).
		Int("transactions", len(ds.Transactions)).
		Msg("ledger import committed")
	return nil
}

func importDataset(ctx context.Context, tx *sqlx.Tx, ds *ledger.Dataset) error {
	for i := range ds.Materials {
		if err := upsertMaterial(ctx, tx, &ds.Materials[i]); err != nil {
			return err
		}
	}
	for i := range ds.Products {
		if err := upsertProduct(ctx, tx, &ds.Products[i]); err != nil {
			return err
		}
	}
	if len(ds.BOM) > 0 {
		if err := replaceBOM(ctx, tx, ds.BOM); err != nil {
			return err
		}
	}
	if len(ds.Outputs) > 0 {
		if err := replaceOutputs(ctx, tx, ds.Outputs); err != nil {
			return err
		}
	}
	for i := range ds.Transactions {
		if err := upsertTransaction(ctx, tx, &ds.Transactions[i]); err != nil {
			return err
		}
	}
	return nil
}

func upsertMaterial(ctx context.Context, tx *sqlx.Tx, m *domain.Material) error {
	query := `
		INSERT INTO materials (id, name, unit, current_stock, critical_stock, reorder_level, max_level, updated_at)
		VALUES (:id, :name, :unit, :current_stock, :critical_stock, :reorder_level, :max_level, NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			unit = EXCLUDED.unit,
			current_stock = EXCLUDED.current_stock,
			critical_stock = EXCLUDED.critical_stock,
			reorder_level = EXCLUDED.reorder_level,
			max_level = EXCLUDED.max_level,
			updated_at = NOW()
	`
	if _, err := tx.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to upsert material %d: %w", m.ID, err)
	}
	return nil
}

func upsertProduct(ctx context.Context, tx *sqlx.Tx, p *domain.Product) error {
	query := `
		INSERT INTO products (id, name)
		VALUES (:id, :name)
		ON CONFLICT (id)
		DO UPDATE SET name = EXCLUDED.name
	`
	if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("failed to upsert product %d: %w", p.ID, err)
	}
	return nil
}

func replaceBOM(ctx context.Context, tx *sqlx.Tx, entries []domain.BOMEntry) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM bom_entries`); err != nil {
		return fmt.Errorf("failed to clear bom entries: %w", err)
	}

	query := `
		INSERT INTO bom_entries (product_id, material_id, quantity_per_unit, is_active)
		VALUES ($1, NULLIF($2::bigint, 0), $3, $4)
	`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, query, e.ProductID, e.MaterialID, e.QuantityPerUnit, e.IsActive); err != nil {
			return fmt.Errorf("failed to insert bom entry %d/%d: %w", e.ProductID, e.MaterialID, err)
		}
	}
	return nil
}

func replaceOutputs(ctx context.Context, tx *sqlx.Tx, samples []domain.OutputSample) error {
	seen := make(map[string]bool)
	for _, s := range samples {
		key := domain.DayKey(s.Date)
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, err := tx.ExecContext(ctx, `DELETE FROM production_outputs WHERE output_date = $1`, key); err != nil {
			return fmt.Errorf("failed to clear outputs for %s: %w", key, err)
		}
	}

	query := `INSERT INTO production_outputs (output_date, quantity_produced) VALUES ($1, $2)`
	for _, s := range samples {
		if _, err := tx.ExecContext(ctx, query, domain.DayKey(s.Date), s.QuantityProduced); err != nil {
			return fmt.Errorf("failed to insert output for %s: %w", domain.DayKey(s.Date), err)
		}
	}
	return nil
}

func upsertTransaction(ctx context.Context, tx *sqlx.Tx, t *domain.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (id, material_id, occurred_at, quantity, transaction_type)
		VALUES ($1, NULLIF($2::bigint, 0), $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET
			material_id = EXCLUDED.material_id,
			occurred_at = EXCLUDED.occurred_at,
			quantity = EXCLUDED.quantity,
			transaction_type = EXCLUDED.transaction_type
	`
	if _, err := tx.ExecContext(ctx, query, t.ID, t.MaterialID, t.Timestamp, t.Quantity, t.TransactionType); err != nil {
		return fmt.Errorf("failed to upsert transaction %d: %w", t.ID, err)
	}
	return nil
}
