package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
	"github.com/andresuchdata/furnicast/backend-go/internal/ledger"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository"
)

// LedgerRepository keeps the forecast input ledgers in memory.
type LedgerRepository struct {
	mu           sync.RWMutex
	materials    map[int64]domain.Material
	products     map[int64]domain.Product
	bom          []domain.BOMEntry
	outputs      []domain.OutputSample
	transactions []domain.InventoryTransaction
}

// Verify interface compliance
var _ repository.OutputRepository = (*LedgerRepository)(nil)
var _ repository.TransactionRepository = (*LedgerRepository)(nil)
var _ repository.BOMRepository = (*LedgerRepository)(nil)
var _ repository.MaterialRepository = (*LedgerRepository)(nil)

// NewLedgerRepository creates an empty ledger repository
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		materials: make(map[int64]domain.Material),
		products:  make(map[int64]domain.Product),
	}
}

// Load adds every row of a ledger dataset.
func (r *LedgerRepository) Load(ds *ledger.Dataset) {
	r.AddMaterials(ds.Materials...)
	r.AddProducts(ds.Products...)
	r.AddBOMEntries(ds.BOM...)
	r.AddOutputs(ds.Outputs...)
	r.AddTransactions(ds.Transactions...)
}

// Import applies ds the way the database import does: materials, products
// and transactions are upserted by id, a non-empty BOM replaces the stored
// one and outputs replace the stored samples of the dates they cover.
func (r *LedgerRepository) Import(ctx context.Context, ds *ledger.Dataset) error {
	r.AddMaterials(ds.Materials...)
	r.AddProducts(ds.Products...)

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(ds.BOM) > 0 {
		r.bom = append([]domain.BOMEntry(nil), ds.BOM...)
	}

	if len(ds.Outputs) > 0 {
		covered := make(map[string]bool, len(ds.Outputs))
		for _, o := range ds.Outputs {
			covered[domain.DayKey(o.Date)] = true
		}
		kept := r.outputs[:0]
		for _, o := range r.outputs {
			if !covered[domain.DayKey(o.Date)] {
				kept = append(kept, o)
			}
		}
		r.outputs = append(kept, ds.Outputs...)
	}

	index := make(map[int64]int, len(r.transactions))
	for i, tx := range r.transactions {
		index[tx.ID] = i
	}
	for _, tx := range ds.Transactions {
		if i, ok := index[tx.ID]; ok {
			r.transactions[i] = tx
			continue
		}
		index[tx.ID] = len(r.transactions)
		r.transactions = append(r.transactions, tx)
	}

	return nil
}

// AddMaterials inserts or replaces materials by id.
func (r *LedgerRepository) AddMaterials(materials ...domain.Material) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range materials {
		r.materials[m.ID] = m
	}
}

// SetStock updates the current stock of a material.
func (r *LedgerRepository) SetStock(materialID int64, stock float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.materials[materialID]; ok {
		m.CurrentStock = stock
		r.materials[materialID] = m
	}
}

// AddProducts inserts or replaces products by id.
func (r *LedgerRepository) AddProducts(products ...domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range products {
		r.products[p.ID] = p
	}
}

// AddBOMEntries appends BOM entries.
func (r *LedgerRepository) AddBOMEntries(entries ...domain.BOMEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bom = append(r.bom, entries...)
}

// AddOutputs appends production samples.
func (r *LedgerRepository) AddOutputs(samples ...domain.OutputSample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs = append(r.outputs, samples...)
}

// AddTransactions appends ledger transactions.
func (r *LedgerRepository) AddTransactions(transactions ...domain.InventoryTransaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, transactions...)
}

func (r *LedgerRepository) ListDailyOutput(ctx context.Context) ([]domain.OutputSample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.OutputSample, len(r.outputs))
	copy(out, r.outputs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (r *LedgerRepository) ListByType(ctx context.Context, txType string, since time.Time) ([]domain.InventoryTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.InventoryTransaction
	for _, tx := range r.transactions {
		if !strings.EqualFold(tx.TransactionType, txType) {
			continue
		}
		if !since.IsZero() && tx.Timestamp.Before(since) {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// ListActive mirrors the inner join with products: entries whose product is
// unknown are left out.
func (r *LedgerRepository) ListActive(ctx context.Context) ([]domain.BOMEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.BOMEntry
	for _, e := range r.bom {
		if !e.IsActive {
			continue
		}
		if _, ok := r.products[e.ProductID]; !ok {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *LedgerRepository) List(ctx context.Context) ([]domain.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Material, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}
