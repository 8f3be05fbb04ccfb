// Package ledger reads the forecast input ledgers from CSV files.
package ledger

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	MaterialsFile    = "materials.csv"
	ProductsFile     = "products.csv"
	BOMFile          = "bom.csv"
	OutputsFile      = "production_outputs.csv"
	TransactionsFile = "inventory_transactions.csv"
)

// Files lists every ledger file name in load order.
var Files = []string{MaterialsFile, ProductsFile, BOMFile, OutputsFile, TransactionsFile}

// FileName maps an uploaded or remote file name to the ledger file it holds.
// Matching ignores case and accepts .csv and .xlsx; ok is false for any
// other file.
func FileName(name string) (file string, ok bool) {
	base := strings.ToLower(filepath.Base(strings.TrimSpace(name)))
	ext := filepath.Ext(base)
	if ext != ".csv" && ext != ".xlsx" {
		return "", false
	}

	csvName := strings.TrimSuffix(base, ext) + ".csv"
	for _, f := range Files {
		if f == csvName {
			return f, true
		}
	}
	return "", false
}

// Dataset is one full set of forecast inputs.
type Dataset struct {
	Materials    []domain.Material
	Products     []domain.Product
	BOM          []domain.BOMEntry
	Outputs      []domain.OutputSample
	Transactions []domain.InventoryTransaction
}

// LoadDir reads every ledger file in dir. The material registry is required;
// the other files are optional and an absent file loads as empty.
func LoadDir(dir string) (*Dataset, error) {
	ds := &Dataset{}

	readers := []struct {
		file     string
		required bool
		read     func(io.Reader) error
	}{
		{MaterialsFile, true, func(r io.Reader) (err error) { ds.Materials, err = ReadMaterials(r); return }},
		{ProductsFile, false, func(r io.Reader) (err error) { ds.Products, err = ReadProducts(r); return }},
		{BOMFile, false, func(r io.Reader) (err error) { ds.BOM, err = ReadBOM(r); return }},
		{OutputsFile, false, func(r io.Reader) (err error) { ds.Outputs, err = ReadOutputs(r); return }},
		{TransactionsFile, false, func(r io.Reader) (err error) { ds.Transactions, err = ReadTransactions(r); return }},
	}

	for _, rd := range readers {
		path := filepath.Join(dir, rd.file)
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) && !rd.required {
			log.Warn().Str("file", path).Msg("ledger file not found, loading empty")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}

		err = rd.read(f)
		f.Close()
		if err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("dir", dir).
		Int("materials", len(ds.Materials)).
		Int("products", len(ds.Products)).
		Int("bom_entries", len(ds.BOM)).
		Int("outputs", len(ds.Outputs)).
		Int("transactions", len(ds.Transactions)).
		Msg("ledgers loaded")

	return ds, nil
}

func ReadMaterials(r io.Reader) ([]domain.Material, error) {
	t, err := readTable(r, MaterialsFile, "id", "current_stock")
	if err != nil {
		return nil, err
	}

	materials := make([]domain.Material, 0, len(t.rows))
	for i, row := range t.rows {
		m := domain.Material{Name: t.str(row, "name"), Unit: t.str(row, "unit")}
		if m.ID, err = t.requiredInt64(i, "id"); err != nil {
			return nil, err
		}
		if m.CurrentStock, err = t.float(i, "current_stock"); err != nil {
			return nil, err
		}
		if m.CriticalStock, err = t.float(i, "critical_stock"); err != nil {
			return nil, err
		}
		if m.ReorderLevel, err = t.float(i, "reorder_level"); err != nil {
			return nil, err
		}
		if m.MaxLevel, err = t.float(i, "max_level"); err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, nil
}

func ReadProducts(r io.Reader) ([]domain.Product, error) {
	t, err := readTable(r, ProductsFile, "id")
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(t.rows))
	for i, row := range t.rows {
		p := domain.Product{Name: t.str(row, "name")}
		if p.ID, err = t.requiredInt64(i, "id"); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// ReadBOM reads bill-of-materials rows. Rows without is_active are active.
func ReadBOM(r io.Reader) ([]domain.BOMEntry, error) {
	t, err := readTable(r, BOMFile, "product_id", "material_id", "quantity_per_unit")
	if err != nil {
		return nil, err
	}

	entries := make([]domain.BOMEntry, 0, len(t.rows))
	for i := range t.rows {
		e := domain.BOMEntry{}
		if e.ProductID, err = t.requiredInt64(i, "product_id"); err != nil {
			return nil, err
		}
		if e.MaterialID, err = t.int64(i, "material_id"); err != nil {
			return nil, err
		}
		if e.QuantityPerUnit, err = t.float(i, "quantity_per_unit"); err != nil {
			return nil, err
		}
		if e.QuantityPerUnit < 0 {
			return nil, t.rowErr(i, "quantity_per_unit", t.str(t.rows[i], "quantity_per_unit"), errors.New("must not be negative"))
		}
		if e.IsActive, err = t.boolean(i, "is_active", true); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func ReadOutputs(r io.Reader) ([]domain.OutputSample, error) {
	t, err := readTable(r, OutputsFile, "date", "quantity_produced")
	if err != nil {
		return nil, err
	}

	samples := make([]domain.OutputSample, 0, len(t.rows))
	for i := range t.rows {
		s := domain.OutputSample{}
		if s.Date, err = t.timestamp(i, "date"); err != nil {
			return nil, err
		}
		if s.QuantityProduced, err = t.int64(i, "quantity_produced"); err != nil {
			return nil, err
		}
		if s.QuantityProduced < 0 {
			return nil, t.rowErr(i, "quantity_produced", t.str(t.rows[i], "quantity_produced"), errors.New("must not be negative"))
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// ReadTransactions reads ledger entries. An empty material_id loads as 0, a
// missing material reference.
func ReadTransactions(r io.Reader) ([]domain.InventoryTransaction, error) {
	t, err := readTable(r, TransactionsFile, "material_id", "timestamp", "quantity", "transaction_type")
	if err != nil {
		return nil, err
	}

	transactions := make([]domain.InventoryTransaction, 0, len(t.rows))
	for i, row := range t.rows {
		tx := domain.InventoryTransaction{TransactionType: t.str(row, "transaction_type")}
		if t.has("id") {
			if tx.ID, err = t.int64(i, "id"); err != nil {
				return nil, err
			}
		}
		if tx.ID == 0 {
			tx.ID = int64(i + 1)
		}
		if tx.MaterialID, err = t.int64(i, "material_id"); err != nil {
			return nil, err
		}
		if tx.Timestamp, err = t.timestamp(i, "timestamp"); err != nil {
			return nil, err
		}
		if tx.Quantity, err = t.float(i, "quantity"); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}
