// Package importer loads reference ingredients from a two-column CSV file
// (name, measurement_unit) without a header row.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"foodgram/internal/store"
	"foodgram/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// FileName is the ingredient file expected inside the data directory
const FileName = "ingredients.csv"

// Result counts what an import did
type Result struct {
	Created int // New (name, unit) pairs
	Skipped int // Pairs that already existed
}

// Importer upserts ingredients into the store
type Importer struct {
	store *store.Store
	rdb   *redis.Client // Cache to invalidate, may be nil
}

// New creates an importer
func New(s *store.Store, rdb *redis.Client) *Importer {
	return &Importer{store: s, rdb: rdb}
}

// ImportFile imports the CSV at path
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return im.Import(ctx, f)
}

// Import reads rows from r and ensures each (name, unit) pair exists. Rows are
// applied one by one; a malformed row stops the import and reports its line.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	var res Result
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Column count is checked per row for a clearer error
	reader.TrimLeadingSpace = true

	// Ingredient lookups may be stale once anything was written
	defer func() {
		if res.Created == 0 {
			return
		}
		if err := utils.DeleteCachePrefix(ctx, im.rdb, utils.IngredientCachePrefix); err != nil {
			logrus.WithError(err).Warn("Failed to invalidate ingredient cache")
		}
	}()

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if len(row) < 2 {
			return res, fmt.Errorf("line %d: expected name,measurement_unit", line)
		}
		name, unit := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
		if name == "" || unit == "" {
			return res, fmt.Errorf("line %d: name and measurement_unit must not be empty", line)
		}
		created, err := im.store.EnsureIngredient(ctx, name, unit)
		if err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}
		if created {
			res.Created++
		} else {
			res.Skipped++
		}
	}
}
