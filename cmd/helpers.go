package main

import (
	"context"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/geostat-cli/internal/geodata"
	"github.com/sells-group/geostat-cli/internal/store"
	"github.com/sells-group/geostat-cli/internal/weights"
)

// printer formats numbers for human-facing tables with locale separators.
var printer = message.NewPrinter(language.English)

// openStore opens the configured run database and applies migrations.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// completeColumn fetches a column and rejects missing values; classification
// and regression need every record populated.
func completeColumn(t *geodata.Table, field string) ([]float64, error) {
	col, err := t.Column(field)
	if err != nil {
		return nil, err
	}
	for i, v := range col {
		if math.IsNaN(v) {
			return nil, eris.Errorf("field %s has a missing value at record %d (%s); clean the attribute table first",
				field, i, t.Labels[i])
		}
	}
	return col, nil
}

// droppedColumn fetches a column with missing values removed, for workflows
// that only need the bare sample. Logs how many records were dropped.
func droppedColumn(t *geodata.Table, field string) ([]float64, error) {
	col, err := t.Column(field)
	if err != nil {
		return nil, err
	}
	kept := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}
	if dropped := len(col) - len(kept); dropped > 0 {
		zap.L().Warn("dropping records with missing values",
			zap.String("field", field),
			zap.Int("dropped", dropped),
			zap.Int("kept", len(kept)),
		)
	}
	if len(kept) == 0 {
		return nil, eris.Errorf("field %s has no usable values", field)
	}
	return kept, nil
}

// buildWeights constructs the configured KNN weights for a table.
func buildWeights(t *geodata.Table, k int) (*weights.W, error) {
	w, err := weights.KNN(t.Centroids, k)
	if err != nil {
		return nil, err
	}
	if cfg.Weights.RowStandardize {
		w.RowStandardize()
	}
	return w, nil
}
