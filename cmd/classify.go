package main

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/geostat-cli/internal/classify"
	"github.com/sells-group/geostat-cli/internal/geodata"
	"github.com/sells-group/geostat-cli/internal/model"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a shapefile attribute into choropleth classes",
	Long: `Reads a numeric attribute from a shapefile and partitions it into k ordered
classes using the selected scheme (quantiles, equal_interval, fisher_jenks,
maximum_breaks, unique_values). Prints the bin table and fit statistics and
records the run in the local database.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		shpPath, _ := cmd.Flags().GetString("shapefile")
		field, _ := cmd.Flags().GetString("field")
		schemeName, _ := cmd.Flags().GetString("scheme")
		k, _ := cmd.Flags().GetInt("k")
		noStore, _ := cmd.Flags().GetBool("no-store")

		if schemeName == "" {
			schemeName = cfg.Classify.Scheme
		}
		if k == 0 {
			k = cfg.Classify.K
		}

		scheme, err := classify.ParseScheme(schemeName)
		if err != nil {
			return err
		}

		table, err := geodata.ReadTable(shpPath, []string{field}, "")
		if err != nil {
			return err
		}
		sample, err := droppedColumn(table, field)
		if err != nil {
			return err
		}

		result, err := classify.Classify(sample, scheme, k)
		if err != nil {
			return eris.Wrapf(err, "classify %s", field)
		}

		printClassification(field, sample, result)

		if !noStore {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			run := &model.Run{
				Source:     shpPath,
				Field:      field,
				Scheme:     result.Scheme.String(),
				K:          result.K,
				Bins:       result.Bins,
				Counts:     result.Counts,
				FitMeasure: result.FitMeasure,
				GVF:        result.GVF,
			}
			if err := st.SaveRun(ctx, run); err != nil {
				return err
			}
			zap.L().Info("classification run saved", zap.String("run_id", run.ID))
		}

		return nil
	},
}

var classifyCompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare all classification schemes on one attribute",
	Long: `Runs quantiles, equal_interval, fisher_jenks, and maximum_breaks with the
same k over one attribute, concurrently, and ranks them by fit.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		shpPath, _ := cmd.Flags().GetString("shapefile")
		field, _ := cmd.Flags().GetString("field")
		k, _ := cmd.Flags().GetInt("k")
		if k == 0 {
			k = cfg.Classify.K
		}

		table, err := geodata.ReadTable(shpPath, []string{field}, "")
		if err != nil {
			return err
		}
		sample, err := droppedColumn(table, field)
		if err != nil {
			return err
		}

		var mu sync.Mutex
		results := make(map[classify.Scheme]*classify.Result)

		g, _ := errgroup.WithContext(cmd.Context())
		for _, scheme := range classify.AllSchemes() {
			g.Go(func() error {
				r, err := classify.Classify(sample, scheme, k)
				if err != nil {
					// Schemes that cannot produce k classes for this sample
					// (e.g. too few distinct values) drop out of the table.
					zap.L().Warn("scheme skipped",
						zap.String("scheme", scheme.String()),
						zap.Error(err),
					)
					return nil
				}
				mu.Lock()
				results[scheme] = r
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if len(results) == 0 {
			return eris.Errorf("no scheme could classify %s into %d classes", field, k)
		}

		printComparison(field, k, results)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{classifyCmd, classifyCompareCmd} {
		c.Flags().String("shapefile", "", "path to the .shp file (required)")
		c.Flags().String("field", "", "numeric attribute to classify (required)")
		c.Flags().Int("k", 0, "number of classes (default: from config)")
		_ = c.MarkFlagRequired("shapefile")
		_ = c.MarkFlagRequired("field")
	}
	classifyCmd.Flags().String("scheme", "", "classification scheme (default: from config)")
	classifyCmd.Flags().Bool("no-store", false, "do not record the run")

	classifyCmd.AddCommand(classifyCompareCmd)
	rootCmd.AddCommand(classifyCmd)
}

// printClassification renders the bin table for a single result.
func printClassification(field string, sample []float64, r *classify.Result) {
	fmt.Printf("%s: %s, k=%d, n=%s\n\n", field, r.Scheme, r.K, printer.Sprintf("%d", len(sample)))

	fmt.Printf("%-8s %15s %10s\n", "class", "upper bound", "count")
	fmt.Println(strings.Repeat("-", 36))
	for j, b := range r.Bins {
		fmt.Printf("%-8d %15s %10s\n", j,
			printer.Sprintf("%.4g", b), printer.Sprintf("%d", r.Counts[j]))
	}
	fmt.Printf("\nfit (abs dev): %s   GVF: %.4f\n",
		printer.Sprintf("%.4g", r.FitMeasure), r.GVF)
}

// printComparison renders the scheme comparison ranked by absolute-deviation
// fit.
func printComparison(field string, k int, results map[classify.Scheme]*classify.Result) {
	type row struct {
		scheme classify.Scheme
		r      *classify.Result
	}
	rows := make([]row, 0, len(results))
	for s, r := range results {
		rows = append(rows, row{scheme: s, r: r})
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a].r.FitMeasure < rows[b].r.FitMeasure })

	fmt.Printf("%s, k=%d\n\n", field, k)
	fmt.Printf("%-16s %15s %10s\n", "scheme", "fit (abs dev)", "GVF")
	fmt.Println(strings.Repeat("-", 44))
	for _, row := range rows {
		fmt.Printf("%-16s %15s %10.4f\n", row.scheme,
			printer.Sprintf("%.4g", row.r.FitMeasure), row.r.GVF)
	}
}
