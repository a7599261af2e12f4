package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/geostat-cli/internal/geodata"
	"github.com/sells-group/geostat-cli/internal/regress"
	"github.com/sells-group/geostat-cli/internal/weights"
)

var regressCmd = &cobra.Command{
	Use:   "regress",
	Short: "Spatial regression over shapefile attributes",
}

var regressOlsCmd = &cobra.Command{
	Use:   "ols",
	Short: "OLS with optional spatial diagnostics and lagged regressors",
	Long: `Estimates y = a + Xb by ordinary least squares. With --wk, builds KNN
weights and reports Moran's I of the residuals; --slx additionally appends the
spatial lags of the regressors (the SLX specification).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		shpPath, _ := cmd.Flags().GetString("shapefile")
		yField, _ := cmd.Flags().GetString("y")
		xFields, _ := cmd.Flags().GetStringSlice("x")
		wk, _ := cmd.Flags().GetInt("wk")
		slx, _ := cmd.Flags().GetBool("slx")

		table, y, cols, err := loadRegressionData(shpPath, yField, xFields)
		if err != nil {
			return err
		}

		var w *weights.W
		if wk > 0 || slx {
			if wk == 0 {
				wk = cfg.Weights.KNearest
			}
			if w, err = buildWeights(table, wk); err != nil {
				return err
			}
		}

		names := xFields
		if slx {
			lagged, laggedNames, err := regress.LagColumns(w, cols, xFields)
			if err != nil {
				return err
			}
			cols = append(cols, lagged...)
			names = append(append([]string{}, xFields...), laggedNames...)
		}

		fit, err := regress.OLS(y, cols, names)
		if err != nil {
			return err
		}
		printFit(yField, fit)

		if w != nil {
			m, err := fit.SpatialDiagnostics(w)
			if err != nil {
				return err
			}
			printResidualDiagnostics(wk, m)
		}
		return nil
	},
}

var regressLagCmd = &cobra.Command{
	Use:   "lag",
	Short: "Spatial-lag model estimated by two-stage least squares",
	Long: `Estimates y = a + Xb + rho*W y, instrumenting the endogenous lag W y with
spatially lagged exogenous regressors (WX, W^2 X, ...).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		shpPath, _ := cmd.Flags().GetString("shapefile")
		yField, _ := cmd.Flags().GetString("y")
		xFields, _ := cmd.Flags().GetStringSlice("x")
		wk, _ := cmd.Flags().GetInt("wk")
		lags, _ := cmd.Flags().GetInt("instrument-lags")

		if wk == 0 {
			wk = cfg.Weights.KNearest
		}
		if lags == 0 {
			lags = cfg.Regress.InstrumentLags
		}

		table, y, cols, err := loadRegressionData(shpPath, yField, xFields)
		if err != nil {
			return err
		}
		w, err := buildWeights(table, wk)
		if err != nil {
			return err
		}

		fit, err := regress.SpatialLag(y, cols, xFields, yField, w, lags)
		if err != nil {
			return err
		}
		printFit(yField, fit)

		m, err := fit.SpatialDiagnostics(w)
		if err != nil {
			return err
		}
		printResidualDiagnostics(wk, m)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{regressOlsCmd, regressLagCmd} {
		c.Flags().String("shapefile", "", "path to the .shp file (required)")
		c.Flags().String("y", "", "dependent variable field (required)")
		c.Flags().StringSlice("x", nil, "explanatory variable fields (required)")
		c.Flags().Int("wk", 0, "KNN neighbors for the weights matrix")
		_ = c.MarkFlagRequired("shapefile")
		_ = c.MarkFlagRequired("y")
		_ = c.MarkFlagRequired("x")
	}
	regressOlsCmd.Flags().Bool("slx", false, "append spatially lagged regressors")
	regressLagCmd.Flags().Int("instrument-lags", 0, "instrument lag order (default: from config)")

	regressCmd.AddCommand(regressOlsCmd, regressLagCmd)
	rootCmd.AddCommand(regressCmd)
}

// loadRegressionData reads the dependent and explanatory columns, requiring
// complete data.
func loadRegressionData(shpPath, yField string, xFields []string) (*geodata.Table, []float64, [][]float64, error) {
	table, err := geodata.ReadTable(shpPath, append([]string{yField}, xFields...), "")
	if err != nil {
		return nil, nil, nil, err
	}

	y, err := completeColumn(table, yField)
	if err != nil {
		return nil, nil, nil, err
	}
	cols := make([][]float64, len(xFields))
	for i, f := range xFields {
		if cols[i], err = completeColumn(table, f); err != nil {
			return nil, nil, nil, err
		}
	}
	return table, y, cols, nil
}

// printFit renders the coefficient table of a fit.
func printFit(yField string, fit *regress.Fit) {
	fmt.Printf("%s: %s, n=%s, df=%d\n\n", yField, fit.Method,
		printer.Sprintf("%d", fit.N), fit.DF)

	fmt.Printf("%-16s %12s %12s %10s\n", "variable", "coeff", "std err", "t")
	fmt.Println(strings.Repeat("-", 54))
	for j, name := range fit.Names {
		fmt.Printf("%-16s %12.5f %12.5f %10.3f\n",
			name, fit.Coeffs[j], fit.StdErrs[j], fit.TStats[j])
	}
	fmt.Printf("\nR2: %.4f   adj R2: %.4f   sigma2: %s\n",
		fit.R2, fit.AdjR2, printer.Sprintf("%.4g", fit.Sigma2))
}

// printResidualDiagnostics renders Moran's I of the residuals.
func printResidualDiagnostics(wk int, m *weights.Moran) {
	fmt.Printf("\nresidual moran's i (knn k=%d)\n", wk)
	fmt.Println(strings.Repeat("-", 30))
	fmt.Printf("%-12s %12.4f\n", "I", m.I)
	fmt.Printf("%-12s %12.4f\n", "E[I]", m.Expected)
	fmt.Printf("%-12s %12.4f\n", "z-score", m.Z)
}
