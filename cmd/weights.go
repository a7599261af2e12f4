package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/geostat-cli/internal/geodata"
	"github.com/sells-group/geostat-cli/internal/weights"
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Build k-nearest-neighbor spatial weights from a shapefile",
	Long: `Builds a KNN spatial weights matrix over the shapefile's record centroids
and reports its connectivity. With --field, also reports global Moran's I of
that attribute under the weights.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		shpPath, _ := cmd.Flags().GetString("shapefile")
		field, _ := cmd.Flags().GetString("field")
		k, _ := cmd.Flags().GetInt("k")
		if k == 0 {
			k = cfg.Weights.KNearest
		}

		var fields []string
		if field != "" {
			fields = []string{field}
		}
		table, err := geodata.ReadTable(shpPath, fields, "")
		if err != nil {
			return err
		}

		w, err := buildWeights(table, k)
		if err != nil {
			return err
		}

		s := w.Summary()
		fmt.Printf("knn weights: k=%d, n=%s\n\n", k, printer.Sprintf("%d", s.N))
		fmt.Printf("%-20s %10s\n", "neighbors (min)", printer.Sprintf("%d", s.MinNeighbors))
		fmt.Printf("%-20s %10s\n", "neighbors (max)", printer.Sprintf("%d", s.MaxNeighbors))
		fmt.Printf("%-20s %10.2f\n", "neighbors (mean)", s.MeanNeighbors)
		fmt.Printf("%-20s %10s\n", "asymmetric pairs", printer.Sprintf("%d", s.AsymmetricPairs))

		if field != "" {
			x, err := completeColumn(table, field)
			if err != nil {
				return err
			}
			m, err := weights.MoranI(x, w)
			if err != nil {
				return err
			}
			fmt.Printf("\nmoran's i (%s)\n", field)
			fmt.Println(strings.Repeat("-", 30))
			fmt.Printf("%-12s %12.4f\n", "I", m.I)
			fmt.Printf("%-12s %12.4f\n", "E[I]", m.Expected)
			fmt.Printf("%-12s %12.4f\n", "z-score", m.Z)
		}

		return nil
	},
}

func init() {
	weightsCmd.Flags().String("shapefile", "", "path to the .shp file (required)")
	weightsCmd.Flags().Int("k", 0, "neighbors per observation (default: from config)")
	weightsCmd.Flags().String("field", "", "attribute to test for spatial autocorrelation")
	_ = weightsCmd.MarkFlagRequired("shapefile")
	rootCmd.AddCommand(weightsCmd)
}
