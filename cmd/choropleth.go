package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/sells-group/geostat-cli/internal/choropleth"
	"github.com/sells-group/geostat-cli/internal/classify"
	"github.com/sells-group/geostat-cli/internal/geodata"
)

var choroplethCmd = &cobra.Command{
	Use:   "choropleth",
	Short: "Generate choropleth map artifacts from a shapefile attribute",
	Long: `Classifies an attribute and writes map-ready artifacts: a GeoJSON
FeatureCollection with class and color properties, a self-contained Leaflet
HTML page, and an XLSX attribute table. Each output is selected by its flag.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		shpPath, _ := cmd.Flags().GetString("shapefile")
		field, _ := cmd.Flags().GetString("field")
		labelField, _ := cmd.Flags().GetString("label-field")
		schemeName, _ := cmd.Flags().GetString("scheme")
		k, _ := cmd.Flags().GetInt("k")
		paletteName, _ := cmd.Flags().GetString("palette")
		geojsonOut, _ := cmd.Flags().GetString("geojson")
		htmlOut, _ := cmd.Flags().GetString("html")
		xlsxOut, _ := cmd.Flags().GetString("xlsx")

		if geojsonOut == "" && htmlOut == "" && xlsxOut == "" {
			return eris.New("nothing to do: pass at least one of --geojson, --html, --xlsx")
		}
		if schemeName == "" {
			schemeName = cfg.Classify.Scheme
		}
		if k == 0 {
			k = cfg.Classify.K
		}
		if paletteName == "" {
			paletteName = cfg.Classify.Palette
		}

		scheme, err := classify.ParseScheme(schemeName)
		if err != nil {
			return err
		}

		table, err := geodata.ReadTable(shpPath, []string{field}, labelField)
		if err != nil {
			return err
		}
		// The map needs one class per record, so missing values are an error
		// here rather than being dropped.
		sample, err := completeColumn(table, field)
		if err != nil {
			return err
		}

		result, err := classify.Classify(sample, scheme, k)
		if err != nil {
			return eris.Wrapf(err, "classify %s", field)
		}

		colors, err := choropleth.Colors(paletteName, result.K)
		if err != nil {
			return err
		}
		legend := choropleth.Legend(result, floats.Min(sample))
		props := choropleth.FeatureProperties(field, sample, result, colors, legend)

		var geoJSON bytes.Buffer
		if err := geodata.WriteGeoJSON(&geoJSON, table, props); err != nil {
			return err
		}

		if geojsonOut != "" {
			if err := os.WriteFile(geojsonOut, geoJSON.Bytes(), 0o644); err != nil {
				return eris.Wrapf(err, "write %s", geojsonOut)
			}
			fmt.Printf("wrote %s\n", geojsonOut)
		}

		if htmlOut != "" {
			f, err := os.Create(htmlOut)
			if err != nil {
				return eris.Wrapf(err, "create %s", htmlOut)
			}
			werr := choropleth.WriteHTML(f, geoJSON.Bytes(), choropleth.MapOptions{
				Title:       fmt.Sprintf("%s (%s, k=%d)", field, result.Scheme, result.K),
				Field:       field,
				Colors:      colors,
				Labels:      legend,
				TileURL:     cfg.Map.TileURL,
				Attribution: cfg.Map.Attribution,
			})
			if cerr := f.Close(); werr == nil {
				werr = eris.Wrapf(cerr, "close %s", htmlOut)
			}
			if werr != nil {
				return werr
			}
			fmt.Printf("wrote %s\n", htmlOut)
		}

		if xlsxOut != "" {
			if err := choropleth.WriteXLSX(xlsxOut, field, table.Labels, sample, result, colors, legend); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", xlsxOut)
		}

		zap.L().Info("choropleth artifacts generated",
			zap.String("field", field),
			zap.String("scheme", result.Scheme.String()),
			zap.Int("k", result.K),
			zap.Int("records", table.N()),
		)
		return nil
	},
}

func init() {
	choroplethCmd.Flags().String("shapefile", "", "path to the .shp file (required)")
	choroplethCmd.Flags().String("field", "", "numeric attribute to map (required)")
	choroplethCmd.Flags().String("label-field", "", "attribute used as the record label")
	choroplethCmd.Flags().String("scheme", "", "classification scheme (default: from config)")
	choroplethCmd.Flags().Int("k", 0, "number of classes (default: from config)")
	choroplethCmd.Flags().String("palette", "", "color ramp name (default: from config)")
	choroplethCmd.Flags().String("geojson", "", "write classified GeoJSON to this path")
	choroplethCmd.Flags().String("html", "", "write a Leaflet HTML map to this path")
	choroplethCmd.Flags().String("xlsx", "", "write the classified attribute table to this path")
	_ = choroplethCmd.MarkFlagRequired("shapefile")
	_ = choroplethCmd.MarkFlagRequired("field")
	rootCmd.AddCommand(choroplethCmd)
}
