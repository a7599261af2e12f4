package choropleth

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/geostat-cli/internal/classify"
)

// WriteXLSX exports the classified attribute table as a spreadsheet: one row
// per record with its label, raw value, class id, legend label, and color.
func WriteXLSX(path, field string, labels []string, values []float64, r *classify.Result, colors, legend []string) error {
	if len(labels) != len(values) || len(values) != len(r.ClassOf) {
		return eris.Errorf("choropleth: xlsx rows misaligned, %d labels %d values %d classes",
			len(labels), len(values), len(r.ClassOf))
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("classification")
	if err != nil {
		return eris.Wrap(err, "choropleth: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"name", field, "class", "legend", "color"} {
		header.AddCell().Value = h
	}

	for i, label := range labels {
		c := r.ClassOf[i]
		row := sheet.AddRow()
		row.AddCell().Value = label
		row.AddCell().SetFloat(values[i])
		row.AddCell().SetInt(c)
		row.AddCell().Value = legend[c]
		row.AddCell().Value = colors[c]
	}

	summary := sheet.AddRow()
	summary.AddCell().Value = "fit_measure"
	summary.AddCell().SetFloat(r.FitMeasure)

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "choropleth: save xlsx %s", path)
	}
	return nil
}
