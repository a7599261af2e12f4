// Package model defines the persisted record types shared by the store and
// the CLI.
package model

import "time"

// Run records one classification invocation: the data it ran over, the scheme
// parameters, and the resulting bins and fit statistics. Runs are immutable
// once saved.
type Run struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Field  string `json:"field" yaml:"field"`

	Scheme string `json:"scheme" yaml:"scheme"`
	K      int    `json:"k" yaml:"k"`

	Bins       []float64 `json:"bins" yaml:"bins"`
	Counts     []int     `json:"counts" yaml:"counts"`
	FitMeasure float64   `json:"fit_measure" yaml:"fit_measure"`
	GVF        float64   `json:"gvf" yaml:"gvf"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
