// Package features converts raw weather observations plus temporal context
// into the fixed-width vectors the regression model was trained on.
package features

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
)

// Categorical fields that were one-hot expanded in the training data.
// Their encoded columns are named "<field>_<value>".
var categoricalFields = []string{"preciptype", "icon", "month", "day", "hours"}

// Missing is the sentinel for a numeric gap the observation could not fill.
// It matches how the training data encoded "unknown"; absent one-hot columns
// are filled with 0 instead.
const Missing = -999.0

// Schema is the ordered training column list. It defines the exact feature
// contract between the builder and the model and is immutable after load.
type Schema struct {
	columns []string
	index   map[string]int
}

// LoadSchema reads the training column list from the header of the training
// data CSV. Loaded once at startup.
func LoadSchema(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema file: %w", err)
	}
	defer f.Close()

	dec, err := csvutil.NewDecoder(csv.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to read schema header: %w", err)
	}

	return NewSchema(dec.Header())
}

// NewSchema builds a schema from an explicit column list
func NewSchema(columns []string) (*Schema, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("schema has no columns")
	}

	cols := make([]string, len(columns))
	copy(cols, columns)

	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}

	return &Schema{columns: cols, index: index}, nil
}

// Columns returns the column names in schema order
func (s *Schema) Columns() []string {
	return s.columns
}

// Len returns the number of columns
func (s *Schema) Len() int {
	return len(s.columns)
}

// isOneHot reports whether the column is a one-hot expansion of one of the
// categorical fields
func isOneHot(column string) bool {
	for _, field := range categoricalFields {
		if strings.HasPrefix(column, field+"_") {
			return true
		}
	}
	return false
}
