package features

import (
	"math"
	"strconv"
	"time"

	"github.com/flightcast/flightcast/internal/geo"
	"github.com/flightcast/flightcast/internal/wx"
)

// Vector is a feature row in schema column order
type Vector []float64

// Build converts an hourly observation plus temporal context into the
// model's input row. The output always has exactly schema.Len() values in
// schema order: one-hot columns carry 0/1, everything the observation could
// not resolve to a number carries the Missing sentinel.
func Build(obs wx.Observation, arrival time.Time, distanceKm float64, schema *Schema) Vector {
	attrs := make(map[string]any, len(obs)+5)
	for k, v := range obs {
		attrs[k] = v
	}

	attrs["hours"] = arrival.Hour()
	attrs["minutes"] = arrival.Minute()
	attrs["day"] = arrival.Day()
	attrs["month"] = int(arrival.Month())

	// list-valued precipitation has single-valued categorical semantics
	if list, ok := attrs["preciptype"].([]any); ok {
		if len(list) > 0 {
			attrs["preciptype"] = list[0]
		} else {
			delete(attrs, "preciptype")
		}
	}

	// station lists are not a model feature
	delete(attrs, "stations")

	attrs["distance"] = geo.KmToMiles(distanceKm)

	// active one-hot columns for this observation, e.g. "icon_rain"
	active := make(map[string]bool, len(categoricalFields))
	for _, field := range categoricalFields {
		v, ok := attrs[field]
		if !ok || v == nil {
			continue
		}
		active[field+"_"+categoryLabel(v)] = true
		delete(attrs, field)
	}

	vec := make(Vector, schema.Len())
	for i, col := range schema.Columns() {
		switch {
		case isOneHot(col):
			if active[col] {
				vec[i] = 1
			}
		default:
			if num, ok := numericValue(attrs[col]); ok {
				vec[i] = num
			} else {
				vec[i] = Missing
			}
		}
	}

	return vec
}

// categoryLabel renders a categorical value the way the training encoding
// named its one-hot columns
func categoryLabel(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// numericValue coerces an observation attribute to a float64 feature value
func numericValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
