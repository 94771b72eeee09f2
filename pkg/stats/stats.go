// Package stats provides descriptive statistics over decimal value sequences.
package stats

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Summary holds the descriptive statistics of a value sequence. All fields
// except Count are rounded to 2 decimal places. The zero Summary represents an
// empty input and marshals as an empty JSON object.
type Summary struct {
	Count  int             `json:"count"`
	Mean   decimal.Decimal `json:"mean"`
	Median decimal.Decimal `json:"median"`
	Stdev  decimal.Decimal `json:"stdev"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	Total  decimal.Decimal `json:"total"`
}

// Empty reports whether the summary was computed from no values.
func (s Summary) Empty() bool { return s.Count == 0 }

// MarshalJSON emits {} for an empty summary so downstream consumers can treat
// "no data" uniformly.
func (s Summary) MarshalJSON() ([]byte, error) {
	if s.Empty() {
		return []byte("{}"), nil
	}
	type summary Summary // shed the method set to avoid recursion
	return json.Marshal(summary(s))
}

// Describe computes count, mean, median, sample standard deviation, min, max
// and total for values. The result is invariant under reordering of values.
// An empty input yields the zero Summary.
func Describe(values []decimal.Decimal) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := append([]decimal.Decimal(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	n := len(sorted)
	total := decimal.Zero
	for _, v := range sorted {
		total = total.Add(v)
	}
	mean := total.Div(decimal.NewFromInt(int64(n)))

	return Summary{
		Count:  n,
		Mean:   mean.Round(2),
		Median: median(sorted).Round(2),
		Stdev:  sampleStdev(sorted, mean).Round(2),
		Min:    sorted[0].Round(2),
		Max:    sorted[n-1].Round(2),
		Total:  total.Round(2),
	}
}

// median expects sorted input.
func median(sorted []decimal.Decimal) decimal.Decimal {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}

// sampleStdev computes the n-1 denominator standard deviation, 0 for a single
// value. The square root is taken in float64; inputs are dollar or percent
// magnitudes, well within float64 precision.
func sampleStdev(values []decimal.Decimal, mean decimal.Decimal) decimal.Decimal {
	n := len(values)
	if n < 2 {
		return decimal.Zero
	}
	sumSq := decimal.Zero
	for _, v := range values {
		d := v.Sub(mean)
		sumSq = sumSq.Add(d.Mul(d))
	}
	variance := sumSq.Div(decimal.NewFromInt(int64(n - 1)))
	return decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
}
