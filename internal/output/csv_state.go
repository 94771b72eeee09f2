package output

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/taxlytics/taxlytics/internal/domain"
)

// StateCSVFormatter exports the by_state section as CSV, one row per state in
// ascending state code order.
type StateCSVFormatter struct{}

func (c StateCSVFormatter) Name() string { return "csv" }

func (c StateCSVFormatter) Format(report *domain.AggregateReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"state", "count", "avg_income", "avg_state_tax", "avg_federal_tax", "avg_total_tax", "avg_effective_rate", "total_state_revenue"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	states := make([]string, 0, len(report.ByState))
	for state := range report.ByState {
		states = append(states, state)
	}
	sort.Strings(states)

	for _, state := range states {
		s := report.ByState[state]
		row := []string{
			state,
			strconv.Itoa(s.Count),
			s.AvgIncome.StringFixed(2),
			s.AvgStateTax.StringFixed(2),
			s.AvgFederalTax.StringFixed(2),
			s.AvgTotalTax.StringFixed(2),
			s.AvgEffectiveRate.StringFixed(2),
			s.TotalStateRevenue.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
