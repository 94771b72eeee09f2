package output

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxlytics/taxlytics/internal/calculation"
	"github.com/taxlytics/taxlytics/internal/domain"
)

func sampleReport(t *testing.T) *domain.AggregateReport {
	t.Helper()
	ds, err := calculation.NewGenerator().Generate(42, 100)
	require.NoError(t, err)
	return calculation.RunFullAnalysis(ds)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1234.50", FormatCurrency(decimal.NewFromFloat(1234.5)))
	assert.Equal(t, "$0.00", FormatCurrency(decimal.Zero))
	assert.Equal(t, "$-42.00", FormatCurrency(decimal.NewFromInt(-42)))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "22.50%", FormatPercentage(decimal.NewFromFloat(22.5)))
	assert.Equal(t, "0.00%", FormatPercentage(decimal.Zero))
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"console", "console"},
		{"CONSOLE", "console"},
		{"text", "console"},
		{"json", "json"},
		{"json-pretty", "json"},
		{"csv", "csv"},
		{"state-csv", "csv"},
		{" csv-state ", "csv"},
	}
	for _, tt := range tests {
		f := GetFormatterByName(tt.in)
		require.NotNil(t, f, "GetFormatterByName(%q)", tt.in)
		assert.Equal(t, tt.want, f.Name())
	}

	assert.Nil(t, GetFormatterByName("xml"))
}

func TestAvailableFormatterNames(t *testing.T) {
	assert.Equal(t, []string{"console", "csv", "json"}, AvailableFormatterNames())
}

func TestConsoleFormatterSections(t *testing.T) {
	rep := sampleReport(t)

	data, err := ConsoleFormatter{}.Format(rep)
	require.NoError(t, err)
	text := string(data)

	for _, title := range []string{
		"EXECUTIVE SUMMARY",
		"INCOME DISTRIBUTION",
		"TAX RATE ANALYSIS",
		"DEDUCTION ANALYSIS",
		"REFUND / AMOUNT OWED ANALYSIS",
		"STATE-LEVEL COMPARISON",
		"CAPITAL GAINS & DIVIDENDS",
		"DEPENDENTS & CREDITS",
		"FICA / PAYROLL TAX ANALYSIS",
	} {
		assert.Contains(t, text, title)
	}

	assert.Contains(t, text, "Total Taxpayers")
	assert.Contains(t, text, "100")
}

func TestConsoleFormatterEmptyReport(t *testing.T) {
	rep := calculation.RunFullAnalysis(nil)

	data, err := ConsoleFormatter{}.Format(rep)
	require.NoError(t, err)
	assert.Contains(t, string(data), "(no data)")
}

func TestBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat("#", 30)+"]", bar(10, 10))
	assert.Equal(t, "["+strings.Repeat("-", 30)+"]", bar(0, 10))
	assert.Equal(t, "["+strings.Repeat("#", 15)+strings.Repeat("-", 15)+"]", bar(5, 10))
	// Zero max never divides.
	assert.Equal(t, "["+strings.Repeat("-", 30)+"]", bar(0, 0))
}

func TestJSONFormatter(t *testing.T) {
	rep := sampleReport(t)

	data, err := JSONFormatter{}.Format(rep)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, key := range []string{
		"summary", "income", "tax_rates", "deductions", "refunds",
		"by_state", "capital_gains", "credits_dependents", "fica",
	} {
		assert.Contains(t, decoded, key)
	}

	var summary struct {
		TotalTaxpayers int `json:"total_taxpayers"`
	}
	require.NoError(t, json.Unmarshal(decoded["summary"], &summary))
	assert.Equal(t, 100, summary.TotalTaxpayers)
}

func TestStateCSVFormatter(t *testing.T) {
	rep := sampleReport(t)

	data, err := StateCSVFormatter{}.Format(rep)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	assert.Equal(t, []string{
		"state", "count", "avg_income", "avg_state_tax", "avg_federal_tax",
		"avg_total_tax", "avg_effective_rate", "total_state_revenue",
	}, rows[0])

	assert.Equal(t, len(rep.ByState), len(rows)-1)

	// States sorted ascending.
	for i := 2; i < len(rows); i++ {
		assert.Less(t, rows[i-1][0], rows[i][0])
	}
}
