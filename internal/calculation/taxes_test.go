package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/taxlytics/taxlytics/internal/domain"
)

// twoBrackets is a minimal well-formed table: 10% to 10k, 20% above.
var twoBrackets = []TaxBracket{
	{decimal.NewFromInt(10000), decimal.NewFromFloat(0.10)},
	{noCeiling, decimal.NewFromFloat(0.20)},
}

func TestProgressiveTaxTwoBrackets(t *testing.T) {
	// 10000*0.10 + 5000*0.20 = 2000.00
	tax := ProgressiveTax(decimal.NewFromInt(15000), twoBrackets)
	assert.Equal(t, "2000.00", tax.StringFixed(2))

	rate := MarginalRate(decimal.NewFromInt(15000), twoBrackets)
	assert.Equal(t, "20", rate.String())
}

func TestProgressiveTaxNonPositiveIncome(t *testing.T) {
	assert.True(t, ProgressiveTax(decimal.Zero, twoBrackets).IsZero())
	assert.True(t, ProgressiveTax(decimal.NewFromInt(-5000), twoBrackets).IsZero())
}

func TestProgressiveTax2024Tables(t *testing.T) {
	tests := []struct {
		name     string
		income   decimal.Decimal
		brackets []TaxBracket
		expected string
	}{
		{
			name:     "single first bracket only",
			income:   decimal.NewFromInt(10000),
			brackets: BracketsSingle,
			expected: "1000.00",
		},
		{
			name:     "single exact bracket boundary",
			income:   decimal.NewFromInt(11600),
			brackets: BracketsSingle,
			expected: "1160.00",
		},
		{
			// 11600*0.10 + 35550*0.12 + 2850*0.22 = 6053.00
			name:     "single spanning three brackets",
			income:   decimal.NewFromInt(50000),
			brackets: BracketsSingle,
			expected: "6053.00",
		},
		{
			// 23200*0.10 + 26800*0.12 = 5536.00
			name:     "married spanning two brackets",
			income:   decimal.NewFromInt(50000),
			brackets: BracketsMarried,
			expected: "5536.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := ProgressiveTax(tt.income, tt.brackets)
			assert.Equal(t, tt.expected, tax.StringFixed(2))
		})
	}
}

func TestProgressiveTaxNonDecreasing(t *testing.T) {
	prev := decimal.Zero
	for income := 0; income <= 800000; income += 7919 {
		tax := ProgressiveTax(decimal.NewFromInt(int64(income)), BracketsSingle)
		assert.True(t, tax.GreaterThanOrEqual(prev),
			"tax decreased at income %d: %s < %s", income, tax, prev)
		prev = tax
	}
}

func TestProgressiveTaxContinuousAtBoundary(t *testing.T) {
	// Crossing a boundary by one cent adds at most one cent times the next rate.
	boundary := decimal.NewFromInt(47150)
	below := ProgressiveTax(boundary.Sub(decimal.NewFromFloat(0.01)), BracketsSingle)
	at := ProgressiveTax(boundary, BracketsSingle)
	diff := at.Sub(below)
	assert.True(t, diff.LessThanOrEqual(decimal.NewFromFloat(0.01)),
		"discontinuity at bracket boundary: %s", diff)
}

func TestMarginalRate(t *testing.T) {
	tests := []struct {
		name     string
		income   decimal.Decimal
		brackets []TaxBracket
		expected string
	}{
		{"zero income lands in first bracket", decimal.Zero, BracketsSingle, "10"},
		{"boundary belongs to lower bracket", decimal.NewFromInt(11600), BracketsSingle, "10"},
		{"single mid bracket", decimal.NewFromInt(50000), BracketsSingle, "22"},
		{"married mid bracket", decimal.NewFromInt(50000), BracketsMarried, "12"},
		{"top bracket", decimal.NewFromInt(2000000), BracketsSingle, "37"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MarginalRate(tt.income, tt.brackets).String())
		})
	}
}

func TestBracketsFor(t *testing.T) {
	assert.Equal(t, len(BracketsMarried), len(BracketsFor(domain.FilingMarried)))
	assert.True(t, BracketsFor(domain.FilingMarried)[0].Upper.Equal(decimal.NewFromInt(23200)))
	assert.True(t, BracketsFor(domain.FilingSingle)[0].Upper.Equal(decimal.NewFromInt(11600)))
	// HOH shares the single table.
	assert.True(t, BracketsFor(domain.FilingHOH)[0].Upper.Equal(decimal.NewFromInt(11600)))
}

func TestStandardDeductionFor(t *testing.T) {
	assert.Equal(t, "14600", StandardDeductionFor(domain.FilingSingle).String())
	assert.Equal(t, "29200", StandardDeductionFor(domain.FilingMarried).String())
	assert.Equal(t, "21900", StandardDeductionFor(domain.FilingHOH).String())
	assert.Equal(t, "14600", StandardDeductionFor("unknown").String())
}

func TestStateTax(t *testing.T) {
	assert.Equal(t, "9300.00", StateTax(decimal.NewFromInt(100000), "CA").StringFixed(2))
	assert.Equal(t, "0.00", StateTax(decimal.NewFromInt(100000), "TX").StringFixed(2))
	// Unknown state taxed at zero.
	assert.Equal(t, "0.00", StateTax(decimal.NewFromInt(100000), "ZZ").StringFixed(2))
}

func TestFICACalculator(t *testing.T) {
	fc := NewFICACalculator2024()

	// Below wage base: 100000 * 0.062.
	assert.Equal(t, "6200.00", fc.SocialSecurity(decimal.NewFromInt(100000)).StringFixed(2))
	// Above wage base: capped at 168600 * 0.062.
	assert.Equal(t, "10453.20", fc.SocialSecurity(decimal.NewFromInt(250000)).StringFixed(2))
	// Medicare has no cap.
	assert.Equal(t, "3625.00", fc.Medicare(decimal.NewFromInt(250000)).StringFixed(2))
}
