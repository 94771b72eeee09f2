package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/taxlytics/taxlytics/internal/domain"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal Tax Brackets: 2024 tables for all records.
//    - Married filing jointly has its own table; single and head of household
//      share the single table.
//    - Standard deduction: $14,600 single / $29,200 MFJ / $21,900 HOH.
//
// 2. State Tax: flat rate per state, applied to federal taxable income.
//
// 3. FICA: Social Security 6.2% up to the $168,600 wage base, Medicare 1.45%
//    uncapped. Both apply to gross income only.

// TaxBracket is one progressive bracket segment. Upper is the inclusive upper
// bound of taxable income covered by the segment; the terminal bracket of a
// table carries an effectively unbounded Upper.
type TaxBracket struct {
	Upper decimal.Decimal
	Rate  decimal.Decimal
}

// noCeiling marks the terminal bracket. Far above any representable income.
var noCeiling = decimal.New(1, 15)

var oneHundred = decimal.NewFromInt(100)

// BracketsSingle is the 2024 federal table for single and HOH filers.
var BracketsSingle = []TaxBracket{
	{decimal.NewFromInt(11600), decimal.NewFromFloat(0.10)},
	{decimal.NewFromInt(47150), decimal.NewFromFloat(0.12)},
	{decimal.NewFromInt(100525), decimal.NewFromFloat(0.22)},
	{decimal.NewFromInt(191950), decimal.NewFromFloat(0.24)},
	{decimal.NewFromInt(243725), decimal.NewFromFloat(0.32)},
	{decimal.NewFromInt(609350), decimal.NewFromFloat(0.35)},
	{noCeiling, decimal.NewFromFloat(0.37)},
}

// BracketsMarried is the 2024 federal table for married filing jointly.
var BracketsMarried = []TaxBracket{
	{decimal.NewFromInt(23200), decimal.NewFromFloat(0.10)},
	{decimal.NewFromInt(94300), decimal.NewFromFloat(0.12)},
	{decimal.NewFromInt(201050), decimal.NewFromFloat(0.22)},
	{decimal.NewFromInt(383900), decimal.NewFromFloat(0.24)},
	{decimal.NewFromInt(487450), decimal.NewFromFloat(0.32)},
	{decimal.NewFromInt(731200), decimal.NewFromFloat(0.35)},
	{noCeiling, decimal.NewFromFloat(0.37)},
}

// standardDeductions maps filing status to the 2024 standard deduction.
var standardDeductions = map[string]decimal.Decimal{
	domain.FilingSingle:  decimal.NewFromInt(14600),
	domain.FilingMarried: decimal.NewFromInt(29200),
	domain.FilingHOH:     decimal.NewFromInt(21900),
}

// StateRates maps state code to its flat income tax rate.
var StateRates = map[string]decimal.Decimal{
	"CA": decimal.NewFromFloat(0.093),
	"NY": decimal.NewFromFloat(0.0685),
	"TX": decimal.NewFromFloat(0.00),
	"FL": decimal.NewFromFloat(0.00),
	"WA": decimal.NewFromFloat(0.00),
	"IL": decimal.NewFromFloat(0.0495),
	"OH": decimal.NewFromFloat(0.04),
	"GA": decimal.NewFromFloat(0.055),
	"NC": decimal.NewFromFloat(0.0525),
	"VA": decimal.NewFromFloat(0.0575),
}

// StateCodes lists the known states in draw order.
var StateCodes = []string{"CA", "NY", "TX", "FL", "WA", "IL", "OH", "GA", "NC", "VA"}

// BracketsFor selects the bracket table for a filing status. Single and HOH
// share a table.
func BracketsFor(filingStatus string) []TaxBracket {
	if filingStatus == domain.FilingMarried {
		return BracketsMarried
	}
	return BracketsSingle
}

// StandardDeductionFor returns the standard deduction for a filing status,
// defaulting to the single amount for unrecognized statuses.
func StandardDeductionFor(filingStatus string) decimal.Decimal {
	if d, ok := standardDeductions[filingStatus]; ok {
		return d
	}
	return standardDeductions[domain.FilingSingle]
}

// ProgressiveTax computes bracket tax on income by walking the table in
// ascending order, taxing only the slice of income inside each segment.
// The table is assumed well-formed: strictly ascending bounds with an
// unbounded terminal bracket. Income at or below zero owes nothing.
// The result is rounded to cents.
func ProgressiveTax(income decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	tax := decimal.Zero
	prev := decimal.Zero
	for _, b := range brackets {
		if income.LessThanOrEqual(prev) {
			break
		}
		inBracket := decimal.Min(income, b.Upper).Sub(prev)
		tax = tax.Add(inBracket.Mul(b.Rate))
		prev = b.Upper
	}
	return tax.Round(2)
}

// MarginalRate returns, as a percentage, the rate of the bracket income falls
// into: the first bracket whose upper bound is at or above income. The
// unbounded terminal bracket guarantees a match.
func MarginalRate(income decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	for _, b := range brackets {
		if income.LessThanOrEqual(b.Upper) {
			return b.Rate.Mul(oneHundred)
		}
	}
	return brackets[len(brackets)-1].Rate.Mul(oneHundred)
}

// StateTax applies the flat state rate to taxable income, rounded to cents.
// Unknown states are taxed at zero; schema completeness is the loader's job.
func StateTax(taxableIncome decimal.Decimal, state string) decimal.Decimal {
	return taxableIncome.Mul(StateRates[state]).Round(2)
}

// FICACalculator handles payroll tax calculations.
type FICACalculator struct {
	Year         int
	SSWageBase   decimal.Decimal
	SSRate       decimal.Decimal
	MedicareRate decimal.Decimal
}

// NewFICACalculator2024 creates a FICA calculator with 2024 parameters.
func NewFICACalculator2024() *FICACalculator {
	return &FICACalculator{
		Year:         2024,
		SSWageBase:   decimal.NewFromInt(168600),
		SSRate:       decimal.NewFromFloat(0.062),
		MedicareRate: decimal.NewFromFloat(0.0145),
	}
}

// SocialSecurity computes the Social Security tax on gross income, capped at
// the wage base. Rounded to cents.
func (fc *FICACalculator) SocialSecurity(grossIncome decimal.Decimal) decimal.Decimal {
	base := decimal.Min(grossIncome, fc.SSWageBase)
	return base.Mul(fc.SSRate).Round(2)
}

// Medicare computes the uncapped Medicare tax on gross income. Rounded to cents.
func (fc *FICACalculator) Medicare(grossIncome decimal.Decimal) decimal.Decimal {
	return grossIncome.Mul(fc.MedicareRate).Round(2)
}
