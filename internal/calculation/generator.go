package calculation

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxlytics/taxlytics/internal/domain"
)

// Record count bounds accepted by Generate.
const (
	MinRecords = 1
	MaxRecords = 10000
)

// incomeRanges gives the gross income draw range per primary income source.
var incomeRanges = map[string][2]float64{
	"wages":           {25000, 250000},
	"self_employment": {15000, 200000},
	"investment":      {5000, 500000},
	"rental":          {10000, 150000},
	"retirement":      {20000, 120000},
}

// Filing date draw window.
var (
	filingWindowStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	filingWindowEnd   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
)

// Generator synthesizes taxpayer records for a single tax year. All draws for
// a record come from one explicitly seeded source in a fixed order, so a given
// seed and record count reproduce the same sequence bit for bit.
type Generator struct {
	TaxYear int
	FICA    *FICACalculator
	Log     Logger
}

// NewGenerator creates a generator with 2024 tax parameters.
func NewGenerator() *Generator {
	return &Generator{
		TaxYear: 2024,
		FICA:    NewFICACalculator2024(),
		Log:     NopLogger{},
	}
}

// Generate produces n records from the given seed. The record count is
// validated before any work happens; generation never partially executes.
func (g *Generator) Generate(seed int64, n int) (domain.Dataset, error) {
	if n < MinRecords || n > MaxRecords {
		return nil, fmt.Errorf("record count must be between %d and %d, got %d", MinRecords, MaxRecords, n)
	}

	// The stream is owned by this call and consumed sequentially; per-record
	// draw order is part of the determinism contract.
	rng := rand.New(rand.NewSource(seed))
	records := make(domain.Dataset, 0, n)
	for i := 1; i <= n; i++ {
		records = append(records, g.generateRecord(rng, i))
	}

	g.Log.Infof("generated %d tax records (seed %d)", n, seed)
	return records, nil
}

// generateRecord draws one taxpayer. Draw order: filing status, state, income
// source, gross income, the three extra income gates, the itemization gates,
// withholding multiplier, dependents, filing date.
func (g *Generator) generateRecord(rng *rand.Rand, id int) domain.TaxpayerRecord {
	filingStatus := domain.FilingStatuses[rng.Intn(len(domain.FilingStatuses))]
	state := StateCodes[rng.Intn(len(StateCodes))]
	source := domain.IncomeSources[rng.Intn(len(domain.IncomeSources))]

	bounds := incomeRanges[source]
	grossIncome := cents(uniform(rng, bounds[0], bounds[1]))
	grossF := grossIncome.InexactFloat64()

	capitalGains := decimal.Zero
	if rng.Float64() > 0.5 {
		capitalGains = cents(uniform(rng, 0, grossF*0.3))
	}
	dividendIncome := decimal.Zero
	if rng.Float64() > 0.6 {
		dividendIncome = cents(uniform(rng, 0, grossF*0.1))
	}
	otherIncome := decimal.Zero
	if rng.Float64() > 0.7 {
		otherIncome = cents(uniform(rng, 0, 10000))
	}

	totalIncome := grossIncome.Add(capitalGains).Add(dividendIncome).Add(otherIncome)

	standardDeduction := StandardDeductionFor(filingStatus)
	var mortgage, charitable, medical, salt decimal.Decimal
	itemizedTotal := decimal.Zero
	if totalIncome.GreaterThan(decimal.NewFromInt(75000)) && rng.Float64() > 0.4 {
		maxDed := math.Min(totalIncome.InexactFloat64()*0.15, 30000)
		draw := func() decimal.Decimal {
			if rng.Float64() > 0.5 {
				amt := cents(uniform(rng, 500, maxDed))
				itemizedTotal = itemizedTotal.Add(amt)
				return amt
			}
			return decimal.Zero
		}
		mortgage = draw()
		charitable = draw()
		medical = draw()
		salt = draw()
	}

	usesItemized := itemizedTotal.GreaterThan(standardDeduction)
	deductionUsed := standardDeduction
	if usesItemized {
		deductionUsed = itemizedTotal
	}

	taxableIncome := decimal.Max(decimal.Zero, totalIncome.Sub(deductionUsed))

	brackets := BracketsFor(filingStatus)
	federalTax := ProgressiveTax(taxableIncome, brackets)
	stateTax := StateTax(taxableIncome, state)

	socialSecurity := g.FICA.SocialSecurity(grossIncome)
	medicare := g.FICA.Medicare(grossIncome)
	ficaTotal := socialSecurity.Add(medicare)

	totalTax := federalTax.Add(stateTax).Add(ficaTotal).Round(2)
	effectiveRate := decimal.Zero
	if totalIncome.IsPositive() {
		effectiveRate = totalTax.Div(totalIncome).Mul(oneHundred).Round(2)
	}
	marginalRate := MarginalRate(taxableIncome, brackets)

	withheld := federalTax.Mul(decimal.NewFromFloat(uniform(rng, 0.85, 1.15))).Round(2)
	refundOrOwed := withheld.Sub(federalTax).Round(2)

	dependents := rng.Intn(5)
	childTaxCredit := decimal.Min(
		decimal.NewFromInt(int64(dependents)*2000),
		totalIncome.Mul(decimal.NewFromFloat(0.2)),
	).Round(2)

	filingDate := randomFilingDate(rng)

	return domain.TaxpayerRecord{
		TaxpayerID:         id,
		FilingStatus:       filingStatus,
		State:              state,
		TaxYear:            g.TaxYear,
		PrimaryIncomeSrc:   source,
		GrossIncome:        grossIncome,
		CapitalGains:       capitalGains,
		DividendIncome:     dividendIncome,
		OtherIncome:        otherIncome,
		TotalIncome:        totalIncome.Round(2),
		StandardDeduction:  standardDeduction,
		ItemizedDeductions: itemizedTotal.Round(2),
		UsesItemized:       usesItemized,
		DeductionUsed:      deductionUsed.Round(2),
		TaxableIncome:      taxableIncome.Round(2),
		FederalTax:         federalTax,
		StateTax:           stateTax,
		SocialSecurityTax:  socialSecurity,
		MedicareTax:        medicare,
		FICATotal:          ficaTotal,
		TotalTaxLiability:  totalTax,
		EffectiveTaxRate:   effectiveRate,
		MarginalTaxRate:    marginalRate,
		TaxWithheld:        withheld,
		RefundOrOwed:       refundOrOwed,
		Dependents:         dependents,
		ChildTaxCredit:     childTaxCredit,
		FilingDate:         filingDate,
		MortgageInterest:   mortgage,
		CharitableGiving:   charitable,
		MedicalExpenses:    medical,
		SALTDeduction:      salt,
	}
}

// randomFilingDate draws a uniform calendar day in the filing window.
func randomFilingDate(rng *rand.Rand) string {
	days := int(filingWindowEnd.Sub(filingWindowStart).Hours() / 24)
	return filingWindowStart.AddDate(0, 0, rng.Intn(days+1)).Format("2006-01-02")
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// cents converts a float draw to a decimal rounded to cents. Rounding happens
// at each derivation step to match downstream expectations, not just at output.
func cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
