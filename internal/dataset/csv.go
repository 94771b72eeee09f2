// Package dataset reads and writes taxpayer record CSV files.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taxlytics/taxlytics/internal/domain"
)

// Columns is the canonical CSV column order.
var Columns = []string{
	"taxpayer_id",
	"filing_status",
	"state",
	"tax_year",
	"primary_income_src",
	"gross_income",
	"capital_gains",
	"dividend_income",
	"other_income",
	"total_income",
	"standard_deduction",
	"itemized_deductions",
	"uses_itemized",
	"deduction_used",
	"taxable_income",
	"federal_tax",
	"state_tax",
	"social_security_tax",
	"medicare_tax",
	"fica_total",
	"total_tax_liability",
	"effective_tax_rate",
	"marginal_tax_rate",
	"tax_withheld",
	"refund_or_owed",
	"dependents",
	"child_tax_credit",
	"filing_date",
	"mortgage_interest",
	"charitable_giving",
	"medical_expenses",
	"salt_deduction",
}

// Load reads a record CSV. Numeric fields that fail to parse are coerced to
// zero rather than rejected; uses_itemized accepts case-insensitive
// "true"/"1"/"yes". A header missing any canonical column is an error, since
// schema completeness is the loader's responsibility.
func Load(path string) (domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range Columns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("dataset %s is missing column %q", path, name)
		}
	}

	records := make(domain.Dataset, 0, len(rows)-1)
	for _, row := range rows[1:] {
		get := func(name string) string { return row[col[name]] }
		records = append(records, domain.TaxpayerRecord{
			TaxpayerID:         parseInt(get("taxpayer_id")),
			FilingStatus:       get("filing_status"),
			State:              get("state"),
			TaxYear:            parseInt(get("tax_year")),
			PrimaryIncomeSrc:   get("primary_income_src"),
			GrossIncome:        parseDecimal(get("gross_income")),
			CapitalGains:       parseDecimal(get("capital_gains")),
			DividendIncome:     parseDecimal(get("dividend_income")),
			OtherIncome:        parseDecimal(get("other_income")),
			TotalIncome:        parseDecimal(get("total_income")),
			StandardDeduction:  parseDecimal(get("standard_deduction")),
			ItemizedDeductions: parseDecimal(get("itemized_deductions")),
			UsesItemized:       parseBool(get("uses_itemized")),
			DeductionUsed:      parseDecimal(get("deduction_used")),
			TaxableIncome:      parseDecimal(get("taxable_income")),
			FederalTax:         parseDecimal(get("federal_tax")),
			StateTax:           parseDecimal(get("state_tax")),
			SocialSecurityTax:  parseDecimal(get("social_security_tax")),
			MedicareTax:        parseDecimal(get("medicare_tax")),
			FICATotal:          parseDecimal(get("fica_total")),
			TotalTaxLiability:  parseDecimal(get("total_tax_liability")),
			EffectiveTaxRate:   parseDecimal(get("effective_tax_rate")),
			MarginalTaxRate:    parseDecimal(get("marginal_tax_rate")),
			TaxWithheld:        parseDecimal(get("tax_withheld")),
			RefundOrOwed:       parseDecimal(get("refund_or_owed")),
			Dependents:         parseInt(get("dependents")),
			ChildTaxCredit:     parseDecimal(get("child_tax_credit")),
			FilingDate:         get("filing_date"),
			MortgageInterest:   parseDecimal(get("mortgage_interest")),
			CharitableGiving:   parseDecimal(get("charitable_giving")),
			MedicalExpenses:    parseDecimal(get("medical_expenses")),
			SALTDeduction:      parseDecimal(get("salt_deduction")),
		})
	}
	return records, nil
}

// Write stores records at path in the canonical column order.
func Write(path string, ds domain.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return err
	}
	for i := range ds {
		r := &ds[i]
		row := []string{
			strconv.Itoa(r.TaxpayerID),
			r.FilingStatus,
			r.State,
			strconv.Itoa(r.TaxYear),
			r.PrimaryIncomeSrc,
			r.GrossIncome.String(),
			r.CapitalGains.String(),
			r.DividendIncome.String(),
			r.OtherIncome.String(),
			r.TotalIncome.String(),
			r.StandardDeduction.String(),
			r.ItemizedDeductions.String(),
			strconv.FormatBool(r.UsesItemized),
			r.DeductionUsed.String(),
			r.TaxableIncome.String(),
			r.FederalTax.String(),
			r.StateTax.String(),
			r.SocialSecurityTax.String(),
			r.MedicareTax.String(),
			r.FICATotal.String(),
			r.TotalTaxLiability.String(),
			r.EffectiveTaxRate.String(),
			r.MarginalTaxRate.String(),
			r.TaxWithheld.String(),
			r.RefundOrOwed.String(),
			strconv.Itoa(r.Dependents),
			r.ChildTaxCredit.String(),
			r.FilingDate,
			r.MortgageInterest.String(),
			r.CharitableGiving.String(),
			r.MedicalExpenses.String(),
			r.SALTDeduction.String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write dataset %s: %w", path, err)
	}
	return nil
}

// parseDecimal coerces malformed numerics to zero.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseInt coerces malformed counts to zero, accepting float-formatted input.
func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
