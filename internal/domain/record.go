package domain

import (
	"github.com/shopspring/decimal"
)

// Filing statuses accepted on a taxpayer record.
const (
	FilingSingle  = "single"
	FilingMarried = "married"
	FilingHOH     = "hoh"
)

// FilingStatuses lists the accepted statuses in draw order.
var FilingStatuses = []string{FilingSingle, FilingMarried, FilingHOH}

// IncomeSources lists the recognized primary income sources in draw order.
var IncomeSources = []string{
	"wages",
	"self_employment",
	"investment",
	"rental",
	"retirement",
}

// TaxpayerRecord is one taxpayer's return for a single tax year. Records are
// created once (generated or loaded) and never mutated afterwards; every
// analysis treats the containing Dataset as read-only.
type TaxpayerRecord struct {
	TaxpayerID       int    `json:"taxpayer_id"`
	FilingStatus     string `json:"filing_status"`
	State            string `json:"state"`
	TaxYear          int    `json:"tax_year"`
	PrimaryIncomeSrc string `json:"primary_income_src"`

	// Income
	GrossIncome    decimal.Decimal `json:"gross_income"`
	CapitalGains   decimal.Decimal `json:"capital_gains"`
	DividendIncome decimal.Decimal `json:"dividend_income"`
	OtherIncome    decimal.Decimal `json:"other_income"`
	TotalIncome    decimal.Decimal `json:"total_income"`

	// Deductions
	StandardDeduction  decimal.Decimal `json:"standard_deduction"`
	ItemizedDeductions decimal.Decimal `json:"itemized_deductions"`
	UsesItemized       bool            `json:"uses_itemized"`
	DeductionUsed      decimal.Decimal `json:"deduction_used"`
	TaxableIncome      decimal.Decimal `json:"taxable_income"`

	// Taxes
	FederalTax        decimal.Decimal `json:"federal_tax"`
	StateTax          decimal.Decimal `json:"state_tax"`
	SocialSecurityTax decimal.Decimal `json:"social_security_tax"`
	MedicareTax       decimal.Decimal `json:"medicare_tax"`
	FICATotal         decimal.Decimal `json:"fica_total"`
	TotalTaxLiability decimal.Decimal `json:"total_tax_liability"`
	EffectiveTaxRate  decimal.Decimal `json:"effective_tax_rate"`
	MarginalTaxRate   decimal.Decimal `json:"marginal_tax_rate"`

	// Withholding and credits
	TaxWithheld    decimal.Decimal `json:"tax_withheld"`
	RefundOrOwed   decimal.Decimal `json:"refund_or_owed"` // positive = refund
	Dependents     int             `json:"dependents"`
	ChildTaxCredit decimal.Decimal `json:"child_tax_credit"`
	FilingDate     string          `json:"filing_date"`

	// Itemized deduction categories
	MortgageInterest decimal.Decimal `json:"mortgage_interest"`
	CharitableGiving decimal.Decimal `json:"charitable_giving"`
	MedicalExpenses  decimal.Decimal `json:"medical_expenses"`
	SALTDeduction    decimal.Decimal `json:"salt_deduction"`
}

// Dataset is the ordered, immutable sequence of records for one analysis session.
type Dataset []TaxpayerRecord
