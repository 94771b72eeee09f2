package domain

import (
	"github.com/shopspring/decimal"

	"github.com/taxlytics/taxlytics/pkg/stats"
)

// Summary is the high-level rollup across the whole dataset.
type Summary struct {
	TotalTaxpayers       int             `json:"total_taxpayers"`
	TotalIncomeReported  decimal.Decimal `json:"total_income_reported"`
	TotalFederalTax      decimal.Decimal `json:"total_federal_tax"`
	TotalStateTax        decimal.Decimal `json:"total_state_tax"`
	TotalFICA            decimal.Decimal `json:"total_fica"`
	TotalTaxCollected    decimal.Decimal `json:"total_tax_collected"`
	OverallEffectiveRate decimal.Decimal `json:"overall_effective_rate"`
	TotalRefundsIssued   decimal.Decimal `json:"total_refunds_issued"`
	TotalTaxOwed         decimal.Decimal `json:"total_tax_owed"`
	AvgIncome            decimal.Decimal `json:"avg_income"`
	AvgTotalTax          decimal.Decimal `json:"avg_total_tax"`
}

// IncomeBracketCount is one income band of the distribution. Bands are
// half-open [Low, High) and reported in ascending order.
type IncomeBracketCount struct {
	Label   string          `json:"label"`
	Count   int             `json:"count"`
	Percent decimal.Decimal `json:"percent"`
}

// IncomeDistribution reports how total income spreads across fixed bands and
// income sources.
type IncomeDistribution struct {
	OverallStats        stats.Summary            `json:"overall_stats"`
	BracketDistribution []IncomeBracketCount     `json:"bracket_distribution"`
	ByIncomeSource      map[string]stats.Summary `json:"by_income_source"`
}

// MarginalRateCount is a frequency entry keyed by marginal rate rounded to the
// nearest whole percent.
type MarginalRateCount struct {
	Rate  int `json:"rate"`
	Count int `json:"count"`
}

// FilingStatusStats summarizes one filing status cohort.
type FilingStatusStats struct {
	Count         int             `json:"count"`
	AvgEffective  decimal.Decimal `json:"avg_effective"`
	AvgFederalTax decimal.Decimal `json:"avg_federal_tax"`
}

// TaxRates reports effective and marginal rate distributions.
type TaxRates struct {
	EffectiveRateStats   stats.Summary                `json:"effective_rate_stats"`
	MarginalRateStats    stats.Summary                `json:"marginal_rate_stats"`
	MarginalDistribution []MarginalRateCount          `json:"marginal_distribution"`
	ByFilingStatus       map[string]FilingStatusStats `json:"by_filing_status"`
}

// Deductions compares itemizers against standard filers.
type Deductions struct {
	ItemizerCount        int                      `json:"itemizer_count"`
	StandardFilerCount   int                      `json:"standard_filer_count"`
	ItemizerPct          decimal.Decimal          `json:"itemizer_pct"`
	AvgItemizedTotal     decimal.Decimal          `json:"avg_itemized_total"`
	AvgStandardDeduction decimal.Decimal          `json:"avg_standard_deduction"`
	CategoryBreakdown    map[string]stats.Summary `json:"category_breakdown"`
	AvgTaxSavingsItemize decimal.Decimal          `json:"avg_tax_savings_itemize"`
}

// RefundBucketCount is one band of the refund/owed distribution, in fixed
// presentation order from largest refund to largest amount owed.
type RefundBucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Refunds partitions the dataset by the sign of refund_or_owed.
type Refunds struct {
	RefundCount        int                 `json:"refund_count"`
	OwedCount          int                 `json:"owed_count"`
	RefundStats        stats.Summary       `json:"refund_stats"`
	OwedStats          stats.Summary       `json:"owed_stats"`
	BucketDistribution []RefundBucketCount `json:"bucket_distribution"`
	OverWithheldPct    decimal.Decimal     `json:"over_withheld_pct"`
}

// StateSummary aggregates one state's cohort.
type StateSummary struct {
	Count             int             `json:"count"`
	AvgIncome         decimal.Decimal `json:"avg_income"`
	AvgStateTax       decimal.Decimal `json:"avg_state_tax"`
	AvgFederalTax     decimal.Decimal `json:"avg_federal_tax"`
	AvgTotalTax       decimal.Decimal `json:"avg_total_tax"`
	AvgEffectiveRate  decimal.Decimal `json:"avg_effective_rate"`
	TotalStateRevenue decimal.Decimal `json:"total_state_revenue"`
}

// CapitalGains reports on filers with investment income.
type CapitalGains struct {
	CGFilerCount       int             `json:"cg_filer_count"`
	CGFilerPct         decimal.Decimal `json:"cg_filer_pct"`
	CapitalGainsStats  stats.Summary   `json:"capital_gains_stats"`
	DividendIncomeStats stats.Summary  `json:"dividend_income_stats"`
	AvgCGPctOfIncome   decimal.Decimal `json:"avg_cg_pct_of_income"`
}

// DependentCount is a frequency entry for a dependents count, ascending.
type DependentCount struct {
	Dependents int `json:"dependents"`
	Count      int `json:"count"`
}

// DependentAvgTax is the average total liability for a dependents count.
type DependentAvgTax struct {
	Dependents int             `json:"dependents"`
	AvgTax     decimal.Decimal `json:"avg_tax"`
}

// CreditsDependents reports dependent counts and child tax credits.
type CreditsDependents struct {
	DependentDistribution []DependentCount  `json:"dependent_distribution"`
	CreditStats           stats.Summary     `json:"credit_stats"`
	AvgTaxByDependents    []DependentAvgTax `json:"avg_tax_by_dependents"`
	AvgCredit             decimal.Decimal   `json:"avg_credit"`
	TotalCreditsClaimed   decimal.Decimal   `json:"total_credits_claimed"`
}

// FICA reports payroll tax statistics.
type FICA struct {
	SocialSecurityStats stats.Summary   `json:"social_security_stats"`
	MedicareStats       stats.Summary   `json:"medicare_stats"`
	FICATotalStats      stats.Summary   `json:"fica_total_stats"`
	AvgFICAPctOfIncome  decimal.Decimal `json:"avg_fica_pct_of_income"`
	TotalFICACollected  decimal.Decimal `json:"total_fica_collected"`
}

// AggregateReport composes every analysis section keyed by section name.
// Sections are computed independently from the same immutable Dataset.
type AggregateReport struct {
	Summary           Summary                 `json:"summary"`
	Income            IncomeDistribution      `json:"income"`
	TaxRates          TaxRates                `json:"tax_rates"`
	Deductions        Deductions              `json:"deductions"`
	Refunds           Refunds                 `json:"refunds"`
	ByState           map[string]StateSummary `json:"by_state"`
	CapitalGains      CapitalGains            `json:"capital_gains"`
	CreditsDependents CreditsDependents       `json:"credits_dependents"`
	FICA              FICA                    `json:"fica"`
}
