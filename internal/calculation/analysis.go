package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/taxlytics/taxlytics/internal/domain"
	"github.com/taxlytics/taxlytics/pkg/stats"
)

// The nine analysis routines below are pure functions of the dataset: they
// never mutate records and share no state, so callers may run them
// concurrently against the same Dataset.

// incomeBands are the fixed half-open [Lo, Hi) total income bands.
var incomeBands = []struct {
	Label string
	Lo    decimal.Decimal
	Hi    decimal.Decimal
}{
	{"< $25k", decimal.Zero, decimal.NewFromInt(25000)},
	{"$25k - $50k", decimal.NewFromInt(25000), decimal.NewFromInt(50000)},
	{"$50k - $75k", decimal.NewFromInt(50000), decimal.NewFromInt(75000)},
	{"$75k - $100k", decimal.NewFromInt(75000), decimal.NewFromInt(100000)},
	{"$100k - $150k", decimal.NewFromInt(100000), decimal.NewFromInt(150000)},
	{"$150k - $200k", decimal.NewFromInt(150000), decimal.NewFromInt(200000)},
	{"$200k - $500k", decimal.NewFromInt(200000), decimal.NewFromInt(500000)},
	{"> $500k", decimal.NewFromInt(500000), noCeiling},
}

// refundBands are the fixed half-open [Lo, Hi) refund_or_owed bands, from the
// largest refund down to the largest balance due.
var refundBands = []struct {
	Label string
	Lo    decimal.Decimal
	Hi    decimal.Decimal
}{
	{"Refund > $5k", decimal.NewFromInt(5000), noCeiling},
	{"Refund $2k-$5k", decimal.NewFromInt(2000), decimal.NewFromInt(5000)},
	{"Refund $1-$2k", decimal.NewFromInt(1), decimal.NewFromInt(2000)},
	{"Roughly even (+/- $1)", decimal.Zero, decimal.NewFromInt(1)},
	{"Owe $1-$1k", decimal.NewFromInt(-1000), decimal.NewFromInt(-1)},
	{"Owe $1k-$5k", decimal.NewFromInt(-5000), decimal.NewFromInt(-1000)},
	{"Owe > $5k", noCeiling.Neg(), decimal.NewFromInt(-5000)},
}

// Summarize computes the high-level rollup for the dataset.
func Summarize(ds domain.Dataset) domain.Summary {
	totalIncome := decimal.Zero
	totalFederal := decimal.Zero
	totalState := decimal.Zero
	totalFICA := decimal.Zero
	totalLiability := decimal.Zero
	totalRefunds := decimal.Zero
	totalOwed := decimal.Zero

	for i := range ds {
		r := &ds[i]
		totalIncome = totalIncome.Add(r.TotalIncome)
		totalFederal = totalFederal.Add(r.FederalTax)
		totalState = totalState.Add(r.StateTax)
		totalFICA = totalFICA.Add(r.FICATotal)
		totalLiability = totalLiability.Add(r.TotalTaxLiability)
		if r.RefundOrOwed.IsPositive() {
			totalRefunds = totalRefunds.Add(r.RefundOrOwed)
		} else if r.RefundOrOwed.IsNegative() {
			totalOwed = totalOwed.Add(r.RefundOrOwed.Abs())
		}
	}

	overallRate := decimal.Zero
	if totalIncome.IsPositive() {
		overallRate = totalLiability.Div(totalIncome).Mul(oneHundred).Round(2)
	}
	avgIncome := decimal.Zero
	avgTax := decimal.Zero
	if len(ds) > 0 {
		n := decimal.NewFromInt(int64(len(ds)))
		avgIncome = totalIncome.Div(n).Round(2)
		avgTax = totalLiability.Div(n).Round(2)
	}

	return domain.Summary{
		TotalTaxpayers:       len(ds),
		TotalIncomeReported:  totalIncome.Round(2),
		TotalFederalTax:      totalFederal.Round(2),
		TotalStateTax:        totalState.Round(2),
		TotalFICA:            totalFICA.Round(2),
		TotalTaxCollected:    totalLiability.Round(2),
		OverallEffectiveRate: overallRate,
		TotalRefundsIssued:   totalRefunds.Round(2),
		TotalTaxOwed:         totalOwed.Round(2),
		AvgIncome:            avgIncome,
		AvgTotalTax:          avgTax,
	}
}

// AnalyzeIncomeDistribution reports income band counts, overall income
// statistics, and per-source statistics.
func AnalyzeIncomeDistribution(ds domain.Dataset) domain.IncomeDistribution {
	incomes := collect(ds, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.TotalIncome })

	brackets := make([]domain.IncomeBracketCount, 0, len(incomeBands))
	for _, band := range incomeBands {
		count := 0
		for _, v := range incomes {
			if v.GreaterThanOrEqual(band.Lo) && v.LessThan(band.Hi) {
				count++
			}
		}
		brackets = append(brackets, domain.IncomeBracketCount{
			Label:   band.Label,
			Count:   count,
			Percent: share(count, len(ds), 1),
		})
	}

	bySource := groupValues(ds,
		func(r *domain.TaxpayerRecord) string { return r.PrimaryIncomeSrc },
		func(r *domain.TaxpayerRecord) decimal.Decimal { return r.TotalIncome })
	sourceStats := make(map[string]stats.Summary, len(bySource))
	for src, vals := range bySource {
		sourceStats[src] = stats.Describe(vals)
	}

	return domain.IncomeDistribution{
		OverallStats:        stats.Describe(incomes),
		BracketDistribution: brackets,
		ByIncomeSource:      sourceStats,
	}
}

// AnalyzeTaxRates reports effective and marginal rate statistics, the marginal
// rate frequency distribution, and per filing status aggregates.
func AnalyzeTaxRates(ds domain.Dataset) domain.TaxRates {
	effective := collect(ds, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.EffectiveTaxRate })
	marginal := collect(ds, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.MarginalTaxRate })

	freq := make(map[int]int)
	for i := range ds {
		key := int(ds[i].MarginalTaxRate.Round(0).IntPart())
		freq[key]++
	}
	dist := make([]domain.MarginalRateCount, 0, len(freq))
	for rate, count := range freq {
		dist = append(dist, domain.MarginalRateCount{Rate: rate, Count: count})
	}
	sort.Slice(dist, func(i, j int) bool { return dist[i].Rate < dist[j].Rate })

	byStatus := make(map[string]domain.FilingStatusStats, len(domain.FilingStatuses))
	for _, status := range domain.FilingStatuses {
		var subset domain.Dataset
		for i := range ds {
			if ds[i].FilingStatus == status {
				subset = append(subset, ds[i])
			}
		}
		byStatus[status] = domain.FilingStatusStats{
			Count:         len(subset),
			AvgEffective:  meanOf(collect(subset, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.EffectiveTaxRate })),
			AvgFederalTax: meanOf(collect(subset, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.FederalTax })),
		}
	}

	return domain.TaxRates{
		EffectiveRateStats:   stats.Describe(effective),
		MarginalRateStats:    stats.Describe(marginal),
		MarginalDistribution: dist,
		ByFilingStatus:       byStatus,
	}
}

// AnalyzeDeductions compares itemizers with standard filers and breaks down
// the itemized categories among itemizers.
func AnalyzeDeductions(ds domain.Dataset) domain.Deductions {
	var itemizers, standard domain.Dataset
	for i := range ds {
		if ds[i].UsesItemized {
			itemizers = append(itemizers, ds[i])
		} else {
			standard = append(standard, ds[i])
		}
	}

	categories := map[string]func(*domain.TaxpayerRecord) decimal.Decimal{
		"mortgage_interest": func(r *domain.TaxpayerRecord) decimal.Decimal { return r.MortgageInterest },
		"charitable_giving": func(r *domain.TaxpayerRecord) decimal.Decimal { return r.CharitableGiving },
		"medical_expenses":  func(r *domain.TaxpayerRecord) decimal.Decimal { return r.MedicalExpenses },
		"salt_deduction":    func(r *domain.TaxpayerRecord) decimal.Decimal { return r.SALTDeduction },
	}
	breakdown := make(map[string]stats.Summary, len(categories))
	for name, field := range categories {
		breakdown[name] = stats.Describe(collect(itemizers, field))
	}

	// Projected saving of itemizing over the standard deduction at the filer's
	// marginal rate.
	savings := make([]decimal.Decimal, 0, len(itemizers))
	for i := range itemizers {
		r := &itemizers[i]
		saved := r.ItemizedDeductions.Sub(r.StandardDeduction).
			Mul(r.MarginalTaxRate.Div(oneHundred)).Round(2)
		savings = append(savings, saved)
	}

	return domain.Deductions{
		ItemizerCount:        len(itemizers),
		StandardFilerCount:   len(standard),
		ItemizerPct:          share(len(itemizers), len(ds), 1),
		AvgItemizedTotal:     meanOf(collect(itemizers, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.ItemizedDeductions })),
		AvgStandardDeduction: meanOf(collect(standard, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.StandardDeduction })),
		CategoryBreakdown:    breakdown,
		AvgTaxSavingsItemize: meanOf(savings),
	}
}

// AnalyzeRefunds partitions the dataset by the sign of refund_or_owed and
// buckets the amounts.
func AnalyzeRefunds(ds domain.Dataset) domain.Refunds {
	var refundAmounts, owedAmounts []decimal.Decimal
	for i := range ds {
		v := ds[i].RefundOrOwed
		if v.GreaterThanOrEqual(decimal.Zero) {
			refundAmounts = append(refundAmounts, v)
		} else {
			owedAmounts = append(owedAmounts, v.Abs())
		}
	}

	buckets := make([]domain.RefundBucketCount, 0, len(refundBands))
	for _, band := range refundBands {
		count := 0
		for i := range ds {
			v := ds[i].RefundOrOwed
			if v.GreaterThanOrEqual(band.Lo) && v.LessThan(band.Hi) {
				count++
			}
		}
		buckets = append(buckets, domain.RefundBucketCount{Label: band.Label, Count: count})
	}

	return domain.Refunds{
		RefundCount:        len(refundAmounts),
		OwedCount:          len(owedAmounts),
		RefundStats:        stats.Describe(refundAmounts),
		OwedStats:          stats.Describe(owedAmounts),
		BucketDistribution: buckets,
		OverWithheldPct:    share(len(refundAmounts), len(ds), 1),
	}
}

// AnalyzeByState groups records by state code. Map keys serialize in
// ascending order; console output sorts explicitly.
func AnalyzeByState(ds domain.Dataset) map[string]domain.StateSummary {
	groups := make(map[string]domain.Dataset)
	for i := range ds {
		groups[ds[i].State] = append(groups[ds[i].State], ds[i])
	}

	out := make(map[string]domain.StateSummary, len(groups))
	for state, recs := range groups {
		out[state] = domain.StateSummary{
			Count:             len(recs),
			AvgIncome:         meanOf(collect(recs, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.TotalIncome })),
			AvgStateTax:       meanOf(collect(recs, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.StateTax })),
			AvgFederalTax:     meanOf(collect(recs, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.FederalTax })),
			AvgTotalTax:       meanOf(collect(recs, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.TotalTaxLiability })),
			AvgEffectiveRate:  meanOf(collect(recs, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.EffectiveTaxRate })),
			TotalStateRevenue: sumOf(collect(recs, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.StateTax })).Round(2),
		}
	}
	return out
}

// AnalyzeCapitalGains reports on filers with capital gains and dividends.
func AnalyzeCapitalGains(ds domain.Dataset) domain.CapitalGains {
	var cgFilers domain.Dataset
	var dividends []decimal.Decimal
	for i := range ds {
		if ds[i].CapitalGains.IsPositive() {
			cgFilers = append(cgFilers, ds[i])
		}
		if ds[i].DividendIncome.IsPositive() {
			dividends = append(dividends, ds[i].DividendIncome)
		}
	}

	var cgPct []decimal.Decimal
	for i := range cgFilers {
		r := &cgFilers[i]
		if r.TotalIncome.IsPositive() {
			cgPct = append(cgPct, r.CapitalGains.Div(r.TotalIncome).Mul(oneHundred).Round(2))
		}
	}

	return domain.CapitalGains{
		CGFilerCount:        len(cgFilers),
		CGFilerPct:          share(len(cgFilers), len(ds), 1),
		CapitalGainsStats:   stats.Describe(collect(cgFilers, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.CapitalGains })),
		DividendIncomeStats: stats.Describe(dividends),
		AvgCGPctOfIncome:    meanOf(cgPct),
	}
}

// AnalyzeCreditsDependents reports dependent counts and child tax credits.
func AnalyzeCreditsDependents(ds domain.Dataset) domain.CreditsDependents {
	freq := make(map[int]int)
	liabilityByDeps := make(map[int][]decimal.Decimal)
	credits := make([]decimal.Decimal, 0, len(ds))
	for i := range ds {
		r := &ds[i]
		freq[r.Dependents]++
		liabilityByDeps[r.Dependents] = append(liabilityByDeps[r.Dependents], r.TotalTaxLiability)
		credits = append(credits, r.ChildTaxCredit)
	}

	dist := make([]domain.DependentCount, 0, len(freq))
	for deps, count := range freq {
		dist = append(dist, domain.DependentCount{Dependents: deps, Count: count})
	}
	sort.Slice(dist, func(i, j int) bool { return dist[i].Dependents < dist[j].Dependents })

	avgTax := make([]domain.DependentAvgTax, 0, len(liabilityByDeps))
	for deps, vals := range liabilityByDeps {
		avgTax = append(avgTax, domain.DependentAvgTax{Dependents: deps, AvgTax: meanOf(vals)})
	}
	sort.Slice(avgTax, func(i, j int) bool { return avgTax[i].Dependents < avgTax[j].Dependents })

	return domain.CreditsDependents{
		DependentDistribution: dist,
		CreditStats:           stats.Describe(credits),
		AvgTaxByDependents:    avgTax,
		AvgCredit:             meanOf(credits),
		TotalCreditsClaimed:   sumOf(credits).Round(2),
	}
}

// AnalyzeFICA reports payroll tax statistics.
func AnalyzeFICA(ds domain.Dataset) domain.FICA {
	ss := collect(ds, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.SocialSecurityTax })
	medicare := collect(ds, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.MedicareTax })
	fica := collect(ds, func(r *domain.TaxpayerRecord) decimal.Decimal { return r.FICATotal })

	var ficaPct []decimal.Decimal
	for i := range ds {
		r := &ds[i]
		if r.TotalIncome.IsPositive() {
			ficaPct = append(ficaPct, r.FICATotal.Div(r.TotalIncome).Mul(oneHundred).Round(2))
		}
	}

	return domain.FICA{
		SocialSecurityStats: stats.Describe(ss),
		MedicareStats:       stats.Describe(medicare),
		FICATotalStats:      stats.Describe(fica),
		AvgFICAPctOfIncome:  meanOf(ficaPct),
		TotalFICACollected:  sumOf(fica).Round(2),
	}
}

// RunFullAnalysis composes all nine sections into an AggregateReport.
func RunFullAnalysis(ds domain.Dataset) *domain.AggregateReport {
	return &domain.AggregateReport{
		Summary:           Summarize(ds),
		Income:            AnalyzeIncomeDistribution(ds),
		TaxRates:          AnalyzeTaxRates(ds),
		Deductions:        AnalyzeDeductions(ds),
		Refunds:           AnalyzeRefunds(ds),
		ByState:           AnalyzeByState(ds),
		CapitalGains:      AnalyzeCapitalGains(ds),
		CreditsDependents: AnalyzeCreditsDependents(ds),
		FICA:              AnalyzeFICA(ds),
	}
}

// collect extracts one numeric field from every record.
func collect(ds domain.Dataset, field func(*domain.TaxpayerRecord) decimal.Decimal) []decimal.Decimal {
	vals := make([]decimal.Decimal, 0, len(ds))
	for i := range ds {
		vals = append(vals, field(&ds[i]))
	}
	return vals
}

// groupValues builds an explicit key -> values map for grouped statistics.
func groupValues(ds domain.Dataset, key func(*domain.TaxpayerRecord) string, field func(*domain.TaxpayerRecord) decimal.Decimal) map[string][]decimal.Decimal {
	groups := make(map[string][]decimal.Decimal)
	for i := range ds {
		k := key(&ds[i])
		groups[k] = append(groups[k], field(&ds[i]))
	}
	return groups
}

// meanOf averages values rounded to 2 places; empty input yields 0.
func meanOf(vals []decimal.Decimal) decimal.Decimal {
	if len(vals) == 0 {
		return decimal.Zero
	}
	return sumOf(vals).Div(decimal.NewFromInt(int64(len(vals)))).Round(2)
}

func sumOf(vals []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range vals {
		total = total.Add(v)
	}
	return total
}

// share returns count/total*100 rounded to places; 0 when total is 0.
func share(count, total int, places int32) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(count)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(oneHundred).Round(places)
}
