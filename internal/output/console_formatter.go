package output

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/taxlytics/taxlytics/internal/domain"
	"github.com/taxlytics/taxlytics/pkg/stats"
)

// ConsoleFormatter renders the full sectioned text report with bar charts.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.AggregateReport) ([]byte, error) {
	var buf bytes.Buffer
	c.writeSummary(&buf, report)
	c.writeIncome(&buf, report)
	c.writeTaxRates(&buf, report)
	c.writeDeductions(&buf, report)
	c.writeRefunds(&buf, report)
	c.writeByState(&buf, report)
	c.writeCapitalGains(&buf, report)
	c.writeCreditsDependents(&buf, report)
	c.writeFICA(&buf, report)
	return buf.Bytes(), nil
}

func (c ConsoleFormatter) writeSummary(buf *bytes.Buffer, report *domain.AggregateReport) {
	s := report.Summary
	section(buf, "EXECUTIVE SUMMARY")
	rows := []struct{ label, value string }{
		{"Total Taxpayers", fmt.Sprintf("%d", s.TotalTaxpayers)},
		{"Total Income Reported", FormatCurrency(s.TotalIncomeReported)},
		{"Avg. Income per Filer", FormatCurrency(s.AvgIncome)},
		{"Total Federal Tax", FormatCurrency(s.TotalFederalTax)},
		{"Total State Tax", FormatCurrency(s.TotalStateTax)},
		{"Total FICA", FormatCurrency(s.TotalFICA)},
		{"Total Tax Collected", FormatCurrency(s.TotalTaxCollected)},
		{"Overall Effective Rate", FormatPercentage(s.OverallEffectiveRate)},
		{"Avg. Tax per Filer", FormatCurrency(s.AvgTotalTax)},
		{"Total Refunds Issued", FormatCurrency(s.TotalRefundsIssued)},
		{"Total Tax Owed", FormatCurrency(s.TotalTaxOwed)},
	}
	for _, row := range rows {
		fmt.Fprintf(buf, "  %-32s %18s\n", row.label, row.value)
	}
}

func (c ConsoleFormatter) writeIncome(buf *bytes.Buffer, report *domain.AggregateReport) {
	inc := report.Income
	section(buf, "INCOME DISTRIBUTION")

	subsection(buf, "Overall Income Statistics")
	writeMoneyStats(buf, inc.OverallStats)

	subsection(buf, "Income Bracket Distribution")
	maxCount := 1
	for _, b := range inc.BracketDistribution {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	for _, b := range inc.BracketDistribution {
		fmt.Fprintf(buf, "  %-18s %s  %4d (%5s%%)\n", b.Label, bar(b.Count, maxCount), b.Count, b.Percent.StringFixed(1))
	}

	subsection(buf, "Average Income by Income Source")
	for _, src := range sortedKeys(inc.ByIncomeSource) {
		st := inc.ByIncomeSource[src]
		fmt.Fprintf(buf, "  %-22s mean=%s  n=%4d\n", src, FormatCurrency(st.Mean), st.Count)
	}
}

func (c ConsoleFormatter) writeTaxRates(buf *bytes.Buffer, report *domain.AggregateReport) {
	tr := report.TaxRates
	section(buf, "TAX RATE ANALYSIS")

	subsection(buf, "Effective Tax Rate Distribution")
	writePercentStats(buf, tr.EffectiveRateStats)

	subsection(buf, "Marginal Rate Distribution")
	maxCount := 1
	for _, m := range tr.MarginalDistribution {
		if m.Count > maxCount {
			maxCount = m.Count
		}
	}
	for _, m := range tr.MarginalDistribution {
		fmt.Fprintf(buf, "  %-8s %s  %4d\n", fmt.Sprintf("%d%%", m.Rate), bar(m.Count, maxCount), m.Count)
	}

	subsection(buf, "By Filing Status")
	for _, status := range domain.FilingStatuses {
		info := tr.ByFilingStatus[status]
		fmt.Fprintf(buf, "  %-10s  n=%4d  avg_effective=%-10s  avg_federal=%s\n",
			status, info.Count, FormatPercentage(info.AvgEffective), FormatCurrency(info.AvgFederalTax))
	}
}

func (c ConsoleFormatter) writeDeductions(buf *bytes.Buffer, report *domain.AggregateReport) {
	d := report.Deductions
	section(buf, "DEDUCTION ANALYSIS")

	fmt.Fprintf(buf, "  Itemizers:         %5d  (%s%%)\n", d.ItemizerCount, d.ItemizerPct.StringFixed(1))
	fmt.Fprintf(buf, "  Standard Filers:   %5d\n", d.StandardFilerCount)
	fmt.Fprintf(buf, "  Avg Itemized Total: %s\n", FormatCurrency(d.AvgItemizedTotal))
	fmt.Fprintf(buf, "  Avg Std Deduction:  %s\n", FormatCurrency(d.AvgStandardDeduction))
	fmt.Fprintf(buf, "  Avg Tax Saved (itemize vs std): %s\n", FormatCurrency(d.AvgTaxSavingsItemize))

	subsection(buf, "Itemized Category Averages (among itemizers)")
	for _, cat := range sortedKeys(d.CategoryBreakdown) {
		st := d.CategoryBreakdown[cat]
		fmt.Fprintf(buf, "  %-28s mean=%s  n=%4d\n", cat, FormatCurrency(st.Mean), st.Count)
	}
}

func (c ConsoleFormatter) writeRefunds(buf *bytes.Buffer, report *domain.AggregateReport) {
	r := report.Refunds
	section(buf, "REFUND / AMOUNT OWED ANALYSIS")

	fmt.Fprintf(buf, "  Receiving Refund:  %5d  (%s%%)\n", r.RefundCount, r.OverWithheldPct.StringFixed(1))
	fmt.Fprintf(buf, "  Owe Taxes:         %5d\n", r.OwedCount)

	subsection(buf, "Refund Statistics")
	writeMoneyStats(buf, r.RefundStats)

	subsection(buf, "Amount Owed Statistics")
	writeMoneyStats(buf, r.OwedStats)

	subsection(buf, "Refund Bucket Distribution")
	maxCount := 1
	for _, b := range r.BucketDistribution {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	for _, b := range r.BucketDistribution {
		fmt.Fprintf(buf, "  %-24s %s  %4d\n", b.Label, bar(b.Count, maxCount), b.Count)
	}
}

func (c ConsoleFormatter) writeByState(buf *bytes.Buffer, report *domain.AggregateReport) {
	section(buf, "STATE-LEVEL COMPARISON")
	fmt.Fprintf(buf, "  %-6s %5s  %14s  %14s  %14s  %10s\n",
		"State", "Count", "Avg Income", "Avg State Tax", "Avg Total Tax", "Eff Rate")
	fmt.Fprintln(buf, "  "+strings.Repeat("-", 70))
	for _, state := range sortedKeys(report.ByState) {
		info := report.ByState[state]
		fmt.Fprintf(buf, "  %-6s %5d  %14s  %14s  %14s  %10s\n",
			state, info.Count,
			FormatCurrency(info.AvgIncome),
			FormatCurrency(info.AvgStateTax),
			FormatCurrency(info.AvgTotalTax),
			FormatPercentage(info.AvgEffectiveRate))
	}
}

func (c ConsoleFormatter) writeCapitalGains(buf *bytes.Buffer, report *domain.AggregateReport) {
	cg := report.CapitalGains
	section(buf, "CAPITAL GAINS & DIVIDENDS")

	fmt.Fprintf(buf, "  Filers with Capital Gains: %5d (%s%%)\n", cg.CGFilerCount, cg.CGFilerPct.StringFixed(1))
	fmt.Fprintf(buf, "  Avg CG as %% of Income:     %s\n", FormatPercentage(cg.AvgCGPctOfIncome))

	subsection(buf, "Capital Gains Statistics")
	writeMoneyStats(buf, cg.CapitalGainsStats)

	subsection(buf, "Dividend Income Statistics")
	writeMoneyStats(buf, cg.DividendIncomeStats)
}

func (c ConsoleFormatter) writeCreditsDependents(buf *bytes.Buffer, report *domain.AggregateReport) {
	cd := report.CreditsDependents
	section(buf, "DEPENDENTS & CREDITS")

	subsection(buf, "Dependent Distribution")
	maxCount := 1
	for _, d := range cd.DependentDistribution {
		if d.Count > maxCount {
			maxCount = d.Count
		}
	}
	for _, d := range cd.DependentDistribution {
		fmt.Fprintf(buf, "  %d dependent(s): %s  %4d\n", d.Dependents, bar(d.Count, maxCount), d.Count)
	}

	subsection(buf, "Average Total Tax by Number of Dependents")
	for _, d := range cd.AvgTaxByDependents {
		fmt.Fprintf(buf, "  %d dependent(s): %s\n", d.Dependents, FormatCurrency(d.AvgTax))
	}

	fmt.Fprintf(buf, "\n  Avg Child Tax Credit:    %s\n", FormatCurrency(cd.AvgCredit))
	fmt.Fprintf(buf, "  Total Credits Claimed:   %s\n", FormatCurrency(cd.TotalCreditsClaimed))
}

func (c ConsoleFormatter) writeFICA(buf *bytes.Buffer, report *domain.AggregateReport) {
	f := report.FICA
	section(buf, "FICA / PAYROLL TAX ANALYSIS")

	fmt.Fprintf(buf, "  Avg FICA as %% of Income: %s\n", FormatPercentage(f.AvgFICAPctOfIncome))
	fmt.Fprintf(buf, "  Total FICA Collected:    %s\n", FormatCurrency(f.TotalFICACollected))

	subsection(buf, "Social Security Tax")
	writeMoneyStats(buf, f.SocialSecurityStats)

	subsection(buf, "Medicare Tax")
	writeMoneyStats(buf, f.MedicareStats)
}

func section(buf *bytes.Buffer, title string) {
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, strings.Repeat("=", 65))
	fmt.Fprintf(buf, "  %s\n", title)
	fmt.Fprintln(buf, strings.Repeat("=", 65))
}

func subsection(buf *bytes.Buffer, title string) {
	fmt.Fprintf(buf, "\n  --- %s ---\n", title)
}

// bar renders an ASCII gauge scaled against the largest count in the group.
func bar(value, max int) string {
	const width = 30
	filled := 0
	if max > 0 {
		filled = value * width / max
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func writeMoneyStats(buf *bytes.Buffer, s stats.Summary) {
	if s.Empty() {
		fmt.Fprintln(buf, "    (no data)")
		return
	}
	fmt.Fprintf(buf, "    %-12s %18d\n", "count", s.Count)
	fmt.Fprintf(buf, "    %-12s %18s\n", "mean", FormatCurrency(s.Mean))
	fmt.Fprintf(buf, "    %-12s %18s\n", "median", FormatCurrency(s.Median))
	fmt.Fprintf(buf, "    %-12s %18s\n", "stdev", FormatCurrency(s.Stdev))
	fmt.Fprintf(buf, "    %-12s %18s\n", "min", FormatCurrency(s.Min))
	fmt.Fprintf(buf, "    %-12s %18s\n", "max", FormatCurrency(s.Max))
	fmt.Fprintf(buf, "    %-12s %18s\n", "total", FormatCurrency(s.Total))
}

func writePercentStats(buf *bytes.Buffer, s stats.Summary) {
	if s.Empty() {
		fmt.Fprintln(buf, "    (no data)")
		return
	}
	fmt.Fprintf(buf, "    %-12s %14d\n", "count", s.Count)
	fmt.Fprintf(buf, "    %-12s %14s\n", "mean", FormatPercentage(s.Mean))
	fmt.Fprintf(buf, "    %-12s %14s\n", "median", FormatPercentage(s.Median))
	fmt.Fprintf(buf, "    %-12s %14s\n", "stdev", FormatPercentage(s.Stdev))
	fmt.Fprintf(buf, "    %-12s %14s\n", "min", FormatPercentage(s.Min))
	fmt.Fprintf(buf, "    %-12s %14s\n", "max", FormatPercentage(s.Max))
	fmt.Fprintf(buf, "    %-12s %14s\n", "total", FormatPercentage(s.Total))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
