package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/wrencode/crypto-gains-calculator/internal/lots"
	"github.com/wrencode/crypto-gains-calculator/internal/model"
)

// Rule separates the gains and income tables.
var Rule = strings.Repeat("-", 100)

// Summary totals a report.
type Summary struct {
	ShortTerm  decimal.Decimal
	LongTerm   decimal.Decimal
	Income     decimal.Decimal
	GainLots   int
	IncomeLots int
}

// Summarize totals the gains by holding term and the income by cost basis.
func Summarize(r *lots.Report) Summary {
	s := Summary{
		ShortTerm:  decimal.Zero,
		LongTerm:   decimal.Zero,
		Income:     decimal.Zero,
		GainLots:   len(r.CapitalGains),
		IncomeLots: len(r.Income),
	}
	for _, lot := range r.CapitalGains {
		if !lot.CapitalGainOrLoss.Valid {
			continue
		}
		if lot.IsShortTerm() {
			s.ShortTerm = s.ShortTerm.Add(lot.CapitalGainOrLoss.Decimal)
		} else {
			s.LongTerm = s.LongTerm.Add(lot.CapitalGainOrLoss.Decimal)
		}
	}
	for _, lot := range r.Income {
		if lot.CostBasis.Valid {
			s.Income = s.Income.Add(lot.CostBasis.Decimal)
		}
	}
	return s
}

// PrintReport renders the gains table, a rule, the income table and totals.
func PrintReport(w io.Writer, r *lots.Report, dateFormat string) error {
	if err := PrintGains(w, r.CapitalGains, dateFormat); err != nil {
		return err
	}
	fmt.Fprintln(w, Rule)
	if err := PrintIncome(w, r.Income, dateFormat); err != nil {
		return err
	}
	fmt.Fprintln(w)

	s := Summarize(r)
	fmt.Fprintf(w, "Short-term gain/loss: %s (%d lots)\n", s.ShortTerm.StringFixed(0), countTerm(r.CapitalGains, true))
	fmt.Fprintf(w, "Long-term gain/loss:  %s (%d lots)\n", s.LongTerm.StringFixed(0), countTerm(r.CapitalGains, false))
	fmt.Fprintf(w, "Taxable income:       %s (%d lots)\n", s.Income.StringFixed(0), s.IncomeLots)
	return nil
}

// PrintGains renders capital gains lots as an aligned table.
func PrintGains(w io.Writer, rows []model.TaxableTransaction, dateFormat string) error {
	tw := newTable(w, GainsHeader)
	for i, lot := range rows {
		fmt.Fprintln(tw, strings.Join(MarshalGain(i+1, lot, dateFormat), "\t"))
	}
	return tw.Flush()
}

// PrintIncome renders income lots as an aligned table.
func PrintIncome(w io.Writer, rows []model.TaxableTransaction, dateFormat string) error {
	tw := newTable(w, IncomeHeader)
	for i, lot := range rows {
		fmt.Fprintln(tw, strings.Join(MarshalIncome(i+1, lot, dateFormat), "\t"))
	}
	return tw.Flush()
}

// PrintHoldings renders the unconsumed acquisitions per asset.
func PrintHoldings(w io.Writer, holdings []lots.Holding) error {
	tw := newTable(w, "asset,lots,volume,cost_basis,average_cost")
	for _, h := range holdings {
		avg := "-"
		if h.Volume.IsPositive() {
			avg = h.Cost.Div(h.Volume).StringFixed(2)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", h.Asset, len(h.Lots), h.Volume.String(), h.Cost.StringFixed(2), avg)
	}
	return tw.Flush()
}

func newTable(w io.Writer, header string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ReplaceAll(header, ",", "\t"))
	return tw
}

func countTerm(gains []model.TaxableTransaction, short bool) int {
	return lo.CountBy(gains, func(lot model.TaxableTransaction) bool {
		return lot.ShortTerm != nil && lot.IsShortTerm() == short
	})
}
