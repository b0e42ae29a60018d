package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wrencode/crypto-gains-calculator/internal/model"
)

// GainsHeader is the CSV header for the capital gains export.
const GainsHeader = "tx_count,lot_description,date_acquired,date_sold,sales_proceeds,cost_basis,capital_gain_or_loss,short_term,long_term"

// IncomeHeader is the CSV header for the taxable income export.
const IncomeHeader = "tx_count,lot_description,date_acquired,cost_basis"

const (
	numGainFields  = 9
	colCount       = 0
	colDescription = 1
	colAcquired    = 2
	colSold        = 3
	colProceeds    = 4
	colCostBasis   = 5
	colGain        = 6
	colShortTerm   = 7
	colLongTerm    = 8
)

// WriteGains writes capital gains lots (including header). tx_count is 1-based.
func WriteGains(w io.Writer, rows []model.TaxableTransaction, dateFormat string) error {
	return writeRows(w, GainsHeader, len(rows), func(i int) []string {
		return MarshalGain(i+1, rows[i], dateFormat)
	})
}

// WriteIncome writes income lots (including header). tx_count is 1-based.
func WriteIncome(w io.Writer, rows []model.TaxableTransaction, dateFormat string) error {
	return writeRows(w, IncomeHeader, len(rows), func(i int) []string {
		return MarshalIncome(i+1, rows[i], dateFormat)
	})
}

func writeRows(w io.Writer, header string, n int, row func(int) []string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalGain converts a capital gains lot to a CSV row.
func MarshalGain(count int, lot model.TaxableTransaction, dateFormat string) []string {
	row := make([]string, numGainFields)
	row[colCount] = strconv.Itoa(count)
	row[colDescription] = lot.LotDescription
	row[colAcquired] = formatDate(lot.DateAcquired, dateFormat)
	row[colSold] = formatDate(lot.DateSold, dateFormat)
	row[colProceeds] = formatAmount(lot.SalesProceeds)
	row[colCostBasis] = formatAmount(lot.CostBasis)
	row[colGain] = formatAmount(lot.CapitalGainOrLoss)
	row[colShortTerm] = formatBool(lot.ShortTerm)
	row[colLongTerm] = formatBool(lot.LongTerm)
	return row
}

// MarshalIncome converts an income lot to a CSV row.
func MarshalIncome(count int, lot model.TaxableTransaction, dateFormat string) []string {
	return []string{
		strconv.Itoa(count),
		lot.LotDescription,
		formatDate(lot.DateAcquired, dateFormat),
		formatAmount(lot.CostBasis),
	}
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if layout == "" {
		layout = model.DateFormat
	}
	return t.Format(layout)
}

func formatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(0)
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
