package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TaxableTransaction is a reportable lot: a matched acquisition/disposal
// pair, or an income event with no disposal (TxOut nil). Derived fields are
// fixed at construction.
type TaxableTransaction struct {
	Cryptocurrency    string
	TxIn              *Transaction
	TxOut             *Transaction
	DateAcquired      time.Time // zero if TxIn is nil
	DateSold          time.Time // zero if TxOut is nil
	CostBasis         decimal.NullDecimal
	SalesProceeds     decimal.NullDecimal
	CapitalGainOrLoss decimal.NullDecimal
	ShortTerm         *bool
	LongTerm          *bool
	LotDescription    string
}

// NewTaxableTransaction derives cost basis, proceeds, gain/loss and holding
// term from the two legs. Either leg may be nil.
func NewTaxableTransaction(cryptocurrency string, in, out *Transaction) TaxableTransaction {
	cryptocurrency = strings.ToUpper(cryptocurrency)
	tt := TaxableTransaction{
		Cryptocurrency: cryptocurrency,
		TxIn:           in,
		TxOut:          out,
	}

	if in != nil {
		tt.DateAcquired = in.Timestamp
		tt.CostBasis = decimal.NewNullDecimal(roundWhole(in.FiatValue.Sub(in.FiatTxFee)))
	}
	if out != nil {
		tt.DateSold = out.Timestamp
		tt.SalesProceeds = decimal.NewNullDecimal(roundWhole(out.FiatValue.Sub(out.FiatTxFee)))
	}
	if tt.CostBasis.Valid && tt.SalesProceeds.Valid {
		tt.CapitalGainOrLoss = decimal.NewNullDecimal(roundWhole(tt.SalesProceeds.Decimal.Sub(tt.CostBasis.Decimal)))
	}
	if in != nil && out != nil {
		short := WholeYearsBetween(tt.DateAcquired, tt.DateSold) == 0
		long := !short
		tt.ShortTerm = &short
		tt.LongTerm = &long
	}

	switch {
	case in != nil:
		tt.LotDescription = fmt.Sprintf("%s %s - CRYPTO", in.CurrencyOutVolume.StringFixed(2), cryptocurrency)
	case out != nil:
		tt.LotDescription = fmt.Sprintf("%s %s - CRYPTO", out.CurrencyInVolume.StringFixed(2), cryptocurrency)
	}
	return tt
}

// IsIncome reports whether the lot is an income event with no disposal.
func (t TaxableTransaction) IsIncome() bool {
	return t.TxIn != nil && t.TxOut == nil
}

// IsShortTerm reports the holding term, false when undefined.
func (t TaxableTransaction) IsShortTerm() bool {
	return t.ShortTerm != nil && *t.ShortTerm
}

// DateAcquiredStr formats DateAcquired, or "" when absent.
func (t TaxableTransaction) DateAcquiredStr() string {
	return formatDate(t.DateAcquired)
}

// DateSoldStr formats DateSold, or "" when absent.
func (t TaxableTransaction) DateSoldStr() string {
	return formatDate(t.DateSold)
}

func formatDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateFormat)
}

// WholeYearsBetween returns the number of complete calendar years from a to
// b. An anniversary on Feb 29 falls on Feb 28 in non-leap years.
func WholeYearsBetween(a, b time.Time) int {
	if b.Before(a) {
		return -WholeYearsBetween(b, a)
	}
	years := b.Year() - a.Year()
	if years > 0 && b.Before(anniversary(a, years)) {
		years--
	}
	return years
}

func anniversary(t time.Time, years int) time.Time {
	y := t.Year() + years
	d := t.Day()
	if last := daysIn(t.Month(), y); d > last {
		d = last
	}
	return time.Date(y, t.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
