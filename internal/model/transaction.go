package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TxType tags a ledger transaction.
type TxType string

const (
	TxBuy      TxType = "BUY"
	TxSell     TxType = "SELL"
	TxTrade    TxType = "TRADE"
	TxTransact TxType = "TRANSACT"
)

// ParseTxType parses a ledger tx_type value, ignoring case and surrounding space.
func ParseTxType(s string) (TxType, error) {
	switch t := TxType(strings.ToUpper(strings.TrimSpace(s))); t {
	case TxBuy, TxSell, TxTrade, TxTransact:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// DefaultTaxable is the taxability a transaction of this type gets when the
// ledger does not state it. Only buys are non-taxable.
func (t TxType) DefaultTaxable() bool {
	return t != TxBuy
}

// Label returns the type as a display name, e.g. "Buy".
func (t TxType) Label() string {
	s := strings.ToLower(string(t))
	if s == "" {
		return "Transaction"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Flow is the direction an asset moves relative to the holder.
type Flow string

const (
	FlowIn  Flow = "in"  // acquisition
	FlowOut Flow = "out" // disposal
)

// Opposite returns the other flow.
func (f Flow) Opposite() Flow {
	if f == FlowIn {
		return FlowOut
	}
	return FlowIn
}

// Transaction is one normalized ledger event. For a buy, CurrencyIn is the
// consideration paid and CurrencyOut the asset acquired; a sell is the reverse.
// Values are copied, never mutated: Scale returns a new record.
type Transaction struct {
	TxID                 int
	Type                 TxType
	Timestamp            time.Time
	FiatValue            decimal.Decimal
	FiatTxFee            decimal.Decimal
	CurrencyIn           string
	CurrencyInVolume     decimal.Decimal
	CurrencyInFiatPrice  decimal.Decimal
	CurrencyOut          string
	CurrencyOutVolume    decimal.Decimal
	CurrencyOutFiatPrice decimal.Decimal
	Taxable              bool
	Description          string
}

// Normalize uppercases tickers and rounds every amount to Precision.
func (t Transaction) Normalize() Transaction {
	t.CurrencyIn = strings.ToUpper(strings.TrimSpace(t.CurrencyIn))
	t.CurrencyOut = strings.ToUpper(strings.TrimSpace(t.CurrencyOut))
	t.FiatValue = Round(t.FiatValue)
	t.FiatTxFee = Round(t.FiatTxFee)
	t.CurrencyInVolume = Round(t.CurrencyInVolume)
	t.CurrencyInFiatPrice = Round(t.CurrencyInFiatPrice)
	t.CurrencyOutVolume = Round(t.CurrencyOutVolume)
	t.CurrencyOutFiatPrice = Round(t.CurrencyOutFiatPrice)
	return t
}

// FinalValue is the fiat value net of the fee.
func (t Transaction) FinalValue() decimal.Decimal {
	return Round(t.FiatValue.Sub(t.FiatTxFee))
}

// IsTaxableEvent reports whether the transaction type is a disposal in itself.
func (t Transaction) IsTaxableEvent() bool {
	return t.Type.DefaultTaxable()
}

// Volume returns the asset quantity moving in the given flow: the acquired
// volume (CurrencyOutVolume) for FlowIn, the disposed volume
// (CurrencyInVolume) for FlowOut.
func (t Transaction) Volume(f Flow) decimal.Decimal {
	if f == FlowIn {
		return t.CurrencyOutVolume
	}
	return t.CurrencyInVolume
}

// Asset returns the ticker moving in the given flow.
func (t Transaction) Asset(f Flow) string {
	if f == FlowIn {
		return t.CurrencyOut
	}
	return t.CurrencyIn
}

// Scale returns a copy with both volumes, the fiat value and the fee
// multiplied by pct and rounded. Timestamps, prices and tickers are kept.
func (t Transaction) Scale(pct decimal.Decimal) Transaction {
	t.CurrencyInVolume = Round(t.CurrencyInVolume.Mul(pct))
	t.CurrencyOutVolume = Round(t.CurrencyOutVolume.Mul(pct))
	t.FiatValue = Round(t.FiatValue.Mul(pct))
	t.FiatTxFee = Round(t.FiatTxFee.Mul(pct))
	return t
}

func (t Transaction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(tx_id=%d, timestamp=%s, fiat_value=%s, fiat_tx_fee=%s, ",
		t.Type.Label(), t.TxID, t.Timestamp.Format(DateFormat), t.FiatValue, t.FiatTxFee)
	fmt.Fprintf(&b, "currency_in=%s, currency_in_volume=%s, currency_in_fiat_price=%s, ",
		t.CurrencyIn, t.CurrencyInVolume, t.CurrencyInFiatPrice)
	fmt.Fprintf(&b, "currency_out=%s, currency_out_volume=%s, currency_out_fiat_price=%s, taxable=%t",
		t.CurrencyOut, t.CurrencyOutVolume, t.CurrencyOutFiatPrice, t.Taxable)
	if t.Description != "" {
		fmt.Fprintf(&b, ", description=%s", t.Description)
	}
	b.WriteString(")")
	return b.String()
}
