package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Decompose splits a trade of CurrencyIn for CurrencyOut into a synthetic
// buy of CurrencyOut paid in fiat and a synthetic sell of CurrencyIn for
// fiat. Both legs share the trade's id, timestamp, fiat value and fee.
func (t Transaction) Decompose(fiatCurrency string) (buy, sell Transaction, err error) {
	if t.Type != TxTrade {
		return Transaction{}, Transaction{}, fmt.Errorf("%w: tx %d is %s", ErrNotTrade, t.TxID, t.Type)
	}

	buy = Transaction{
		TxID:                 t.TxID,
		Type:                 TxBuy,
		Timestamp:            t.Timestamp,
		FiatValue:            t.FiatValue,
		FiatTxFee:            t.FiatTxFee,
		CurrencyIn:           fiatCurrency,
		CurrencyInVolume:     t.FiatValue,
		CurrencyInFiatPrice:  decimal.NewFromInt(1),
		CurrencyOut:          t.CurrencyOut,
		CurrencyOutVolume:    t.CurrencyOutVolume,
		CurrencyOutFiatPrice: t.CurrencyOutFiatPrice,
		Taxable:              false,
		Description:          "Buy component of trade: " + t.String(),
	}.Normalize()

	sell = Transaction{
		TxID:                 t.TxID,
		Type:                 TxSell,
		Timestamp:            t.Timestamp,
		FiatValue:            t.FiatValue,
		FiatTxFee:            t.FiatTxFee,
		CurrencyIn:           t.CurrencyIn,
		CurrencyInVolume:     t.CurrencyInVolume,
		CurrencyInFiatPrice:  t.CurrencyInFiatPrice,
		CurrencyOut:          fiatCurrency,
		CurrencyOutVolume:    t.FiatValue,
		CurrencyOutFiatPrice: decimal.NewFromInt(1),
		Taxable:              true,
		Description:          "Sell component of trade: " + t.String(),
	}.Normalize()

	return buy, sell, nil
}
