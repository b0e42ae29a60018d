package lots

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/wrencode/crypto-gains-calculator/internal/assets"
	"github.com/wrencode/crypto-gains-calculator/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// buy acquires volume of asset for value USD.
func buy(id int, d time.Time, asset, volume, value string) model.Transaction {
	return model.Transaction{
		TxID:                 id,
		Type:                 model.TxBuy,
		Timestamp:            d,
		FiatValue:            dec(value),
		FiatTxFee:            decimal.Zero,
		CurrencyIn:           "USD",
		CurrencyInVolume:     dec(value),
		CurrencyInFiatPrice:  dec("1"),
		CurrencyOut:          asset,
		CurrencyOutVolume:    dec(volume),
		CurrencyOutFiatPrice: dec(value).Div(dec(volume)),
	}
}

// sell disposes volume of asset for value USD.
func sell(id int, d time.Time, asset, volume, value string) model.Transaction {
	return model.Transaction{
		TxID:                 id,
		Type:                 model.TxSell,
		Timestamp:            d,
		FiatValue:            dec(value),
		FiatTxFee:            decimal.Zero,
		CurrencyIn:           asset,
		CurrencyInVolume:     dec(volume),
		CurrencyInFiatPrice:  dec(value).Div(dec(volume)),
		CurrencyOut:          "USD",
		CurrencyOutVolume:    dec(value),
		CurrencyOutFiatPrice: dec("1"),
		Taxable:              true,
	}
}

// transact moves volume from one ticker to another, valued at value USD.
func transact(id int, d time.Time, from, to, volume, value string) model.Transaction {
	return model.Transaction{
		TxID:              id,
		Type:              model.TxTransact,
		Timestamp:         d,
		FiatValue:         dec(value),
		FiatTxFee:         decimal.Zero,
		CurrencyIn:        from,
		CurrencyInVolume:  dec(volume),
		CurrencyOut:       to,
		CurrencyOutVolume: dec(volume),
		Taxable:           true,
	}
}

// universe tracks tickers as if each had been bought once.
func universe(tickers ...string) *assets.Service {
	txs := lo.Map(tickers, func(ticker string, _ int) model.Transaction {
		return model.Transaction{Type: model.TxBuy, CurrencyIn: "USD", CurrencyOut: ticker}
	})
	return assets.NewService(txs, "USD")
}
