package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wrencode/crypto-gains-calculator/internal/model"
)

// Rule names a ledger validation check.
type Rule string

const (
	RuleNonNegative Rule = "non_negative"
	RuleType        Rule = "tx_type"
	RuleTicker      Rule = "ticker"
	RuleBuyFiat     Rule = "buy_pays_fiat"
	RuleSellFiat    Rule = "sell_receives_fiat"
	RuleTradeCrypto Rule = "trade_crypto"
	RuleTimestamp   Rule = "timestamp"
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule        Rule
	TxID        int
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("rule %s [tx %d]: %s", e.Rule, e.TxID, e.Description)
}

// ValidateTransactions checks every transaction against the ledger rules.
func ValidateTransactions(txs []model.Transaction, fiat string) []ValidationError {
	fiat = strings.ToUpper(fiat)
	var errs []ValidationError
	add := func(rule Rule, tx model.Transaction, format string, args ...any) {
		errs = append(errs, ValidationError{Rule: rule, TxID: tx.TxID, Description: fmt.Sprintf(format, args...)})
	}

	for _, tx := range txs {
		amounts := []struct {
			name string
			v    decimal.Decimal
		}{
			{"fiat_value", tx.FiatValue},
			{"fiat_tx_fee", tx.FiatTxFee},
			{"currency_in_volume", tx.CurrencyInVolume},
			{"currency_in_fiat_price", tx.CurrencyInFiatPrice},
			{"currency_out_volume", tx.CurrencyOutVolume},
			{"currency_out_fiat_price", tx.CurrencyOutFiatPrice},
		}
		for _, a := range amounts {
			if a.v.IsNegative() {
				add(RuleNonNegative, tx, "%s is negative (%s)", a.name, a.v)
			}
		}

		if tx.Timestamp.IsZero() {
			add(RuleTimestamp, tx, "missing timestamp")
		}

		if tx.CurrencyIn == "" || tx.CurrencyOut == "" {
			add(RuleTicker, tx, "currency_in and currency_out are required")
			continue
		}

		switch tx.Type {
		case model.TxBuy:
			if tx.CurrencyIn != fiat {
				add(RuleBuyFiat, tx, "buy pays with %s, expected %s", tx.CurrencyIn, fiat)
			}
		case model.TxSell:
			if tx.CurrencyOut != fiat {
				add(RuleSellFiat, tx, "sell receives %s, expected %s", tx.CurrencyOut, fiat)
			}
		case model.TxTrade:
			if tx.CurrencyIn == fiat || tx.CurrencyOut == fiat {
				add(RuleTradeCrypto, tx, "trade %s -> %s involves the fiat currency", tx.CurrencyIn, tx.CurrencyOut)
			}
		case model.TxTransact:
		default:
			add(RuleType, tx, "unknown transaction type %q", tx.Type)
		}
	}
	return errs
}
