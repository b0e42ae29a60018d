package lots

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/wrencode/crypto-gains-calculator/internal/model"
)

func assertConserved(t *testing.T, orig, a, b model.Transaction) {
	t.Helper()
	// Each half is rounded once.
	tol := model.Tolerance.Mul(decimal.NewFromInt(2))
	fields := []struct {
		name       string
		orig, a, b  decimal.Decimal
	}{
		{"currency_in_volume", orig.CurrencyInVolume, a.CurrencyInVolume, b.CurrencyInVolume},
		{"currency_out_volume", orig.CurrencyOutVolume, a.CurrencyOutVolume, b.CurrencyOutVolume},
		{"fiat_value", orig.FiatValue, a.FiatValue, b.FiatValue},
		{"fiat_tx_fee", orig.FiatTxFee, a.FiatTxFee, b.FiatTxFee},
	}
	for _, f := range fields {
		diff := f.a.Add(f.b).Sub(f.orig).Abs()
		assert.True(t, diff.LessThanOrEqual(tol), "%s: %s + %s != %s", f.name, f.a, f.b, f.orig)
	}
}

func TestSplitUnequal_AcquisitionLarger(t *testing.T) {
	in := buy(1, date(2023, 1, 1), "X", "10", "100")
	in.FiatTxFee = dec("2")
	out := sell(2, date(2023, 2, 1), "X", "4", "60")

	sold, unsold := SplitUnequal(out, in, model.FlowIn)

	assert.True(t, sold.CurrencyOutVolume.Equal(dec("4")))
	assert.True(t, sold.FiatValue.Equal(dec("40")))
	assert.True(t, sold.FiatTxFee.Equal(dec("0.8")))
	assert.True(t, unsold.CurrencyOutVolume.Equal(dec("6")))
	assert.True(t, unsold.FiatValue.Equal(dec("60")))
	assert.True(t, unsold.FiatTxFee.Equal(dec("1.2")))
	assert.Equal(t, in.Timestamp, unsold.Timestamp)
	assert.True(t, unsold.CurrencyOutFiatPrice.Equal(in.CurrencyOutFiatPrice))
	assertConserved(t, in, sold, unsold)
}

func TestSplitUnequal_DisposalLarger(t *testing.T) {
	in := buy(1, date(2023, 1, 1), "X", "3", "30")
	out := sell(2, date(2023, 2, 1), "X", "7", "140")

	bought, unbought := SplitUnequal(in, out, model.FlowOut)

	assert.True(t, bought.CurrencyInVolume.Equal(dec("3")))
	assert.True(t, bought.FiatValue.Equal(dec("60")))
	assert.True(t, unbought.CurrencyInVolume.Equal(dec("4")))
	assert.True(t, unbought.FiatValue.Equal(dec("80")))
	assertConserved(t, out, bought, unbought)
}

func TestSplitUnequal_ConservationWithRepeatingFractions(t *testing.T) {
	in := buy(1, date(2023, 1, 1), "X", "3", "100")
	in.FiatTxFee = dec("0.1")
	out := sell(2, date(2023, 2, 1), "X", "1", "40")

	sold, unsold := SplitUnequal(out, in, model.FlowIn)

	assert.Equal(t, "33.33333333", sold.FiatValue.String())
	assert.Equal(t, "66.66666667", unsold.FiatValue.String())
	assertConserved(t, in, sold, unsold)
}
