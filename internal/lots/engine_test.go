package lots

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrencode/crypto-gains-calculator/internal/model"
)

func TestMatch_SplitsAcquisitionAcrossDisposals(t *testing.T) {
	in := []model.Transaction{buy(1, date(2023, 1, 1), "X", "10", "100")}
	out := []model.Transaction{
		sell(2, date(2023, 3, 1), "X", "4", "60"),
		sell(3, date(2023, 4, 1), "X", "6", "90"),
	}

	res, err := Match("X", in, out, FIFO, nil)
	require.NoError(t, err)
	require.Len(t, res.Pairs, 2)

	first := model.NewTaxableTransaction("X", &res.Pairs[0].In, &res.Pairs[0].Out)
	assert.True(t, first.CostBasis.Decimal.Equal(dec("40")))
	assert.True(t, first.SalesProceeds.Decimal.Equal(dec("60")))
	assert.True(t, first.CapitalGainOrLoss.Decimal.Equal(dec("20")))
	assert.Equal(t, "4.00 X - CRYPTO", first.LotDescription)

	second := model.NewTaxableTransaction("X", &res.Pairs[1].In, &res.Pairs[1].Out)
	assert.True(t, second.CostBasis.Decimal.Equal(dec("60")))
	assert.True(t, second.SalesProceeds.Decimal.Equal(dec("90")))
	assert.True(t, second.CapitalGainOrLoss.Decimal.Equal(dec("30")))

	assert.Empty(t, res.Unmatched, "no units of X left")
	assert.True(t, res.Totals.InVolume.Equal(dec("10")))
	assert.True(t, res.Totals.OutVolume.Equal(dec("10")))
	assert.True(t, res.Totals.Net.IsZero())

	// inputs are not modified
	assert.True(t, in[0].CurrencyOutVolume.Equal(dec("10")))
	assert.Len(t, out, 2)
}

func TestMatch_ExactMatchNoSplit(t *testing.T) {
	in := []model.Transaction{buy(1, date(2023, 1, 1), "X", "2.5", "50")}
	out := []model.Transaction{sell(2, date(2023, 2, 1), "X", "2.5", "80")}

	res, err := Match("X", in, out, FIFO, nil)
	require.NoError(t, err)
	require.Len(t, res.Pairs, 1)
	assert.Equal(t, in[0], res.Pairs[0].In, "acquisition used as is")
	assert.Equal(t, out[0], res.Pairs[0].Out, "disposal used as is")
	assert.Empty(t, res.Unmatched)
}

func TestMatch_SplitsDisposalAcrossAcquisitions(t *testing.T) {
	in := []model.Transaction{
		buy(1, date(2023, 1, 1), "X", "3", "30"),
		buy(2, date(2023, 1, 15), "X", "5", "100"),
	}
	out := []model.Transaction{sell(3, date(2023, 6, 1), "X", "7", "140")}

	res, err := Match("X", in, out, FIFO, nil)
	require.NoError(t, err)
	require.Len(t, res.Pairs, 2)

	assert.Equal(t, 1, res.Pairs[0].In.TxID)
	assert.True(t, res.Pairs[0].Out.CurrencyInVolume.Equal(dec("3")))
	assert.True(t, res.Pairs[0].Out.FiatValue.Equal(dec("60")))

	assert.Equal(t, 2, res.Pairs[1].In.TxID)
	assert.True(t, res.Pairs[1].In.CurrencyOutVolume.Equal(dec("4")))
	assert.True(t, res.Pairs[1].In.FiatValue.Equal(dec("80")))
	assert.True(t, res.Pairs[1].Out.CurrencyInVolume.Equal(dec("4")))
	assert.True(t, res.Pairs[1].Out.FiatValue.Equal(dec("80")))

	require.Len(t, res.Unmatched, 1, "one unit of tx 2 left")
	assert.Equal(t, 2, res.Unmatched[0].TxID)
	assert.True(t, res.Unmatched[0].CurrencyOutVolume.Equal(dec("1")))
	assert.True(t, res.Unmatched[0].FiatValue.Equal(dec("20")))
}

func TestMatch_OutOfOrder(t *testing.T) {
	in := []model.Transaction{buy(1, date(2023, 5, 1), "X", "1", "10")}
	out := []model.Transaction{sell(2, date(2023, 4, 30), "X", "1", "10")}

	res, err := Match("X", in, out, FIFO, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrOutOfOrder))
	assert.Empty(t, res.Pairs, "no lot produced")
}

func TestMatch_OutOfOrderAfterConsumingEarlierLots(t *testing.T) {
	in := []model.Transaction{
		buy(1, date(2023, 1, 1), "X", "1", "10"),
		buy(2, date(2023, 6, 1), "X", "1", "10"),
	}
	out := []model.Transaction{
		sell(3, date(2023, 2, 1), "X", "1", "20"),
		sell(4, date(2023, 3, 1), "X", "1", "20"),
	}

	res, err := Match("X", in, out, FIFO, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrOutOfOrder))
	assert.Len(t, res.Pairs, 1)
}

func TestMatch_UnmatchedDisposal(t *testing.T) {
	in := []model.Transaction{buy(1, date(2023, 1, 1), "X", "1", "10")}
	out := []model.Transaction{sell(2, date(2023, 2, 1), "X", "2", "40")}

	_, err := Match("X", in, out, FIFO, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrUnmatchedDisposal))
	assert.False(t, errors.Is(err, model.ErrOutOfOrder))
}

func TestMatch_SameDayIsNotOutOfOrder(t *testing.T) {
	in := []model.Transaction{buy(1, date(2023, 1, 1), "X", "1", "10")}
	out := []model.Transaction{sell(2, date(2023, 1, 1), "X", "1", "12")}

	res, err := Match("X", in, out, FIFO, nil)
	require.NoError(t, err)
	assert.Len(t, res.Pairs, 1)
}

func TestMatch_LIFO(t *testing.T) {
	in := []model.Transaction{
		buy(1, date(2023, 1, 1), "X", "2", "20"),
		buy(2, date(2023, 2, 1), "X", "2", "40"),
		buy(3, date(2023, 9, 1), "X", "2", "80"),
	}
	out := []model.Transaction{
		sell(4, date(2023, 3, 1), "X", "3", "90"),
	}

	res, err := Match("X", in, out, LIFO, nil)
	require.NoError(t, err)
	require.Len(t, res.Pairs, 2)

	// Latest acquisition dated before the sale first; tx 3 is after it.
	assert.Equal(t, 2, res.Pairs[0].In.TxID)
	assert.True(t, res.Pairs[0].Out.CurrencyInVolume.Equal(dec("2")))
	assert.Equal(t, 1, res.Pairs[1].In.TxID)
	assert.True(t, res.Pairs[1].In.CurrencyOutVolume.Equal(dec("1")))

	require.Len(t, res.Unmatched, 2)
	assert.Equal(t, 1, res.Unmatched[0].TxID)
	assert.True(t, res.Unmatched[0].CurrencyOutVolume.Equal(dec("1")))
	assert.Equal(t, 3, res.Unmatched[1].TxID)
}

func TestMatch_ManyPartialFillsConserveVolume(t *testing.T) {
	in := []model.Transaction{
		buy(1, date(2022, 1, 1), "X", "1", "33"),
		buy(2, date(2022, 2, 1), "X", "1", "33"),
	}
	var out []model.Transaction
	for i := 0; i < 6; i++ {
		out = append(out, sell(10+i, date(2022, 3, 1+i), "X", "0.33333333", "20"))
	}

	res, err := Match("X", in, out, FIFO, nil)
	require.NoError(t, err)

	remaining := dec("0")
	for _, tx := range res.Unmatched {
		remaining = remaining.Add(tx.CurrencyOutVolume)
	}
	total := res.Totals.InVolume.Add(remaining)
	assert.True(t, total.Sub(dec("2")).Abs().LessThanOrEqual(dec("0.0000001")), "in volume %s", total)
	assert.True(t, res.Totals.OutVolume.Equal(dec("1.99999998")))
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, FIFO, m)

	m, err = ParseMethod("LIFO")
	require.NoError(t, err)
	assert.Equal(t, LIFO, m)

	_, err = ParseMethod("hifo")
	assert.Error(t, err)
}
