package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrencode/crypto-gains-calculator/internal/model"
)

func ids(txs []model.Transaction) []int {
	out := make([]int, len(txs))
	for i, tx := range txs {
		out[i] = tx.TxID
	}
	return out
}

func sortFixture() []model.Transaction {
	return []model.Transaction{
		{TxID: 1, Timestamp: date(2023, 3, 1), FiatValue: dec("50")},
		{TxID: 2, Timestamp: date(2023, 1, 1), FiatValue: dec("200")},
		{TxID: 3, Timestamp: date(2023, 3, 1), FiatValue: dec("10")},
		{TxID: 4, Timestamp: date(2023, 2, 1), FiatValue: dec("50")},
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		field, direction string
		want             []int
	}{
		{SortTimestamp, Ascending, []int{2, 4, 1, 3}},
		{SortTimestamp, Descending, []int{1, 3, 4, 2}},
		{"", "", []int{2, 4, 1, 3}},
		{SortTxID, Descending, []int{4, 3, 2, 1}},
		{SortFiatValue, Ascending, []int{3, 1, 4, 2}},
		{SortFiatValue, Descending, []int{2, 1, 4, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.direction, func(t *testing.T) {
			txs := sortFixture()
			require.NoError(t, Sort(txs, tt.field, tt.direction))
			assert.Equal(t, tt.want, ids(txs))
		})
	}
}

func TestSort_Unknown(t *testing.T) {
	err := Sort(sortFixture(), "volume", Ascending)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort field")

	err = Sort(sortFixture(), SortTxID, "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort direction")
}
