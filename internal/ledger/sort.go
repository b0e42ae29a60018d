package ledger

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/wrencode/crypto-gains-calculator/internal/model"
)

// Sort fields and directions accepted by Sort.
const (
	SortTimestamp = "timestamp"
	SortTxID      = "tx_id"
	SortFiatValue = "fiat_value"

	Ascending  = "ascending"
	Descending = "descending"
)

// Sort orders txs in place by field. Ties keep their input order.
func Sort(txs []model.Transaction, field, direction string) error {
	var compare func(a, b model.Transaction) int
	switch field {
	case SortTimestamp, "":
		compare = func(a, b model.Transaction) int { return a.Timestamp.Compare(b.Timestamp) }
	case SortTxID:
		compare = func(a, b model.Transaction) int { return cmp.Compare(a.TxID, b.TxID) }
	case SortFiatValue:
		compare = func(a, b model.Transaction) int { return a.FiatValue.Cmp(b.FiatValue) }
	default:
		return fmt.Errorf("unknown sort field %q (want %s, %s or %s)", field, SortTimestamp, SortTxID, SortFiatValue)
	}

	switch direction {
	case Ascending, "":
		slices.SortStableFunc(txs, compare)
	case Descending:
		slices.SortStableFunc(txs, func(a, b model.Transaction) int { return compare(b, a) })
	default:
		return fmt.Errorf("unknown sort direction %q (want %s or %s)", direction, Ascending, Descending)
	}
	return nil
}
