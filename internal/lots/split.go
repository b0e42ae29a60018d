package lots

import (
	"github.com/shopspring/decimal"

	"github.com/wrencode/crypto-gains-calculator/internal/model"
)

// SplitUnequal splits greater into the fraction consumed by smaller and the
// remainder. greaterFlow is the side greater sits on: FlowIn when an
// acquisition is larger than its disposal, FlowOut for the reverse.
//
// The consumed fraction is smaller's volume on the opposite flow divided by
// greater's volume on its own flow; the remainder fraction is one minus that.
func SplitUnequal(smaller, greater model.Transaction, greaterFlow model.Flow) (processed, remainder model.Transaction) {
	pct := smaller.Volume(greaterFlow.Opposite()).Div(greater.Volume(greaterFlow))
	return greater.Scale(pct), greater.Scale(decimal.NewFromInt(1).Sub(pct))
}
