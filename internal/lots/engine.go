package lots

import (
	"fmt"
	"io"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/wrencode/crypto-gains-calculator/internal/model"
)

// Pair is an acquisition matched against a disposal of the same volume.
type Pair struct {
	In  model.Transaction
	Out model.Transaction
}

// Totals are the running matched volumes for one asset.
type Totals struct {
	InVolume  decimal.Decimal
	OutVolume decimal.Decimal
	Net       decimal.Decimal // InVolume - OutVolume; non-zero only through rounding
}

// Result is the outcome of matching one asset.
type Result struct {
	Asset     string
	Pairs     []Pair
	Unmatched []model.Transaction // acquisitions left after the last disposal
	Totals    Totals
}

// Match pairs the acquisitions in against the disposals out for a single
// asset, splitting whichever side is larger and requeueing the remainder at
// the position it came from. Both slices must be sorted ascending by
// timestamp; neither is modified.
//
// Matching stops when out is exhausted. It fails with model.ErrOutOfOrder if
// the next disposal is dated before the earliest remaining acquisition, and
// with model.ErrUnmatchedDisposal if acquisitions run out first.
func Match(asset string, in, out []model.Transaction, method Method, log logrus.FieldLogger) (Result, error) {
	if log == nil {
		log = discardLogger()
	}
	ins := slices.Clone(in)
	outs := slices.Clone(out)

	res := Result{
		Asset: asset,
		Totals: Totals{
			InVolume:  decimal.Zero,
			OutVolume: decimal.Zero,
			Net:       decimal.Zero,
		},
	}

	for len(outs) > 0 {
		txOut := outs[0]
		outs = outs[1:]

		if len(ins) == 0 {
			return res, fmt.Errorf("%w: %s tx %d on %s disposes %s with no acquisitions left",
				model.ErrUnmatchedDisposal, asset, txOut.TxID, txOut.Timestamp.Format(model.DateFormat), txOut.Volume(model.FlowOut))
		}
		if txOut.Timestamp.Before(ins[0].Timestamp) {
			return res, fmt.Errorf("%w: %s tx %d on %s precedes tx %d on %s, check data",
				model.ErrOutOfOrder, asset, txOut.TxID, txOut.Timestamp.Format(model.DateFormat),
				ins[0].TxID, ins[0].Timestamp.Format(model.DateFormat))
		}

		idx := pick(ins, txOut, method)
		txIn := ins[idx]
		ins = slices.Delete(ins, idx, idx+1)

		inVol := txIn.Volume(model.FlowIn)
		outVol := txOut.Volume(model.FlowOut)

		var pair Pair
		switch {
		case model.NearlyEqual(inVol, outVol):
			pair = Pair{In: txIn, Out: txOut}

		case inVol.GreaterThan(outVol):
			sold, unsold := SplitUnequal(txOut, txIn, model.FlowIn)
			pair = Pair{In: sold, Out: txOut}
			ins = slices.Insert(ins, idx, unsold)

		default:
			bought, unbought := SplitUnequal(txIn, txOut, model.FlowOut)
			pair = Pair{In: txIn, Out: bought}
			outs = slices.Insert(outs, 0, unbought)
		}

		res.Pairs = append(res.Pairs, pair)
		matchedIn := pair.In.Volume(model.FlowIn)
		matchedOut := pair.Out.Volume(model.FlowOut)
		res.Totals.InVolume = res.Totals.InVolume.Add(matchedIn)
		res.Totals.OutVolume = res.Totals.OutVolume.Add(matchedOut)
		res.Totals.Net = res.Totals.Net.Add(matchedIn.Sub(matchedOut))

		log.WithFields(logrus.Fields{
			"asset":  asset,
			"tx_in":  pair.In.TxID,
			"tx_out": pair.Out.TxID,
			"volume": matchedOut.String(),
		}).Debug("matched lot")
	}

	res.Unmatched = ins
	return res, nil
}

// pick returns the index of the acquisition to match against out. ins is
// non-empty and its first element is not dated after out.
func pick(ins []model.Transaction, out model.Transaction, method Method) int {
	if method != LIFO {
		return 0
	}
	// Latest acquisition on or before the disposal.
	return sort.Search(len(ins), func(i int) bool {
		return ins[i].Timestamp.After(out.Timestamp)
	}) - 1
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
