package lots

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/wrencode/crypto-gains-calculator/internal/assets"
	"github.com/wrencode/crypto-gains-calculator/internal/model"
)

// DefaultExpenditureTypes are tickers that record spending rather than an asset.
var DefaultExpenditureTypes = []string{"purchase", "donation", "gift"}

// Options configures a Calculator.
type Options struct {
	TaxYear          int // 0 reports every year
	FiatCurrency     string
	ExpenditureTypes []string
	Method           Method
	Workers          int // assets matched concurrently; 0 means unlimited
	Logger           logrus.FieldLogger
}

// Holding is the unconsumed acquisitions of one asset.
type Holding struct {
	Asset  string
	Volume decimal.Decimal
	Cost   decimal.Decimal
	Lots   []model.Transaction
}

// Report is the output of a calculation.
type Report struct {
	CapitalGains []model.TaxableTransaction // long-term first, then by date sold
	Income       []model.TaxableTransaction // by date acquired
	Holdings     []Holding                  // by asset
	Totals       map[string]Totals
}

// Calculator matches a ledger into taxable lots.
type Calculator struct {
	opts Options
	log  logrus.FieldLogger
}

// NewCalculator creates a Calculator, filling unset options with defaults.
func NewCalculator(opts Options) *Calculator {
	if opts.FiatCurrency == "" {
		opts.FiatCurrency = "USD"
	}
	opts.FiatCurrency = strings.ToUpper(opts.FiatCurrency)
	if opts.ExpenditureTypes == nil {
		opts.ExpenditureTypes = DefaultExpenditureTypes
	}
	if opts.Method == "" {
		opts.Method = FIFO
	}
	log := opts.Logger
	if log == nil {
		log = discardLogger()
	}
	return &Calculator{opts: opts, log: log}
}

type tally struct {
	in  []model.Transaction
	out []model.Transaction
}

// Calculate routes txs into per-asset acquisition and disposal queues,
// matches each asset independently and returns the filtered, sorted lots.
// Expenditure types are removed from universe first. Transactions keep their
// relative order when timestamps tie.
func (c *Calculator) Calculate(txs []model.Transaction, universe *assets.Service) (*Report, error) {
	tallies := make(map[string]*tally)
	for _, ticker := range universe.Without(c.opts.ExpenditureTypes...).Tracked() {
		tallies[ticker] = &tally{}
	}

	income := make(map[string][]model.Transaction)
	addIn := func(tx model.Transaction) error {
		t, ok := tallies[tx.CurrencyOut]
		if !ok {
			return fmt.Errorf("%w: tx %d acquires %q", model.ErrUntrackedAsset, tx.TxID, tx.CurrencyOut)
		}
		t.in = append(t.in, tx)
		return nil
	}
	addOut := func(tx model.Transaction) error {
		t, ok := tallies[tx.CurrencyIn]
		if !ok {
			return fmt.Errorf("%w: tx %d disposes %q", model.ErrUntrackedAsset, tx.TxID, tx.CurrencyIn)
		}
		t.out = append(t.out, tx)
		return nil
	}

	for _, tx := range txs {
		var err error
		switch tx.Type {
		case model.TxBuy:
			err = addIn(tx)
		case model.TxSell:
			err = addOut(tx)
		case model.TxTrade:
			buy, sell, derr := tx.Decompose(c.opts.FiatCurrency)
			if derr != nil {
				return nil, derr
			}
			if err = addIn(buy); err == nil {
				err = addOut(sell)
			}
		case model.TxTransact:
			if t, ok := tallies[tx.CurrencyOut]; ok {
				t.in = append(t.in, tx)
				income[tx.CurrencyOut] = append(income[tx.CurrencyOut], tx)
			} else if t, ok := tallies[tx.CurrencyIn]; ok {
				t.out = append(t.out, tx)
			}
		default:
			err = fmt.Errorf("tx %d: unknown transaction type %q", tx.TxID, tx.Type)
		}
		if err != nil {
			return nil, err
		}
	}

	for _, t := range tallies {
		sortByTimestamp(t.in)
		sortByTimestamp(t.out)
	}

	results, err := c.matchAll(tallies)
	if err != nil {
		return nil, err
	}

	report := &Report{
		CapitalGains: c.capitalGains(results),
		Income:       c.taxableIncome(income),
		Holdings:     holdings(results),
		Totals:       make(map[string]Totals, len(results)),
	}
	for _, res := range results {
		report.Totals[res.Asset] = res.Totals
	}
	return report, nil
}

// matchAll runs Match for every asset with disposals. Results are ordered by
// ticker regardless of completion order.
func (c *Calculator) matchAll(tallies map[string]*tally) ([]Result, error) {
	tickers := lo.Keys(tallies)
	sort.Strings(tickers)

	results := make([]Result, len(tickers))
	var g errgroup.Group
	if c.opts.Workers > 0 {
		g.SetLimit(c.opts.Workers)
	}

	for i, asset := range tickers {
		t := tallies[asset]
		if len(t.out) == 0 {
			c.log.WithFields(logrus.Fields{"asset": asset, "acquisitions": len(t.in)}).Debug("no disposals, skipping")
			results[i] = Result{Asset: asset, Unmatched: t.in, Totals: Totals{
				InVolume:  decimal.Zero,
				OutVolume: decimal.Zero,
				Net:       decimal.Zero,
			}}
			continue
		}

		i, asset := i, asset
		g.Go(func() error {
			res, err := Match(asset, t.in, t.out, c.opts.Method, c.log)
			if err != nil {
				return fmt.Errorf("matching %s: %w", asset, err)
			}
			c.log.WithFields(logrus.Fields{
				"asset":      asset,
				"lots":       len(res.Pairs),
				"in_volume":  res.Totals.InVolume.String(),
				"out_volume": res.Totals.OutVolume.String(),
				"net":        res.Totals.Net.String(),
			}).Debug("matched asset")
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Calculator) capitalGains(results []Result) []model.TaxableTransaction {
	var gains []model.TaxableTransaction
	for _, res := range results {
		for _, p := range res.Pairs {
			if c.opts.TaxYear != 0 && p.Out.Timestamp.Year() != c.opts.TaxYear {
				continue
			}
			in, out := p.In, p.Out
			gains = append(gains, model.NewTaxableTransaction(res.Asset, &in, &out))
		}
	}

	gains = lo.Filter(gains, func(tt model.TaxableTransaction, _ int) bool {
		return tt.CapitalGainOrLoss.Valid && !tt.CapitalGainOrLoss.Decimal.IsZero()
	})
	sort.SliceStable(gains, func(i, j int) bool {
		a, b := gains[i], gains[j]
		if a.IsShortTerm() != b.IsShortTerm() {
			return !a.IsShortTerm()
		}
		return a.DateSold.Before(b.DateSold)
	})
	return gains
}

func (c *Calculator) taxableIncome(income map[string][]model.Transaction) []model.TaxableTransaction {
	tickers := lo.Keys(income)
	sort.Strings(tickers)

	var lots []model.TaxableTransaction
	for _, asset := range tickers {
		for _, tx := range income[asset] {
			in := tx
			lots = append(lots, model.NewTaxableTransaction(asset, &in, nil))
		}
	}

	lots = lo.Filter(lots, func(tt model.TaxableTransaction, _ int) bool {
		if !tt.CostBasis.Valid || tt.CostBasis.Decimal.IsZero() {
			return false
		}
		return c.opts.TaxYear == 0 || tt.DateAcquired.Year() == c.opts.TaxYear
	})
	sort.SliceStable(lots, func(i, j int) bool {
		return lots[i].DateAcquired.Before(lots[j].DateAcquired)
	})
	return lots
}

func holdings(results []Result) []Holding {
	var out []Holding
	for _, res := range results {
		if len(res.Unmatched) == 0 {
			continue
		}
		h := Holding{Asset: res.Asset, Volume: decimal.Zero, Cost: decimal.Zero, Lots: res.Unmatched}
		for _, tx := range res.Unmatched {
			h.Volume = h.Volume.Add(tx.Volume(model.FlowIn))
			h.Cost = h.Cost.Add(tx.FinalValue())
		}
		out = append(out, h)
	}
	return out
}

func sortByTimestamp(txs []model.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.Before(txs[j].Timestamp)
	})
}
