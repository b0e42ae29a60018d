package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wrencode/crypto-gains-calculator/internal/assets"
	"github.com/wrencode/crypto-gains-calculator/internal/ledger"
	"github.com/wrencode/crypto-gains-calculator/internal/lots"
)

// calcFlags are the flags shared by commands that run a calculation.
type calcFlags struct {
	taxYear          int
	fiatCurrency     string
	sortField        string
	sortDirection    string
	method           string
	lifo             bool
	expenditureTypes []string
	ledgerDir        string
	workers          int
}

func (f *calcFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVarP(&f.taxYear, "tax-year", "y", 0, "tax year to report (default from config, 0 for all years)")
	flags.StringVarP(&f.fiatCurrency, "fiat-currency", "f", "", "fiat currency (default from config)")
	flags.StringVarP(&f.sortField, "sort-field", "s", "", "ledger sort field: timestamp, tx_id or fiat_value")
	flags.StringVar(&f.sortDirection, "sort-direction", "", "ledger sort direction: ascending or descending")
	flags.StringVar(&f.method, "method", "", "lot matching method: fifo or lifo (default from config)")
	flags.BoolVarP(&f.lifo, "lifo", "l", false, "match lots last-in first-out (--lifo=false forces fifo)")
	flags.StringSliceVarP(&f.expenditureTypes, "expenditure-types", "e", nil, "tickers that record spending, not assets")
	flags.StringVar(&f.ledgerDir, "ledger", "", "ledger directory (default from config)")
	flags.IntVarP(&f.workers, "workers", "w", 0, "assets matched concurrently (0 for no limit)")
}

// apply copies explicitly set flags over the project config.
func (f *calcFlags) apply(cmd *cobra.Command, p *project) error {
	flags := cmd.Flags()
	if flags.Changed("tax-year") {
		p.cfg.Tax.TaxYear = f.taxYear
	}
	if flags.Changed("fiat-currency") {
		p.cfg.Tax.FiatCurrency = f.fiatCurrency
	}
	if flags.Changed("sort-field") {
		p.cfg.Ledger.SortField = f.sortField
	}
	if flags.Changed("sort-direction") {
		p.cfg.Ledger.SortDirection = f.sortDirection
	}
	if flags.Changed("method") {
		m, err := lots.ParseMethod(f.method)
		if err != nil {
			return err
		}
		p.cfg.Tax.Method = string(m)
	}
	if flags.Changed("lifo") {
		p.cfg.Tax.Method = string(lots.FIFO)
		if f.lifo {
			p.cfg.Tax.Method = string(lots.LIFO)
		}
	}
	if flags.Changed("expenditure-types") {
		p.cfg.Tax.ExpenditureTypes = f.expenditureTypes
	}
	if flags.Changed("ledger") {
		dir, err := filepath.Abs(f.ledgerDir)
		if err != nil {
			return fmt.Errorf("resolving ledger path: %w", err)
		}
		p.cfg.Ledger.Dir = dir
	}
	p.cfg.Tax.FiatCurrency = strings.ToUpper(p.cfg.Tax.FiatCurrency)
	return nil
}

// calculate loads the ledger and matches it into a report.
func calculate(p *project, workers int) (*lots.Report, error) {
	tax := p.cfg.Tax
	method, err := lots.ParseMethod(tax.Method)
	if err != nil {
		return nil, err
	}

	txs, err := ledger.NewService(p.cfg.Ledger.Dir, tax.FiatCurrency, p.log).Load(tax.TaxYear)
	if err != nil {
		return nil, err
	}
	if err := ledger.Sort(txs, p.cfg.Ledger.SortField, p.cfg.Ledger.SortDirection); err != nil {
		return nil, err
	}

	universe := assets.NewService(txs, tax.FiatCurrency)
	for _, ticker := range universe.Tracked() {
		p.log.WithFields(logrus.Fields{
			"asset":        ticker,
			"acquisitions": universe.Acquisitions(ticker),
		}).Debug("tracked asset")
	}

	calc := lots.NewCalculator(lots.Options{
		TaxYear:          tax.TaxYear,
		FiatCurrency:     tax.FiatCurrency,
		ExpenditureTypes: tax.ExpenditureTypes,
		Method:           method,
		Workers:          workers,
		Logger:           p.log,
	})
	report, err := calc.Calculate(txs, universe)
	if err != nil {
		return nil, fmt.Errorf("calculating gains: %w", err)
	}
	return report, nil
}
