package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wrencode/crypto-gains-calculator/internal/lots"
	"github.com/wrencode/crypto-gains-calculator/internal/model"
)

// Options configures report export.
type Options struct {
	Dir          string
	TaxYear      int
	FiatCurrency string
	DateFormat   string
	Logger       logrus.FieldLogger
}

// Service writes report files.
type Service struct {
	opts Options
	log  logrus.FieldLogger
}

// NewService creates a report Service.
func NewService(opts Options) *Service {
	if opts.FiatCurrency == "" {
		opts.FiatCurrency = "usd"
	}
	if opts.DateFormat == "" {
		opts.DateFormat = model.DateFormat
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Service{opts: opts, log: log}
}

// FileNames returns the capital gains and income export file names, e.g.
// "2023-cryptocurrency_to_usd-capital_gains_and_losses.csv". The year
// prefix is omitted when taxYear is 0.
func FileNames(taxYear int, fiat string) (gains, income string) {
	prefix := ""
	if taxYear != 0 {
		prefix = fmt.Sprintf("%d-", taxYear)
	}
	base := prefix + "cryptocurrency_to_" + strings.ToLower(fiat) + "-"
	return base + "capital_gains_and_losses.csv", base + "taxable_income.csv"
}

// Export writes both CSV files into the report dir, creating it if needed,
// and returns their paths.
func (s *Service) Export(r *lots.Report) ([]string, error) {
	if err := os.MkdirAll(s.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report dir: %w", err)
	}

	gainsName, incomeName := FileNames(s.opts.TaxYear, s.opts.FiatCurrency)
	gainsPath := filepath.Join(s.opts.Dir, gainsName)
	incomePath := filepath.Join(s.opts.Dir, incomeName)

	err := writeFile(gainsPath, func(w io.Writer) error {
		return WriteGains(w, r.CapitalGains, s.opts.DateFormat)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"file": gainsPath, "lots": len(r.CapitalGains)}).Debug("wrote capital gains")

	err = writeFile(incomePath, func(w io.Writer) error {
		return WriteIncome(w, r.Income, s.opts.DateFormat)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"file": incomePath, "lots": len(r.Income)}).Debug("wrote taxable income")

	return []string{gainsPath, incomePath}, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
