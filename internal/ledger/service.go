package ledger

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/wrencode/crypto-gains-calculator/internal/model"
)

// DefaultFile is the ledger file created by InitDir.
const DefaultFile = "transactions.csv"

// Service loads the ledger files in a directory.
type Service struct {
	dir  string
	fiat string
	log  logrus.FieldLogger
}

// NewService creates a ledger Service over dir. Transactions are validated
// against fiat.
func NewService(dir, fiat string, log logrus.FieldLogger) *Service {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Service{dir: dir, fiat: strings.ToUpper(fiat), log: log}
}

// Files returns the ledger CSV paths in name order.
func (s *Service) Files() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading ledger dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(s.dir, e.Name()))
	}
	return files, nil
}

// Load reads every ledger file, numbers the transactions 1..N in file order
// and validates them. When taxYear is set, transactions dated after that
// year are dropped; earlier years stay available for matching.
func (s *Service) Load(taxYear int) ([]model.Transaction, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}

	var txs []model.Transaction
	for _, path := range files {
		fileTxs, err := readFile(path)
		if err != nil {
			return nil, err
		}
		s.log.WithFields(logrus.Fields{"file": path, "rows": len(fileTxs)}).Debug("read ledger file")
		txs = append(txs, fileTxs...)
	}
	for i := range txs {
		txs[i].TxID = i + 1
	}

	if verrs := ValidateTransactions(txs, s.fiat); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return nil, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	if taxYear != 0 {
		cutoff := time.Date(taxYear+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		kept := txs[:0]
		for _, tx := range txs {
			if tx.Timestamp.Before(cutoff) {
				kept = append(kept, tx)
			}
		}
		txs = kept
	}

	s.log.WithFields(logrus.Fields{
		"files":          len(files),
		"transactions":   len(txs),
		"taxable_events": lo.CountBy(txs, model.Transaction.IsTaxableEvent),
	}).Info("loaded ledger")
	return txs, nil
}

func readFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	txs, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return txs, nil
}

// InitDir creates dir with an empty DefaultFile if it has no ledger yet.
// Returns the file path.
func InitDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating ledger dir: %w", err)
	}

	path := filepath.Join(dir, DefaultFile)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking ledger: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating ledger file: %w", err)
	}
	defer f.Close()

	if err := WriteTransactions(f, nil); err != nil {
		return "", fmt.Errorf("writing ledger header: %w", err)
	}
	return path, nil
}
