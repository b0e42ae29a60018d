package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one row in the run log: a single report export.
type Entry struct {
	Timestamp    time.Time
	Command      string
	TaxYear      int
	FiatCurrency string
	Method       string
	ShortTerm    decimal.Decimal
	LongTerm     decimal.Decimal
	Income       decimal.Decimal
	Files        []string
	CommitHash   string
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,command,tax_year,fiat_currency,method,short_term,long_term,income,files,commit_hash"

const (
	numFields     = 10
	logDir        = "logs"
	logFile       = "logs/run-log.csv"
	colTimestamp  = 0
	colCommand    = 1
	colTaxYear    = 2
	colFiat       = 3
	colMethod     = 4
	colShortTerm  = 5
	colLongTerm   = 6
	colIncome     = 7
	colFiles      = 8
	colCommitHash = 9
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colCommand] = e.Command
	if e.TaxYear != 0 {
		row[colTaxYear] = strconv.Itoa(e.TaxYear)
	}
	row[colFiat] = e.FiatCurrency
	row[colMethod] = e.Method
	row[colShortTerm] = e.ShortTerm.String()
	row[colLongTerm] = e.LongTerm.String()
	row[colIncome] = e.Income.String()
	row[colFiles] = strings.Join(e.Files, ";")
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var year int
	if record[colTaxYear] != "" {
		year, err = strconv.Atoi(record[colTaxYear])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing tax_year %q: %w", record[colTaxYear], err)
		}
	}

	amounts := make([]decimal.Decimal, 3)
	for i, col := range []int{colShortTerm, colLongTerm, colIncome} {
		if record[col] == "" {
			continue
		}
		amounts[i], err = decimal.NewFromString(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing amount %q: %w", record[col], err)
		}
	}

	var files []string
	if record[colFiles] != "" {
		files = strings.Split(record[colFiles], ";")
	}

	return Entry{
		Timestamp:    ts,
		Command:      record[colCommand],
		TaxYear:      year,
		FiatCurrency: record[colFiat],
		Method:       record[colMethod],
		ShortTerm:    amounts[0],
		LongTerm:     amounts[1],
		Income:       amounts[2],
		Files:        files,
		CommitHash:   record[colCommitHash],
	}, nil
}

// Append writes entries to <root>/logs/run-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Path returns the run log location under root.
func Path(root string) string {
	return filepath.Join(root, logFile)
}

// Read returns all entries from <root>/logs/run-log.csv.
// Returns nil if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
