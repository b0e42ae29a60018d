package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wrencode/crypto-gains-calculator/internal/model"
)

// Header is the CSV header for a ledger file.
const Header = "tx_timestamp,tx_type,fiat_value,fiat_tx_fee,currency_in,currency_in_volume,currency_in_fiat_price,currency_out,currency_out_volume,currency_out_fiat_price,tx_taxable,description"

const (
	numFields      = 12
	colTimestamp   = 0
	colType        = 1
	colFiatValue   = 2
	colFiatFee     = 3
	colInCurrency  = 4
	colInVolume    = 5
	colInPrice     = 6
	colOutCurrency = 7
	colOutVolume   = 8
	colOutPrice    = 9
	colTaxable     = 10
	colDesc        = 11
)

// timestampFormats are tried in order when parsing tx_timestamp.
var timestampFormats = []string{model.DateFormat, "2006-01-02", time.RFC3339}

// ReadTransactions reads all transactions from a ledger CSV reader. TxID is
// left at zero; the Service numbers transactions across files.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var txs []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// WriteTransactions writes txs to a ledger CSV writer (including header).
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colTimestamp] = formatTimestamp(tx.Timestamp)
	row[colType] = string(tx.Type)
	row[colFiatValue] = tx.FiatValue.String()
	row[colFiatFee] = tx.FiatTxFee.String()
	row[colInCurrency] = tx.CurrencyIn
	row[colInVolume] = tx.CurrencyInVolume.String()
	row[colInPrice] = tx.CurrencyInFiatPrice.String()
	row[colOutCurrency] = tx.CurrencyOut
	row[colOutVolume] = tx.CurrencyOutVolume.String()
	row[colOutPrice] = tx.CurrencyOutFiatPrice.String()
	row[colTaxable] = strconv.FormatBool(tx.Taxable)
	row[colDesc] = tx.Description
	return row
}

// UnmarshalTransaction converts a CSV row to a normalized Transaction.
// A blank volume is derived from fiat_value and the leg's price.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := parseTimestamp(record[colTimestamp])
	if err != nil {
		return model.Transaction{}, err
	}

	txType, err := model.ParseTxType(record[colType])
	if err != nil {
		return model.Transaction{}, err
	}

	tx := model.Transaction{
		Type:        txType,
		Timestamp:   ts,
		CurrencyIn:  record[colInCurrency],
		CurrencyOut: record[colOutCurrency],
		Taxable:     txType.DefaultTaxable(),
		Description: strings.TrimSpace(record[colDesc]),
	}

	fields := []struct {
		name string
		col  int
		dst  *decimal.Decimal
	}{
		{"fiat_value", colFiatValue, &tx.FiatValue},
		{"fiat_tx_fee", colFiatFee, &tx.FiatTxFee},
		{"currency_in_fiat_price", colInPrice, &tx.CurrencyInFiatPrice},
		{"currency_out_fiat_price", colOutPrice, &tx.CurrencyOutFiatPrice},
	}
	for _, f := range fields {
		if *f.dst, err = parseDecimal(f.name, record[f.col]); err != nil {
			return model.Transaction{}, err
		}
	}

	if tx.CurrencyInVolume, err = parseVolume("currency_in_volume", record[colInVolume], tx.FiatValue, tx.CurrencyInFiatPrice); err != nil {
		return model.Transaction{}, err
	}
	if tx.CurrencyOutVolume, err = parseVolume("currency_out_volume", record[colOutVolume], tx.FiatValue, tx.CurrencyOutFiatPrice); err != nil {
		return model.Transaction{}, err
	}

	if s := strings.TrimSpace(record[colTaxable]); s != "" {
		tx.Taxable, err = strconv.ParseBool(s)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing tx_taxable %q: %w", s, err)
		}
	}

	return tx.Normalize(), nil
}

func parseDecimal(name, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", name, s, err)
	}
	return d, nil
}

func parseVolume(name, s string, fiatValue, price decimal.Decimal) (decimal.Decimal, error) {
	if strings.TrimSpace(s) != "" {
		return parseDecimal(name, s)
	}
	v, err := model.DeriveVolume(fiatValue, price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("deriving %s: %w", name, err)
	}
	return v, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampFormats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing tx_timestamp %q: expected MM/DD/YYYY or YYYY-MM-DD", s)
}

func formatTimestamp(ts time.Time) string {
	if ts.Equal(ts.Truncate(24 * time.Hour)) {
		return ts.Format(model.DateFormat)
	}
	return ts.Format(time.RFC3339)
}
