package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment overrides, applied after the config file.
const (
	EnvTaxYear      = "CRYPTOGAINS_TAX_YEAR"
	EnvFiatCurrency = "CRYPTOGAINS_FIAT_CURRENCY"
	EnvLedgerDir    = "CRYPTOGAINS_LEDGER_DIR"
	EnvLogLevel     = "CRYPTOGAINS_LOG_LEVEL"
)

// ApplyEnv loads envFile into the process environment when it exists, then
// applies the CRYPTOGAINS_* overrides to cfg. Variables already set in the
// environment win over envFile. Returns whether envFile was loaded.
func ApplyEnv(cfg *Config, envFile string) (bool, error) {
	loaded := false
	if envFile != "" {
		err := godotenv.Load(envFile)
		switch {
		case err == nil:
			loaded = true
		case errors.Is(err, fs.ErrNotExist):
		default:
			return false, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvTaxYear)); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return loaded, fmt.Errorf("parsing %s %q: %w", EnvTaxYear, v, err)
		}
		cfg.Tax.TaxYear = year
	}
	if v := os.Getenv(EnvFiatCurrency); v != "" {
		cfg.Tax.FiatCurrency = v
	}
	if v := os.Getenv(EnvLedgerDir); v != "" {
		cfg.Ledger.Dir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	return loaded, nil
}
