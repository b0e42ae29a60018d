package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wrencode/crypto-gains-calculator/internal/config"
	"github.com/wrencode/crypto-gains-calculator/internal/gitops"
	"github.com/wrencode/crypto-gains-calculator/internal/ledger"
	"github.com/wrencode/crypto-gains-calculator/internal/lots"
)

type initOptions struct {
	fiatCurrency string
	taxYear      int
	method       string
	git          bool
}

func newInitCommand() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new cryptogains project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.fiatCurrency, "fiat-currency", "f", "USD", "fiat currency")
	cmd.Flags().IntVarP(&opts.taxYear, "tax-year", "y", 0, "default tax year (0 for all years)")
	cmd.Flags().StringVar(&opts.method, "method", "fifo", "lot matching method: fifo or lifo")
	cmd.Flags().BoolVar(&opts.git, "git", false, "initialize a git repository and commit the scaffold")

	return cmd
}

func runInit(dir string, opts initOptions, stdout io.Writer) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	cfg.Tax.FiatCurrency = strings.ToUpper(opts.fiatCurrency)
	cfg.Tax.TaxYear = opts.taxYear
	method, err := lots.ParseMethod(opts.method)
	if err != nil {
		return err
	}
	cfg.Tax.Method = string(method)
	cfg.Git.AutoCommit = opts.git

	// Create directory structure.
	if err := os.MkdirAll(filepath.Join(dir, cfg.Report.Dir), 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}
	if _, err := ledger.InitDir(filepath.Join(dir, cfg.Ledger.Dir)); err != nil {
		return err
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	gitignore := ".env\nlogs/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, cfg.Report.Dir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !opts.git {
		fmt.Fprintf(stdout, "Initialized cryptogains project at %s\n", dir)
		return nil
	}

	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitPaths(dir, []string{"."}, "init: cryptogains project", author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(stdout, "Initialized cryptogains project at %s (%s)\n", dir, hash)
	return nil
}
