package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wrencode/crypto-gains-calculator/internal/gitops"
	"github.com/wrencode/crypto-gains-calculator/internal/report"
	"github.com/wrencode/crypto-gains-calculator/internal/runlog"
)

func newGainsCommand(root *rootOptions) *cobra.Command {
	var calc calcFlags
	var export, commit bool

	cmd := &cobra.Command{
		Use:   "gains",
		Short: "Report capital gains and losses and taxable income",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := calc.apply(cmd, p); err != nil {
				return err
			}
			if commit {
				p.cfg.Git.AutoCommit = true
			}
			return runGains(p, calc.workers, export, cmd.OutOrStdout())
		},
	}

	calc.register(cmd)
	cmd.Flags().BoolVarP(&export, "export", "x", false, "write CSV reports to the report directory")
	cmd.Flags().BoolVar(&commit, "commit", false, "commit exported reports (default from config git.auto_commit)")

	return cmd
}

func runGains(p *project, workers int, export bool, stdout io.Writer) error {
	r, err := calculate(p, workers)
	if err != nil {
		return err
	}

	if err := report.PrintReport(stdout, r, p.cfg.Report.DateFormat); err != nil {
		return fmt.Errorf("printing report: %w", err)
	}
	if !export {
		return nil
	}

	svc := report.NewService(report.Options{
		Dir:          p.cfg.Report.Dir,
		TaxYear:      p.cfg.Tax.TaxYear,
		FiatCurrency: p.cfg.Tax.FiatCurrency,
		DateFormat:   p.cfg.Report.DateFormat,
		Logger:       p.log,
	})
	paths, err := svc.Export(r)
	if err != nil {
		return fmt.Errorf("exporting reports: %w", err)
	}
	for _, path := range paths {
		fmt.Fprintf(stdout, "Wrote %s\n", path)
	}

	hash, err := commitReports(p, paths)
	if err != nil {
		return err
	}

	s := report.Summarize(r)
	entry := runlog.Entry{
		Timestamp:    time.Now().UTC(),
		Command:      "gains",
		TaxYear:      p.cfg.Tax.TaxYear,
		FiatCurrency: p.cfg.Tax.FiatCurrency,
		Method:       p.cfg.Tax.Method,
		ShortTerm:    s.ShortTerm,
		LongTerm:     s.LongTerm,
		Income:       s.Income,
		Files:        paths,
		CommitHash:   hash,
	}
	if err := runlog.Append(p.root, []runlog.Entry{entry}); err != nil {
		p.log.WithError(err).Warn("failed to write run log")
	}
	return nil
}

// commitReports commits the exported files when auto-commit is on. Returns
// the short hash, or "" when nothing was committed.
func commitReports(p *project, paths []string) (string, error) {
	if !p.cfg.Git.AutoCommit {
		return "", nil
	}
	if !gitops.IsRepo(p.root) {
		p.log.WithField("dir", p.root).Warn("not a git repository, skipping commit")
		return "", nil
	}

	msg := "reports: capital gains for all years"
	if p.cfg.Tax.TaxYear != 0 {
		msg = fmt.Sprintf("reports: capital gains for %d", p.cfg.Tax.TaxYear)
	}
	author := gitops.Author{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail}
	hash, err := gitops.CommitPaths(p.root, paths, msg, author)
	if errors.Is(err, gitops.ErrNothingToCommit) {
		p.log.Info("reports unchanged, nothing to commit")
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("committing reports: %w", err)
	}
	p.log.WithFields(logrus.Fields{"commit": hash, "files": len(paths)}).Info("committed reports")
	return hash, nil
}
