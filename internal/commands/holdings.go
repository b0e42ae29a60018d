package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wrencode/crypto-gains-calculator/internal/report"
)

func newHoldingsCommand(root *rootOptions) *cobra.Command {
	var calc calcFlags

	cmd := &cobra.Command{
		Use:   "holdings",
		Short: "Show unsold lots remaining after matching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := calc.apply(cmd, p); err != nil {
				return err
			}

			r, err := calculate(p, calc.workers)
			if err != nil {
				return err
			}
			if err := report.PrintHoldings(cmd.OutOrStdout(), r.Holdings); err != nil {
				return fmt.Errorf("printing holdings: %w", err)
			}
			return nil
		},
	}

	calc.register(cmd)
	return cmd
}
