package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration without running anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("config ok: %dx%dx%d per worker, %d workers, %.0fs budget\n",
				cfg.Problem.NX, cfg.Problem.NY, cfg.Problem.NZ,
				cfg.Workers, cfg.BudgetSecs)
			return nil
		},
	}
}
