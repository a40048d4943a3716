package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cgmark",
		Short: "Self-calibrating benchmark harness for a distributed CG kernel",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (built-in defaults if empty)")
	root.AddCommand(newRunCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newValidateCmd())
	return root
}
