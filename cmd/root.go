package cmd

import (
	"fmt"
	"os"

	"recicleaqui/config"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "recicleaqui",
		Short:         "RecicleAqui waste marketplace API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadConfig(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (defaults to config.yaml in . or ./config)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newIndexesCmd())
	root.AddCommand(newTokenCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
