package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tanker-run/internal/config"
)

var flagEffective bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the configuration",
	Long: `Print the default delivery.yaml, a starting point for custom configs.

With --effective, print the configuration actually loaded, after the
search path and --config were applied.

Examples:
  tanker config > ~/.tanker-run/configs/delivery.yaml
  tanker config --effective --config ./my-delivery.yaml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !flagEffective {
			_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(runConfig); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	configCmd.Flags().BoolVar(&flagEffective, "effective", false, "Print the loaded configuration instead of the default")
}
