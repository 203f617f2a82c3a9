package main

import (
	"github.com/spf13/cobra"
)

func configCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration after defaults, the config file and
CONTRACTFLOW_* environment overrides are applied.

Examples:
  contractflow config > contractflow.yaml
  CONTRACTFLOW_STORAGE_BACKEND=sqlite CONTRACTFLOW_STORAGE_PATH=cf.db contractflow config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
