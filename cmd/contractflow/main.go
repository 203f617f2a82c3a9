package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/contractflow/dashboard/internal/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "contractflow",
		Short: "The ContractFlow contract management dashboard",
		Long: `ContractFlow serves a contract management dashboard.

Pages are rendered on the server and kept live over a WebSocket,
with hash-based routing, role permissions and per-browser
local storage.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Config file (default ./"+config.ConfigFileName+" if present)")

	load := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	rootCmd.AddCommand(
		serveCmd(load),
		renderCmd(load),
		routesCmd(),
		configCmd(load),
		versionCmd(),
	)
	return rootCmd
}

type configLoader func() (*config.Config, error)
