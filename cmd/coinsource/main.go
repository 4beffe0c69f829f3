package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/utxoforge/coinsource/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	rootCmd = &cobra.Command{
		Use:   "coinsource",
		Short: "CLI for the coinsource utxo datasource",
		Long: "This CLI lets you inspect the utxo set of an address, resolve " +
			"single outputs and run coin selections against a remote assets service",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
		},
		Version: formatVersion(),
	}
)

func init() {
	rootCmd.AddCommand(outputCmd, utxosCmd, collectCmd, paymasterCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func formatVersion() string {
	return fmt.Sprintf(
		"\nVersion: %s\nCommit: %s\nDate: %s", version, commit, date,
	)
}
