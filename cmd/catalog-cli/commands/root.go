package commands

import (
	"context"
	"fmt"
	"os"

	"glowpicked-backend/lib/configutil"
	"glowpicked-backend/services/catalog"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "catalog-cli",
	Short: "catalog-cli verifies, reports on and serves the tracked product catalog.",
}

var configFile *string

func init() {
	configFile = rootCmd.PersistentFlags().String(
		"config", "config.json5", "The catalog config file to use.")
}

func readConfig() (catalog.Config, error) {
	return configutil.ReadConfig[catalog.Config](*configFile)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
