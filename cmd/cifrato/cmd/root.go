package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "cifrato",
	Short: "Ingest and classify Colombian electronic invoices",
	Long: `Cifrato processes DIAN electronic invoices (UBL 2.1) and suggests
PUC chart-of-accounts classifications.

Examples:
  # Parse an invoice XML locally
  cifrato parse factura.xml

  # Start the HTTP API (configuration via environment or .env)
  cifrato serve`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, table)")
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
