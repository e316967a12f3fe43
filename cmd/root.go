// =============================================================================
// Buyer Ledger - Root Command
// =============================================================================
//
// Root command for the Cobra CLI.
//
// COBRA CLI STRUCTURE:
//   rootCmd (buyerledger)
//   ├── importCmd  (buyerledger import)
//   ├── serveCmd   (buyerledger serve)
//   ├── exportCmd  (buyerledger export)
//   └── versionCmd (buyerledger version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cfgFile holds the path to the main configuration file.
// Overridden with --config.
var cfgFile string

// verbose enables verbose output when set.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "buyerledger",
	Short: "Buyer Ledger - Aggregate commodity sales and compute broker commission",
	Long: `Buyer Ledger ingests commodity sales spreadsheets, aggregates rows per
buyer and computes broker commission per the agreed tariff.

Key Features:
  - Tolerant column header matching across broker spreadsheet variants
  - Per-buyer quantity and commission aggregation
  - Redis-backed ledger with an optional PostgreSQL mirror
  - HTTP API for the desk client, plus xlsx export

Example Usage:
  buyerledger import sales.xlsx        # Aggregate one spreadsheet and print the summary
  buyerledger import sales.xlsx --save # Also persist the result to the ledger
  buyerledger serve                    # Run the HTTP API
  buyerledger export out.xlsx          # Write the ledger to a summary workbook`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
