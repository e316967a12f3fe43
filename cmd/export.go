// =============================================================================
// Buyer Ledger - Export Command
// =============================================================================
//
// The 'export' command writes the ledger to a summary workbook, optionally
// filtered by buyer or place.
//
// COMMAND USAGE:
//   buyerledger export [output.xlsx] [flags]
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/skdtraders/buyer-ledger/internal/config"
	"github.com/skdtraders/buyer-ledger/internal/export"
	"github.com/spf13/cobra"
)

// exportBuyer filters the export to one buyer.
var exportBuyer string

// exportPlace filters the export to one place.
var exportPlace string

var exportCmd = &cobra.Command{
	Use:   "export [output.xlsx]",
	Short: "Write the ledger to a summary workbook",
	Long: `The export command fetches the ledger and writes the summary workbook
in the layout staff expect: SL No, Buyer Name, Place, Total Qtls,
Commission Amount, Received Amount, Chq/RTGS/Cash.

Without an output argument the file name is derived from the filter,
e.g. buyers_summary.xlsx or buyers_summary_Hubli.xlsx.`,

	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(args)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportBuyer, "buyer", "", "Export only this buyer")
	exportCmd.Flags().StringVar(&exportPlace, "place", "", "Export only buyers from this place")
}

func runExport(args []string) error {
	cfg, err := config.LoadFromEnv(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()
	st, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	buyers, err := st.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch buyers: %w", err)
	}

	filter := export.Filter{Buyer: exportBuyer, Place: exportPlace}

	out := export.FileName(filter)
	if len(args) == 1 {
		out = args[0]
	}

	if err := export.WriteFile(out, buyers, filter); err != nil {
		return err
	}

	fmt.Printf("Wrote summary workbook to %s\n", out)
	return nil
}
