// =============================================================================
// Buyer Ledger - Import Command
// =============================================================================
//
// The 'import' command reads one or more sales spreadsheets, aggregates the
// rows per buyer and prints the summary. With --save the result is also
// persisted to the ledger with merge-on-write semantics.
//
// COMMAND USAGE:
//   buyerledger import [files...] [flags]
//
// FLAGS:
//   --save     : Persist the aggregated summaries to the ledger
//   --replace  : Clear the ledger before saving (implies --save)
//   --archive  : Move imported files to the archive directory afterwards
//
// With no file arguments the command scans the current directory for
// pending xlsx files.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/skdtraders/buyer-ledger/internal/config"
	"github.com/skdtraders/buyer-ledger/internal/engine"
	"github.com/skdtraders/buyer-ledger/internal/xlsxreader"
	"github.com/skdtraders/buyer-ledger/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// saveImport persists the aggregated summaries to the ledger.
var saveImport bool

// replaceImport clears the ledger before saving.
var replaceImport bool

// archiveImport moves imported files into the archive directory.
var archiveImport bool

// =============================================================================
// IMPORT COMMAND DEFINITION
// =============================================================================

var importCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Aggregate sales spreadsheets into per-buyer summaries",
	Long: `The import command reads xlsx sales spreadsheets, resolves the column
layout, aggregates quantities per buyer and computes broker commission.

Each file is one batch. Without --save the command only prints the result,
which makes it a safe dry run for a new broker's spreadsheet format.

With --save the summaries are written to the ledger; computed figures
overwrite the stored ones while manually recorded payments are kept.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(args)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&saveImport, "save", false, "Persist the aggregated summaries to the ledger")
	importCmd.Flags().BoolVar(&replaceImport, "replace", false, "Clear the ledger before saving (implies --save)")
	importCmd.Flags().BoolVar(&archiveImport, "archive", false, "Move imported files to the archive directory")
}

// =============================================================================
// MAIN IMPORT FUNCTION
// =============================================================================

func runImport(args []string) error {
	startTime := time.Now()

	cfg, err := config.LoadFromEnv(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	files := args
	if len(files) == 0 {
		files, err = utils.DiscoverSpreadsheets(".")
		if err != nil {
			return err
		}
	}
	if len(files) == 0 {
		fmt.Println("No xlsx files to import.")
		return nil
	}

	ctx := context.Background()

	var saver func(ctx context.Context, result engine.Result) error
	if saveImport || replaceImport {
		st, cleanup, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		if replaceImport {
			if err := st.DeleteAll(ctx); err != nil {
				return fmt.Errorf("failed to clear ledger: %w", err)
			}
		}
		saver = func(ctx context.Context, result engine.Result) error {
			return st.UpsertSummaries(ctx, result.Summaries)
		}
	}

	fm := utils.NewFileManager(cfg.Import.ArchiveDir)
	fm.ArchiveOnImport = archiveImport || cfg.Import.ArchiveOnImport

	fmt.Println("=== Buyer Ledger Import ===")

	var imported, failed int
	for _, file := range files {
		if err := importFile(ctx, file, saver, fm); err != nil {
			failed++
			fmt.Printf("  ✗ %s: %v\n", filepath.Base(file), err)
			continue
		}
		imported++
	}

	fmt.Println("\n=== Import Complete ===")
	fmt.Printf("Files imported:  %d\n", imported)
	fmt.Printf("Errors:          %d\n", failed)
	fmt.Printf("Time elapsed:    %s\n", time.Since(startTime))

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to import", failed)
	}
	return nil
}

// importFile processes one spreadsheet: read, aggregate, optionally save
// and archive, and print the batch summary.
func importFile(ctx context.Context, file string, saver func(context.Context, engine.Result) error, fm *utils.FileManager) error {
	batch, err := xlsxreader.ReadFile(file)
	if err != nil {
		return err
	}

	result := engine.AggregateWithHeaders(batch.Headers, batch.Rows)

	printBatch(filepath.Base(file), result)

	if saver != nil {
		if err := saver(ctx, result); err != nil {
			return err
		}
		if archived, err := fm.ArchiveImport(file); err != nil {
			return err
		} else if archived != file && verbose {
			fmt.Printf("  archived to %s\n", archived)
		}
	}

	return nil
}

// printBatch prints the resolved columns and the per-buyer summary table.
func printBatch(name string, result engine.Result) {
	fmt.Printf("\n%s (%d rows in, %d skipped)\n", name, result.RowsIn, result.RowsSkipped)

	if verbose {
		for role, header := range result.Roles {
			fmt.Printf("  column %-12s <- %q\n", role, header)
		}
	}

	fmt.Printf("  %-24s %-16s %12s %12s %12s\n", "Buyer", "Place", "Qtls", "Commission", "Date")
	for _, s := range result.Summaries {
		fmt.Printf("  %-24s %-16s %12.2f %12.2f %12s\n", s.Buyer, s.Place, s.TotalQtls, s.Commission, s.PaymentDate)
	}
}
