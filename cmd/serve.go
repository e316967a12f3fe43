// =============================================================================
// Buyer Ledger - Serve Command
// =============================================================================
//
// The 'serve' command runs the HTTP API the desk client talks to. Redis is
// required; the Postgres mirror is attached when configured. Shutdown is
// graceful on SIGINT/SIGTERM.
//
// COMMAND USAGE:
//   buyerledger serve [flags]
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skdtraders/buyer-ledger/internal/api"
	"github.com/skdtraders/buyer-ledger/internal/config"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds how long in-flight requests get to finish.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the buyer ledger HTTP API",
	Long: `The serve command starts the HTTP API:

  GET    /health              liveness check
  GET    /api/buyers          list the ledger
  POST   /api/buyers          bulk upsert buyer records
  PATCH  /api/buyers/{buyer}  record a received payment
  DELETE /api/buyers          clear the ledger
  POST   /api/import          import a sales spreadsheet
  GET    /api/buyers/export   download the summary workbook`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
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

	server := api.NewServer(cfg.Server.Addr(), st)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		fmt.Printf("\nReceived %s, shutting down...\n", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
