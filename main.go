// =============================================================================
// Buyer Ledger - Main Entry Point
// =============================================================================
//
// Main entry point for the application. All real work happens in the cmd
// package; this file only hands control to the CLI.
//
// =============================================================================

package main

import "github.com/skdtraders/buyer-ledger/cmd"

func main() {
	cmd.Execute()
}
