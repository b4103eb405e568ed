// Command shiftboard serves the shift admin board and renders its tables.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/JonMunkholm/shiftboard/internal/board/pages" // Register all pages
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shiftboard",
		Short: "Admin board for driver shifts, users and ride requests",
		Long: `shiftboard renders the admin tables of the ride service.

Each page fetches its rows from the backend API, caches them, and exposes
row actions (toggle admin, toggle driver, delete ride) that refresh the
affected tables once the backend confirms the change.

Quick Start:
  shiftboard serve               # Start the board on SERVER_PORT
  shiftboard render shifts       # Print the shifts table for sample rows`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newRenderCmd())
	return root
}
