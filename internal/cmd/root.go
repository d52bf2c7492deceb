package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront - variant inventory and order fulfillment core",
	Long: `Storefront runs the retail backend API and ships a small client CLI.

The server tracks product stock across independent color and size
variants, gates order status changes behind an explicit transition
table, and broadcasts a refetch hint after admin mutations. The cart
subcommands drive the same API from the client side with a durable
local cart.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
