package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/storefront/internal/config"
	"github.com/matthieukhl/storefront/internal/database"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set up the storefront database schema",
	Long: `Creates the storefront tables (products, product_colors,
product_sizes, orders, order_items).

Color and size stock are independent counters by design; there is no
joint (color, size) table, and availability for a pair is derived as
the minimum of the two.`,
	RunE: setupSchema,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func setupSchema(cmd *cobra.Command, args []string) error {
	fmt.Println("🔧 Setting up storefront database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	fmt.Println("📋 Creating schema...")
	if err := db.SetupSchema(); err != nil {
		return fmt.Errorf("failed to setup schema: %w", err)
	}

	fmt.Println("✅ Schema ready")
	return nil
}
