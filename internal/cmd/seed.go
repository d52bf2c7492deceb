package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/matthieukhl/storefront/internal/config"
	"github.com/matthieukhl/storefront/internal/database"
	"github.com/matthieukhl/storefront/internal/models"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo products",
	Long: `Inserts a small set of demo products with color/size stock so the
catalog and cart can be exercised without an admin panel.`,
	RunE: seedProducts,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func demoProducts() []models.Product {
	return []models.Product{
		{
			Name:        "Oversized Hoodie",
			Description: "Heavyweight fleece, dropped shoulders.",
			Category:    models.CategoryClothing,
			Price:       decimal.NewFromFloat(49.90),
			Colors: []models.ColorVariant{
				{Name: "Black", Code: "#1a1a1a", Stock: 3},
				{Name: "Olive", Code: "#556b2f", Stock: 7},
			},
			Sizes: []models.SizeVariant{
				{Label: "S", Stock: 2},
				{Label: "M", Stock: 5},
				{Label: "L", Stock: 2},
			},
		},
		{
			Name:        "Relaxed Tee",
			Description: "Midweight cotton, garment dyed.",
			Category:    models.CategoryClothing,
			Price:       decimal.NewFromFloat(24.00),
			Colors: []models.ColorVariant{
				{Name: "White", Code: "#ffffff", Stock: 10},
				{Name: "Washed Blue", Code: "#6e8ca0", Stock: 0},
			},
			Sizes: []models.SizeVariant{
				{Label: "M", Stock: 6},
				{Label: "L", Stock: 4},
			},
		},
		{
			Name:        "Canvas Tote",
			Description: "One size, no variants.",
			Category:    models.CategoryBags,
			Price:       decimal.NewFromFloat(15.00),
			TotalStock:  12,
		},
	}
}

func seedProducts(cmd *cobra.Command, args []string) error {
	fmt.Println("🌱 Seeding demo products...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repo := database.NewProductsRepository(db)
	for _, p := range demoProducts() {
		id, err := repo.Create(cmd.Context(), &p)
		if err != nil {
			return fmt.Errorf("failed to seed %q: %w", p.Name, err)
		}
		fmt.Printf("  ✅ %s (%s)\n", p.Name, id)
	}

	fmt.Println("🌱 Done")
	return nil
}
