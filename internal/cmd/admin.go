package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/storefront/internal/api"
	"github.com/matthieukhl/storefront/internal/cart"
	"github.com/matthieukhl/storefront/internal/config"
	"github.com/matthieukhl/storefront/internal/inventory"
	"github.com/matthieukhl/storefront/internal/models"
	"github.com/matthieukhl/storefront/internal/optimistic"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin product operations",
	Long: `Admin product operations against the storefront API.

A local catalog cache mirrors the product list. Deletes are optimistic:
the product disappears from the cache immediately and reappears if the
server rejects the delete.`,
}

var adminRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the local catalog cache",
	RunE:  adminRefresh,
}

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached products with availability",
	RunE:  adminList,
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete <product-id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE:  adminDelete,
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminRefreshCmd, adminListCmd, adminDeleteCmd)
}

func openCatalog() (*config.Config, *api.Client, cart.Store, []models.Product, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout)
	store := cart.NewFileStore(cfg.Cart.Dir, "catalog")

	var products []models.Product
	if data, ok, err := store.Load(); err == nil && ok {
		// A corrupt cache is discarded; refresh rebuilds it.
		_ = json.Unmarshal(data, &products)
	}
	return cfg, client, store, products, nil
}

func saveCatalog(store cart.Store, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to serialize catalog: %w", err)
	}
	if err := store.Save(data); err != nil {
		return fmt.Errorf("failed to persist catalog: %w", err)
	}
	return nil
}

func adminRefresh(cmd *cobra.Command, args []string) error {
	_, client, store, _, err := openCatalog()
	if err != nil {
		return err
	}
	products, err := client.ListProducts(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch products: %w", err)
	}
	if err := saveCatalog(store, products); err != nil {
		return err
	}
	fmt.Printf("📦 Cached %d product(s)\n", len(products))
	return nil
}

func adminList(cmd *cobra.Command, args []string) error {
	_, _, _, products, err := openCatalog()
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Println("📦 Catalog cache is empty, run `storefront admin refresh`")
		return nil
	}
	for _, p := range products {
		badge := "in stock"
		if !inventory.IsInStock(&p) {
			badge = "out of stock"
		} else if p.HasVariants() {
			badge = fmt.Sprintf("%d combination(s) available", inventory.TotalAvailableCombinations(&p))
		}
		fmt.Printf("  %s  %-24s %8s  %s\n", p.ID, p.Name, p.Price.StringFixed(2), badge)
	}
	return nil
}

func adminDelete(cmd *cobra.Command, args []string) error {
	productID := args[0]
	_, client, store, products, err := openCatalog()
	if err != nil {
		return err
	}

	err = optimistic.Run(cmd.Context(), optimistic.Mutation[[]models.Product]{
		Snapshot: func() []models.Product {
			return append([]models.Product(nil), products...)
		},
		Apply: func() {
			kept := products[:0]
			for _, p := range products {
				if p.ID != productID {
					kept = append(kept, p)
				}
			}
			products = kept
			if err := saveCatalog(store, products); err != nil {
				fmt.Printf("⚠️  failed to persist catalog: %v\n", err)
			}
		},
		Remote: func(ctx context.Context) error {
			return client.DeleteProduct(ctx, productID)
		},
		Rollback: func(snapshot []models.Product) {
			products = snapshot
			if err := saveCatalog(store, products); err != nil {
				fmt.Printf("⚠️  failed to restore catalog: %v\n", err)
			}
		},
		OnSuccess: func() {
			fmt.Println("📣 Other views will refetch on the next productsUpdated hint")
		},
	})
	if err != nil {
		return fmt.Errorf("delete rolled back: %w", err)
	}

	fmt.Printf("🗑️  Deleted %s (%d product(s) cached)\n", productID, len(products))
	return nil
}
