package cmd

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/matthieukhl/storefront/internal/api"
	"github.com/matthieukhl/storefront/internal/cart"
	"github.com/matthieukhl/storefront/internal/config"
	"github.com/matthieukhl/storefront/internal/inventory"
	"github.com/matthieukhl/storefront/internal/models"
	"github.com/matthieukhl/storefront/internal/optimistic"
)

var (
	cartSize  string
	cartColor string
	cartQty   int
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the local cart",
	Long: `Manage the durable local cart against the storefront API.

The cart keeps one line per (product, size, color) triple: repeated
adds merge into the existing line. Mutations are optimistic - applied
locally first, confirmed against live stock, and rolled back when the
confirmation fails.`,
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  cartAdd,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  cartRemove,
}

var cartSetCmd = &cobra.Command{
	Use:   "set <product-id>",
	Short: "Set a line's quantity (0 removes the line)",
	Args:  cobra.ExactArgs(1),
	RunE:  cartSet,
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the cart",
	RunE:  cartList,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE:  cartClear,
}

var cartFavoriteCmd = &cobra.Command{
	Use:   "favorite <product-id>",
	Short: "Toggle a product in the favorites set",
	Args:  cobra.ExactArgs(1),
	RunE:  cartFavorite,
}

func init() {
	rootCmd.AddCommand(cartCmd)
	cartCmd.AddCommand(cartAddCmd, cartRemoveCmd, cartSetCmd, cartListCmd, cartClearCmd, cartFavoriteCmd)

	cartAddCmd.Flags().StringVar(&cartSize, "size", "", "Size label (required for variant products)")
	cartAddCmd.Flags().StringVar(&cartColor, "color", "", "Color name (defaults to the product's first color)")
	cartAddCmd.Flags().IntVar(&cartQty, "qty", 1, "Quantity to add")

	cartRemoveCmd.Flags().StringVar(&cartSize, "size", "", "Size label")
	cartRemoveCmd.Flags().StringVar(&cartColor, "color", "", "Color name (empty removes the first size match)")

	cartSetCmd.Flags().StringVar(&cartSize, "size", "", "Size label")
	cartSetCmd.Flags().StringVar(&cartColor, "color", "", "Color name")
	cartSetCmd.Flags().IntVar(&cartQty, "qty", 1, "New quantity")
}

// sessionStore picks the snapshot backend: redis-backed with the session
// TTL when an address is configured, file-backed otherwise.
func sessionStore(cfg *config.Config, key string) cart.Store {
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		return cart.NewRedisStore(client, "storefront:session:"+key, cfg.Cart.SessionTTL)
	}
	return cart.NewFileStore(cfg.Cart.Dir, key)
}

func openSession() (*config.Config, *api.Client, *cart.Cart, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout)
	c := cart.Open(sessionStore(cfg, "cart"))
	return cfg, client, c, nil
}

func cartAdd(cmd *cobra.Command, args []string) error {
	productID := args[0]
	if cartQty <= 0 {
		return &api.ValidationError{Field: "qty", Message: "quantity must be at least 1"}
	}

	_, client, c, err := openSession()
	if err != nil {
		return err
	}

	product, err := client.GetProduct(cmd.Context(), productID)
	if err != nil {
		return fmt.Errorf("failed to fetch product: %w", err)
	}
	if product.HasVariants() && cartSize == "" {
		return &api.ValidationError{Field: "size", Message: "size is required for this product"}
	}

	color := cartColor
	if color == "" && len(product.Colors) > 0 {
		color = product.Colors[0].Name
	}

	// Pre-check against live stock before the cart is touched; the
	// aggregator itself never enforces the cap.
	available := inventory.AvailableFor(product, color, cartSize)
	if cartQty > available {
		return &api.ValidationError{
			Field:   "qty",
			Message: fmt.Sprintf("only %d available for %s / %s", available, color, cartSize),
		}
	}

	err = optimistic.Run(cmd.Context(), optimistic.Mutation[[]models.CartLine]{
		Snapshot: c.Lines,
		Apply: func() {
			if err := c.AddLine(product, cartSize, cartQty, cartColor); err != nil {
				fmt.Printf("⚠️  failed to persist cart: %v\n", err)
			}
		},
		// Confirm against the server: the product must still exist with
		// enough stock once our line is in. Two shoppers can still pass
		// this check simultaneously - stock is only truly claimed at
		// checkout, and that race lives on the server side.
		Remote: func(ctx context.Context) error {
			fresh, err := client.GetProduct(ctx, productID)
			if err != nil {
				return err
			}
			if inventory.AvailableFor(fresh, color, cartSize) < cartQty {
				return &api.ServerValidationError{Field: "qty", Message: "stock changed while adding"}
			}
			return nil
		},
		Rollback: func(snapshot []models.CartLine) {
			if err := c.Restore(snapshot); err != nil {
				fmt.Printf("⚠️  failed to restore cart: %v\n", err)
			}
		},
	})
	if err != nil {
		return err
	}

	fmt.Printf("🛒 Added %d x %s (%s / %s). Cart now holds %d item(s).\n",
		cartQty, product.Name, color, cartSize, c.Count())
	return nil
}

func cartRemove(cmd *cobra.Command, args []string) error {
	_, _, c, err := openSession()
	if err != nil {
		return err
	}
	if err := c.RemoveLine(args[0], cartSize, cartColor); err != nil {
		return err
	}
	fmt.Printf("🛒 Removed. Cart now holds %d item(s).\n", c.Count())
	return nil
}

func cartSet(cmd *cobra.Command, args []string) error {
	_, _, c, err := openSession()
	if err != nil {
		return err
	}
	if err := c.SetQuantity(args[0], cartSize, cartQty, cartColor); err != nil {
		return err
	}
	fmt.Printf("🛒 Updated. Cart now holds %d item(s).\n", c.Count())
	return nil
}

func cartList(cmd *cobra.Command, args []string) error {
	_, _, c, err := openSession()
	if err != nil {
		return err
	}
	lines := c.Lines()
	if len(lines) == 0 {
		fmt.Println("🛒 Cart is empty")
		return nil
	}
	for _, l := range lines {
		fmt.Printf("  %d x %s (%s / %s) @ %s = %s\n",
			l.Quantity, l.Name, l.Color, l.Size, l.UnitPrice.StringFixed(2), l.LineTotal().StringFixed(2))
	}
	fmt.Printf("🛒 %d item(s), total %s\n", c.Count(), c.Total().StringFixed(2))
	return nil
}

func cartClear(cmd *cobra.Command, args []string) error {
	_, _, c, err := openSession()
	if err != nil {
		return err
	}
	if err := c.Clear(); err != nil {
		return err
	}
	fmt.Println("🛒 Cart cleared")
	return nil
}

func cartFavorite(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	favs := cart.OpenFavorites(sessionStore(cfg, "favorites"))
	on, err := favs.Toggle(args[0])
	if err != nil {
		return err
	}
	if on {
		fmt.Printf("❤️  %s added to favorites\n", args[0])
	} else {
		fmt.Printf("🤍 %s removed from favorites\n", args[0])
	}
	return nil
}
