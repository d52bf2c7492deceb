package cmd

import (
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matthieukhl/storefront/internal/config"
	"github.com/matthieukhl/storefront/internal/database"
	"github.com/matthieukhl/storefront/internal/events"
	"github.com/matthieukhl/storefront/internal/orderflow"
	"github.com/matthieukhl/storefront/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront API server",
	Long: `Start the storefront API server which provides:
- Product catalog with per-color and per-size stock
- Admin product mutations with a productsUpdated broadcast
- Order status transitions gated by the transition table`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	fmt.Println("🛍️  Storefront starting...")

	fmt.Println("📝 Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	fmt.Println("🔌 Connecting to database...")
	db, err := database.NewConnection(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	fmt.Println("✅ Database connected successfully")

	// Redis is optional: without it the refetch hint stays in-process.
	var bus events.Bus = events.NewInProcessBus()
	if cfg.Redis.Addr != "" {
		fmt.Println("🔌 Connecting to redis...")
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err := client.Ping(cmd.Context()).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		bus = events.NewRedisBus(client)
		fmt.Println("✅ Redis connected successfully")
	}

	fmt.Println("⚙️  Setting up server...")
	notifier := server.NewEmailNotifier(logger, cfg.Notify.FromAddress, cfg.Notify.Enabled)
	machine := orderflow.NewMachine(notifier)
	products := database.NewProductsRepository(db)
	orders := database.NewOrdersRepository(db)
	srv := server.NewServer(products, orders, machine, bus, db, logger, cfg.Server.AdminToken)

	fmt.Printf("🌐 Starting server on %s...\n", cfg.Server.Addr)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
