package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/storefront/internal/api"
	"github.com/matthieukhl/storefront/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the storefront API",
	Long: `Checks that the storefront API is reachable and healthy, and
distinguishes an unreachable server from one returning errors.`,
	RunE: checkAPI,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkAPI(cmd *cobra.Command, args []string) error {
	fmt.Println("🔍 Checking storefront API...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout)
	if err := client.Health(cmd.Context()); err != nil {
		var netErr *api.NetworkError
		if errors.As(err, &netErr) && netErr.Unreachable {
			return fmt.Errorf("server unreachable at %s: %w", cfg.API.BaseURL, err)
		}
		return fmt.Errorf("server unhealthy: %w", err)
	}

	fmt.Printf("✅ API healthy at %s\n", cfg.API.BaseURL)
	return nil
}
