package main

import (
	"github.com/joho/godotenv"

	"github.com/matthieukhl/storefront/internal/cmd"
)

func main() {
	// Optional .env preload; real config comes from config.yaml and
	// STOREFRONT_ environment overrides.
	_ = godotenv.Load()

	cmd.Execute()
}
