package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/internal/config"
	"github.com/perfumeshop/salesapi/internal/domain"
	"github.com/perfumeshop/salesapi/internal/repository/postgres"
)

// Seeds a demo vendor and a handful of perfumes for local development.
func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run cmd/seed-catalog/main.go <vendor-name> <vendor-phone>")
		fmt.Println("Example: go run cmd/seed-catalog/main.go \"Essências do Vale\" \"(11) 91234-5678\"")
		os.Exit(1)
	}

	vendorName := os.Args[1]
	vendorPhone := os.Args[2]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, cfg.Database.MigrationsPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	repos := postgres.NewRepositories(db, logger)
	ctx := context.Background()

	vendor := &domain.Vendor{
		Name:      vendorName,
		StoreName: vendorName,
		Email:     "contato@example.com",
		Phone:     vendorPhone,
		City:      "São Paulo",
		State:     "SP",
	}
	if err := repos.Vendors.Create(ctx, vendor); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create vendor: %v\n", err)
		os.Exit(1)
	}

	perfumes := []domain.Perfume{
		{Name: "Âmbar Noturno", Brand: "Casa Aroma", Price: 189.90, StockQuantity: 12},
		{Name: "Flor de Laranjeira", Brand: "Casa Aroma", Price: 149.50, StockQuantity: 20},
		{Name: "Vetiver Selvagem", Brand: "Terra Perfumes", Price: 229.00, StockQuantity: 8},
	}
	for i := range perfumes {
		perfumes[i].VendorID = vendor.ID
		if err := repos.Products.Create(ctx, &perfumes[i]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create perfume %q: %v\n", perfumes[i].Name, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Vendor created: %s (%s)\n", vendor.Name, vendor.ID)
	for _, p := range perfumes {
		fmt.Printf("  %s | R$ %.2f | stock %d | %s\n", p.Name, p.Price, p.StockQuantity, p.ID)
	}
	fmt.Printf("\nUse the vendor ID in the X-Vendor-ID header for /v1/orders routes.\n")
}
