package main

import (
	"flag"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"productcatalog/internal/config"
	"productcatalog/internal/database"
	"productcatalog/internal/domain/product"
)

func main() {
	reset := flag.Bool("reset", false, "delete existing products first (image files are left to image_cleanup)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.ConnectWithLogLevel(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := product.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	if *reset {
		log.Println("Cleaning old data...")
		if err := db.Exec("DELETE FROM products").Error; err != nil {
			log.Fatal("cleanup failed:", err)
		}
	}

	now := time.Now()
	products := []product.Product{
		{Name: "Galaxy S24", Brand: "Samsung", Category: "Phones", Price: decimal.RequireFromString("799.99"),
			Description: "Compact flagship phone with a 6.2 inch display."},
		{Name: "ThinkPad X1 Carbon", Brand: "Lenovo", Category: "Computers", Price: decimal.RequireFromString("1449.00"),
			Description: "Lightweight business laptop with a 14 inch screen."},
		{Name: "MX Master 3S", Brand: "Logitech", Category: "Accessories", Price: decimal.RequireFromString("99.99"),
			Description: "Wireless mouse with quiet clicks and a fast scroll wheel."},
		{Name: "LaserJet Pro M404", Brand: "HP", Category: "Printers", Price: decimal.RequireFromString("289.50"),
			Description: "Monochrome laser printer for small offices."},
		{Name: "Alpha 7 IV", Brand: "Sony", Category: "Cameras", Price: decimal.RequireFromString("2498.00"),
			Description: "Full-frame mirrorless camera with 33 megapixels."},
	}

	log.Println("Creating products...")
	for i := range products {
		products[i].CreatedAt = time.UnixMilli(now.Add(time.Duration(i) * time.Millisecond).UnixMilli())
		if err := db.Create(&products[i]).Error; err != nil {
			log.Fatalf("create %q failed: %v", products[i].Name, err)
		}
		log.Printf("Product created: #%d %s", products[i].ID, products[i].Name)
	}

	log.Printf("Seed completed: %d products", len(products))
}
