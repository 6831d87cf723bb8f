package main

import (
	"context"
	"flag"
	"log"
	"os"

	"productcatalog/internal/config"
	"productcatalog/internal/database"
	"productcatalog/internal/domain/product"
	"productcatalog/internal/domain/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dryRun := flag.Bool("dry-run", false, "report orphaned images without deleting them")
	grace := flag.Duration("grace", cfg.CleanupGrace, "skip files younger than this")
	flag.Parse()

	db, err := database.ConnectWithLogLevel(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	store := upload.NewStore(cfg.ImageDir, cfg.ImageURLBase, cfg.MaxUploadSize)
	cleanup := upload.NewCleanupService(store, product.NewRepository(db))

	res, err := cleanup.RemoveOrphans(context.Background(), *grace, *dryRun)
	if err != nil {
		log.Fatalf("image cleanup failed: %v", err)
	}

	for _, name := range res.Orphaned {
		log.Printf("orphan: %s", name)
	}
	if len(res.Failed) > 0 {
		os.Exit(1)
	}
}
