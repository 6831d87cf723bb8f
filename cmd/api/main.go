package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"productcatalog/internal/config"
	"productcatalog/internal/database"
	"productcatalog/internal/domain/product"
	"productcatalog/internal/domain/upload"
	"productcatalog/internal/middleware"
	"productcatalog/internal/pkg/flash"
	"productcatalog/internal/pkg/response"
	"productcatalog/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.ConnectWithLogLevel(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := product.Migrate(db); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	store := upload.NewStore(cfg.ImageDir, cfg.ImageURLBase, cfg.MaxUploadSize)
	if err := os.MkdirAll(store.BaseDir(), 0o755); err != nil {
		log.Fatalf("image dir: %v", err)
	}

	productRepo := product.NewRepository(db)
	productService := product.NewService(productRepo, store)
	productHandler := product.NewHandler(productService, cfg.MaxUploadSize)

	tmpl, err := web.Templates(store.URL)
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadSize
	r.SetHTMLTemplate(tmpl)
	r.Use(
		gin.Logger(),
		middleware.RequestID(),
		middleware.ErrorLogger(),
		flash.Middleware(cfg.SessionName, cfg.SessionSecret, cfg.IsProd()),
	)

	r.GET("/health", healthHandler(db))
	upload.RegisterRoutes(r, upload.NewHandler(store), cfg.ImageURLBase)
	product.RegisterRoutes(r, productHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("catalog listening on %s (env=%s, db=%s, images=%s)", srv.Addr, cfg.AppEnv, redactDSN(cfg.DatabaseURL), store.BaseDir())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("stopped")
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			log.Printf("health: db ping failed: %v", err)
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "db": "ok"})
	}
}

// redactDSN hides credentials in postgres URLs.
func redactDSN(dsn string) string {
	if database.IsPostgres(dsn) {
		return "postgres://***"
	}
	return dsn
}
