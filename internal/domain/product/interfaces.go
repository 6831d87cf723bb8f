package product

import (
	"context"
	"time"

	"productcatalog/internal/domain/upload"
)

// Repository persists products.
type Repository interface {
	FindAll(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id int64) (*Product, error)
	Save(ctx context.Context, p *Product) error
	Delete(ctx context.Context, p *Product) error
	ImageFileNames(ctx context.Context) ([]string, error)
}

// ImageStore keeps image files for products.
type ImageStore interface {
	Save(ctx context.Context, img upload.Image, at time.Time) (string, error)
	Delete(ctx context.Context, name string) error
}
