package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item with an optional image stored on disk.
type Product struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Brand         string          `gorm:"column:brand;type:varchar(255);not null" json:"brand"`
	Category      string          `gorm:"column:category;type:varchar(255);not null" json:"category"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	Description   string          `gorm:"column:description;type:text" json:"description"`
	CreatedAt     time.Time       `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	ImageFileName *string         `gorm:"column:image_file_name;type:varchar(255)" json:"image_file_name,omitempty"`
}

func (Product) TableName() string { return "products" }

// Image returns the stored image name or "" when the product has none.
func (p *Product) Image() string {
	if p == nil || p.ImageFileName == nil {
		return ""
	}
	return *p.ImageFileName
}
