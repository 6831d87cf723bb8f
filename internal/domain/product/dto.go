package product

import (
	"strings"

	"github.com/shopspring/decimal"

	"productcatalog/internal/domain/upload"
	"productcatalog/internal/pkg/validator"
)

// ImageField is the multipart field carrying the product image.
const ImageField = "imageFile"

// ProductForm is the submitted create/edit form.
type ProductForm struct {
	Name        string `form:"name" validate:"required,max=255"`
	Brand       string `form:"brand" validate:"required,max=255"`
	Category    string `form:"category" validate:"required,max=255"`
	Price       string `form:"price" validate:"required,money"`
	Description string `form:"description" validate:"min=10,max=2000"`

	Image upload.Image `form:"-"`
}

// FormFromProduct pre-fills an edit form. The image is never pre-filled.
func FormFromProduct(p *Product) ProductForm {
	return ProductForm{
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Price:       p.Price.StringFixed(2),
		Description: p.Description,
	}
}

func (f *ProductForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Brand = strings.TrimSpace(f.Brand)
	f.Category = strings.TrimSpace(f.Category)
	f.Price = strings.TrimSpace(f.Price)
	f.Description = strings.TrimSpace(f.Description)
}

// validate checks the structural rules only; image presence is decided per use case.
func (f *ProductForm) validate() map[string]string {
	f.normalize()
	return validator.Validate(f)
}

func (f ProductForm) priceValue() decimal.Decimal {
	d, err := decimal.NewFromString(f.Price)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// apply copies the editable fields onto p. ID, CreatedAt and the image are left alone.
func (f ProductForm) apply(p *Product) {
	p.Name = f.Name
	p.Brand = f.Brand
	p.Category = f.Category
	p.Price = f.priceValue()
	p.Description = f.Description
}
