package product

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"productcatalog/internal/domain/upload"
)

// Service ties image files to product rows across create, edit and delete.
//
// Files are always written before the row that references them and removed
// only after the row no longer needs them; when the row write fails the
// freshly written file is removed again. The worst case left behind by a
// crash is therefore an unreferenced file, which the upload cleanup job sweeps.
type Service struct {
	repo  Repository
	store ImageStore
	now   func() time.Time
}

func NewService(repo Repository, store ImageStore) *Service {
	return &Service{repo: repo, store: store, now: time.Now}
}

// List returns all products, newest id first.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.FindAll(ctx)
}

// Create validates form, stores its image and inserts the product.
// The image timestamp and CreatedAt come from the same instant.
func (s *Service) Create(ctx context.Context, form ProductForm) (*Product, error) {
	fields := form.validate()
	if form.Image.IsEmpty() {
		if fields == nil {
			fields = map[string]string{}
		}
		fields[ImageField] = msgImageRequired
	}
	if len(fields) > 0 {
		return nil, newValidationError(fields, nil)
	}

	createdAt := s.timestamp()
	name, err := s.store.Save(ctx, form.Image, createdAt)
	if err != nil {
		if msg, ok := imageErrorMessage(err); ok {
			return nil, newValidationError(map[string]string{ImageField: msg}, nil)
		}
		return nil, fmt.Errorf("store image: %w", err)
	}

	p := &Product{CreatedAt: createdAt, ImageFileName: &name}
	form.apply(p)

	if err := s.repo.Save(ctx, p); err != nil {
		s.discardImage(ctx, name)
		return nil, fmt.Errorf("save product: %w", err)
	}

	log.Printf("product created id=%d image=%q", p.ID, name)
	return p, nil
}

// EditForm loads a product and the form pre-filled from it.
func (s *Service) EditForm(ctx context.Context, id int64) (*Product, ProductForm, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ProductForm{}, err
	}
	return p, FormFromProduct(p), nil
}

// Update applies form to product id. A non-empty image replaces the old file;
// without one the current image is kept as is.
func (s *Service) Update(ctx context.Context, id int64, form ProductForm) (*Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if fields := form.validate(); len(fields) > 0 {
		return nil, newValidationError(fields, p)
	}

	oldName := p.Image()
	newName := ""
	if !form.Image.IsEmpty() {
		newName, err = s.store.Save(ctx, form.Image, s.timestamp())
		if err != nil {
			if msg, ok := imageErrorMessage(err); ok {
				return nil, newValidationError(map[string]string{ImageField: msg}, p)
			}
			return nil, fmt.Errorf("store image: %w", err)
		}
		p.ImageFileName = &newName
	}

	form.apply(p)

	if err := s.repo.Save(ctx, p); err != nil {
		if newName != "" {
			s.discardImage(ctx, newName)
		}
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	if newName != "" && oldName != "" {
		s.discardImage(ctx, oldName)
	}

	log.Printf("product updated id=%d image=%q", p.ID, p.Image())
	return p, nil
}

// Delete removes the product row and then, best effort, its image file.
func (s *Service) Delete(ctx context.Context, id int64) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, p); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	if name := p.Image(); name != "" {
		s.discardImage(ctx, name)
	}

	log.Printf("product deleted id=%d", id)
	return nil
}

// timestamp is millisecond precise so it round-trips through the file name.
func (s *Service) timestamp() time.Time {
	return time.UnixMilli(s.now().UnixMilli())
}

func (s *Service) discardImage(ctx context.Context, name string) {
	if err := s.store.Delete(ctx, name); err != nil {
		log.Printf("product: image delete failed name=%q error=%v", name, err)
	}
}

func imageErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, upload.ErrEmptyFile):
		return msgImageRequired, true
	case errors.Is(err, upload.ErrFileTooLarge):
		return "The image file is too large", true
	}
	return "", false
}
