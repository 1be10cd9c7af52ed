package catalog

import (
	"context"
	"fmt"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/internal/models"
	"antique-catalog/utils"
)

// AddProduct validates fields and appends a new product to the shop
func (s *CatalogService) AddProduct(ctx context.Context, fields models.ProductFields) (models.Product, error) {
	if err := validateProduct(fields); err != nil {
		return models.Product{}, err
	}

	var created models.Product
	err := s.queue.Do(ctx, func(ctx context.Context) error {
		now := s.clock.Now()
		created = models.Product{
			ID:          utils.GenerateID(),
			Title:       fields.Title,
			Description: fields.Description,
			Price:       fields.Price,
			Category:    fields.Category,
			Images:      append([]string{}, fields.Images...),
			Subject:     fields.Subject,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		next, _ := commit(s, &s.products, func(items []models.Product) ([]models.Product, error) {
			return append(items, created), nil
		})
		return s.persistProducts(ctx, next)
	})
	if err != nil {
		return models.Product{}, err
	}
	return created.Clone(), nil
}

// UpdateProduct replaces the product with p.ID. A missing id is ignored.
func (s *CatalogService) UpdateProduct(ctx context.Context, p models.Product) error {
	if err := validateProduct(models.ProductFields{
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Images:      p.Images,
	}); err != nil {
		return err
	}

	return s.queue.Do(ctx, func(ctx context.Context) error {
		found := false
		next, _ := commit(s, &s.products, func(items []models.Product) ([]models.Product, error) {
			for i := range items {
				if items[i].ID == p.ID {
					updated := p.Clone()
					updated.CreatedAt = items[i].CreatedAt
					updated.UpdatedAt = s.clock.Now()
					items[i] = updated
					found = true
					break
				}
			}
			return items, nil
		})
		if !found {
			utils.Debug("update of unknown product ignored", map[string]any{"product_id": p.ID})
			return nil
		}
		return s.persistProducts(ctx, next)
	})
}

// DeleteProduct removes the product with id. Offers that reference it are
// kept. A missing id is ignored.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.queue.Do(ctx, func(ctx context.Context) error {
		removed := false
		next, _ := commit(s, &s.products, func(items []models.Product) ([]models.Product, error) {
			kept := items[:0]
			for _, p := range items {
				if p.ID == id {
					removed = true
					continue
				}
				kept = append(kept, p)
			}
			return kept, nil
		})
		if !removed {
			return nil
		}
		return s.persistProducts(ctx, next)
	})
}

// Products returns a snapshot of the shop in insertion order
func (s *CatalogService) Products() []models.Product {
	return s.ProductsByCategory(models.AllCategories)
}

// ProductsByCategory returns the products of category; "All" matches every product
func (s *CatalogService) ProductsByCategory(category string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if category == models.AllCategories || p.Category == category {
			out = append(out, p.Clone())
		}
	}
	return out
}

// ProductByID returns the product with id
func (s *CatalogService) ProductByID(id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.findProduct(id); ok {
		return p.Clone(), nil
	}
	return models.Product{}, fmt.Errorf("service: %w - %s", catalogerrors.ErrProductNotFound, id)
}

// Categories returns the fixed category list
func (s *CatalogService) Categories() []string {
	return append([]string(nil), models.Categories...)
}

// findProduct looks id up; the caller holds s.mu
func (s *CatalogService) findProduct(id string) (models.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
