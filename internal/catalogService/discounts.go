package catalog

import (
	"context"
	"fmt"
	"sort"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/internal/models"
	"antique-catalog/utils"
)

// AddOfferDiscount records a new announcement; it starts active unless
// fields say otherwise
func (s *CatalogService) AddOfferDiscount(ctx context.Context, fields models.OfferDiscountFields) (models.OfferDiscount, error) {
	if err := validateOfferDiscount(fields); err != nil {
		return models.OfferDiscount{}, err
	}

	status := fields.Status
	if status == "" {
		status = models.DiscountActive
	}

	var created models.OfferDiscount
	err := s.queue.Do(ctx, func(ctx context.Context) error {
		created = models.OfferDiscount{
			ID:          utils.GenerateID(),
			Title:       fields.Title,
			Description: fields.Description,
			Status:      status,
			CreatedAt:   s.clock.Now(),
		}
		next, _ := commit(s, &s.discounts, func(items []models.OfferDiscount) ([]models.OfferDiscount, error) {
			return append(items, created), nil
		})
		return s.persistDiscounts(ctx, next)
	})
	if err != nil {
		return models.OfferDiscount{}, err
	}
	return created, nil
}

// UpdateOfferDiscount replaces the announcement with d.ID. Status toggles
// freely. A missing id is ignored.
func (s *CatalogService) UpdateOfferDiscount(ctx context.Context, d models.OfferDiscount) error {
	if err := validateOfferDiscount(models.OfferDiscountFields{
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
	}); err != nil {
		return err
	}

	return s.queue.Do(ctx, func(ctx context.Context) error {
		found := false
		next, _ := commit(s, &s.discounts, func(items []models.OfferDiscount) ([]models.OfferDiscount, error) {
			for i := range items {
				if items[i].ID == d.ID {
					updated := d
					updated.CreatedAt = items[i].CreatedAt
					if updated.Status == "" {
						updated.Status = items[i].Status
					}
					items[i] = updated
					found = true
					break
				}
			}
			return items, nil
		})
		if !found {
			return nil
		}
		return s.persistDiscounts(ctx, next)
	})
}

// DeleteOfferDiscount removes the announcement with id. A missing id is ignored.
func (s *CatalogService) DeleteOfferDiscount(ctx context.Context, id string) error {
	return s.queue.Do(ctx, func(ctx context.Context) error {
		removed := false
		next, _ := commit(s, &s.discounts, func(items []models.OfferDiscount) ([]models.OfferDiscount, error) {
			kept := items[:0]
			for _, d := range items {
				if d.ID == id {
					removed = true
					continue
				}
				kept = append(kept, d)
			}
			return kept, nil
		})
		if !removed {
			return nil
		}
		return s.persistDiscounts(ctx, next)
	})
}

// OfferDiscounts returns a snapshot of all announcements, newest first
func (s *CatalogService) OfferDiscounts() []models.OfferDiscount {
	s.mu.RLock()
	out := append([]models.OfferDiscount{}, s.discounts...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// OfferDiscountByID returns the announcement with id
func (s *CatalogService) OfferDiscountByID(id string) (models.OfferDiscount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.discounts {
		if d.ID == id {
			return d, nil
		}
	}
	return models.OfferDiscount{}, fmt.Errorf("service: %w - %s", catalogerrors.ErrOfferDiscountNotFound, id)
}
