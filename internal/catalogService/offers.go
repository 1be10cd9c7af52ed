package catalog

import (
	"context"
	"fmt"
	"sort"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/internal/models"
	"antique-catalog/utils"
)

// AddOffer records a pending offer for an existing product
func (s *CatalogService) AddOffer(ctx context.Context, fields models.OfferFields) (models.Offer, error) {
	if err := validateOffer(fields); err != nil {
		return models.Offer{}, err
	}

	var created models.Offer
	err := s.queue.Do(ctx, func(ctx context.Context) error {
		created = models.Offer{
			ID:            utils.GenerateID(),
			ProductID:     fields.ProductID,
			Amount:        fields.Amount,
			Message:       fields.Message,
			Name:          fields.Name,
			ContactNumber: fields.ContactNumber,
			Status:        models.StatusPending,
			SubmittedAt:   s.clock.Now(),
			UserID:        fields.UserID,
		}

		next, err := commit(s, &s.offers, func(items []models.Offer) ([]models.Offer, error) {
			if _, ok := s.findProduct(fields.ProductID); !ok {
				return nil, fmt.Errorf("service: %w - %s", catalogerrors.ErrProductNotFound, fields.ProductID)
			}
			return append(items, created), nil
		})
		if err != nil {
			return err
		}
		return s.persistOffers(ctx, next)
	})
	if err != nil {
		return models.Offer{}, err
	}
	return created, nil
}

// UpdateOffer replaces the offer with o.ID, notifying the admin and the bidder
// when its status changes. A missing id is ignored.
func (s *CatalogService) UpdateOffer(ctx context.Context, o models.Offer) error {
	if err := validateOffer(models.OfferFields{
		ProductID:     o.ProductID,
		Amount:        o.Amount,
		Name:          o.Name,
		ContactNumber: o.ContactNumber,
	}); err != nil {
		return err
	}

	return s.queue.Do(ctx, func(ctx context.Context) error {
		found, changed := false, false
		label := unavailableItem
		next, err := commit(s, &s.offers, func(items []models.Offer) ([]models.Offer, error) {
			for i := range items {
				if items[i].ID != o.ID {
					continue
				}
				var err error
				if changed, err = checkTransition(string(KindOffer), items[i].Status, o.Status); err != nil {
					return nil, err
				}
				updated := o
				updated.SubmittedAt = items[i].SubmittedAt
				items[i] = updated
				found = true
				if p, ok := s.findProduct(o.ProductID); ok {
					label = p.Title
				}
				break
			}
			return items, nil
		})
		if err != nil {
			return err
		}
		if !found {
			utils.Debug("update of unknown offer ignored", map[string]any{"offer_id": o.ID})
			return nil
		}

		if err := s.persistOffers(ctx, next); err != nil {
			return err
		}
		if changed {
			utils.Info("offer status changed", map[string]any{"offer_id": o.ID, "status": o.Status})
			s.notify(ctx, TransitionNotifications(KindOffer, o.Status, label)...)
		}
		return nil
	})
}

// DeleteOffer removes the offer with id. A missing id is ignored.
func (s *CatalogService) DeleteOffer(ctx context.Context, id string) error {
	return s.queue.Do(ctx, func(ctx context.Context) error {
		removed := false
		label := unavailableItem
		next, _ := commit(s, &s.offers, func(items []models.Offer) ([]models.Offer, error) {
			kept := items[:0]
			for _, o := range items {
				if o.ID == id {
					removed = true
					if p, ok := s.findProduct(o.ProductID); ok {
						label = p.Title
					}
					continue
				}
				kept = append(kept, o)
			}
			return kept, nil
		})
		if !removed {
			return nil
		}

		if err := s.persistOffers(ctx, next); err != nil {
			return err
		}
		s.notify(ctx, deletionNotification(KindOffer, label))
		return nil
	})
}

// Offers returns a snapshot of all offers, newest first
func (s *CatalogService) Offers() []models.Offer {
	s.mu.RLock()
	out := append([]models.Offer{}, s.offers...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}

// OffersForProduct returns the offers on productID, newest first
func (s *CatalogService) OffersForProduct(productID string) []models.Offer {
	all := s.Offers()
	out := make([]models.Offer, 0, len(all))
	for _, o := range all {
		if o.ProductID == productID {
			out = append(out, o)
		}
	}
	return out
}

// OfferByID returns the offer with id
func (s *CatalogService) OfferByID(id string) (models.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.offers {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Offer{}, fmt.Errorf("service: %w - %s", catalogerrors.ErrOfferNotFound, id)
}
