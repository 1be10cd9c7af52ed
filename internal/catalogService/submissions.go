package catalog

import (
	"context"
	"fmt"
	"sort"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/internal/models"
	"antique-catalog/utils"
)

// AddSubmission compresses the submitted images and records a new pending
// submission
func (s *CatalogService) AddSubmission(ctx context.Context, fields models.SubmissionFields) (models.AntiqueSubmission, error) {
	if err := validateSubmission(fields); err != nil {
		return models.AntiqueSubmission{}, err
	}

	images := make([]string, len(fields.Images))
	for i, img := range fields.Images {
		images[i] = s.codec.Compress(img, s.cfg.IngestImageMaxWidth, s.cfg.IngestImageMaxHeight)
	}

	var created models.AntiqueSubmission
	err := s.queue.Do(ctx, func(ctx context.Context) error {
		created = models.AntiqueSubmission{
			ID:          utils.GenerateID(),
			Title:       fields.Title,
			Description: fields.Description,
			Price:       fields.Price,
			Category:    fields.Category,
			Images:      images,
			Phone:       fields.Phone,
			Address:     fields.Address,
			Subject:     fields.Subject,
			Status:      models.StatusPending,
			SubmittedAt: s.clock.Now(),
			UserID:      fields.UserID,
		}

		next, _ := commit(s, &s.submissions, func(items []models.AntiqueSubmission) ([]models.AntiqueSubmission, error) {
			return append(items, created), nil
		})
		return s.persistSubmissions(ctx, next)
	})
	if err != nil {
		return models.AntiqueSubmission{}, err
	}

	utils.Info("submission received", map[string]any{"submission_id": created.ID, "images": len(images)})
	return created.Clone(), nil
}

// UpdateSubmission replaces the submission with sub.ID. A status change
// notifies the admin and the submitter; only pending submissions may change
// status. A missing id is ignored.
func (s *CatalogService) UpdateSubmission(ctx context.Context, sub models.AntiqueSubmission) error {
	if err := validateSubmission(models.SubmissionFields{
		Title:       sub.Title,
		Description: sub.Description,
		Price:       sub.Price,
		Category:    sub.Category,
		Images:      sub.Images,
	}); err != nil {
		return err
	}

	return s.queue.Do(ctx, func(ctx context.Context) error {
		found, changed := false, false
		next, err := commit(s, &s.submissions, func(items []models.AntiqueSubmission) ([]models.AntiqueSubmission, error) {
			for i := range items {
				if items[i].ID != sub.ID {
					continue
				}
				var err error
				if changed, err = checkTransition(string(KindSubmission), items[i].Status, sub.Status); err != nil {
					return nil, err
				}
				updated := sub.Clone()
				updated.SubmittedAt = items[i].SubmittedAt
				items[i] = updated
				found = true
				break
			}
			return items, nil
		})
		if err != nil {
			return err
		}
		if !found {
			utils.Debug("update of unknown submission ignored", map[string]any{"submission_id": sub.ID})
			return nil
		}

		if err := s.persistSubmissions(ctx, next); err != nil {
			return err
		}
		if changed {
			utils.Info("submission status changed", map[string]any{"submission_id": sub.ID, "status": sub.Status})
			s.notify(ctx, TransitionNotifications(KindSubmission, sub.Status, sub.Title)...)
		}
		return nil
	})
}

// DeleteSubmission removes the submission with id. A missing id is ignored.
func (s *CatalogService) DeleteSubmission(ctx context.Context, id string) error {
	return s.queue.Do(ctx, func(ctx context.Context) error {
		var removed *models.AntiqueSubmission
		next, _ := commit(s, &s.submissions, func(items []models.AntiqueSubmission) ([]models.AntiqueSubmission, error) {
			kept := items[:0]
			for _, sub := range items {
				if sub.ID == id {
					removed = &sub
					continue
				}
				kept = append(kept, sub)
			}
			return kept, nil
		})
		if removed == nil {
			return nil
		}

		if err := s.persistSubmissions(ctx, next); err != nil {
			return err
		}
		s.notify(ctx, deletionNotification(KindSubmission, removed.Title))
		return nil
	})
}

// PromoteSubmission copies an approved submission into a new, independent
// product and tells the admin and the submitter it is now in the shop
func (s *CatalogService) PromoteSubmission(ctx context.Context, id string) (models.Product, error) {
	var created models.Product
	err := s.queue.Do(ctx, func(ctx context.Context) error {
		s.mu.RLock()
		sub, ok := s.findSubmission(id)
		s.mu.RUnlock()
		if !ok {
			return fmt.Errorf("service: %w - %s", catalogerrors.ErrSubmissionNotFound, id)
		}
		if sub.Status != models.StatusApproved {
			return fmt.Errorf("service: %w - submission %s is %s, not approved", catalogerrors.ErrInvalidStatusTransition, id, sub.Status)
		}

		now := s.clock.Now()
		created = models.Product{
			ID:          utils.GenerateID(),
			Title:       sub.Title,
			Description: sub.Description,
			Price:       sub.Price,
			Category:    sub.Category,
			Images:      append([]string{}, sub.Images...),
			Subject:     sub.Subject,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		next, _ := commit(s, &s.products, func(items []models.Product) ([]models.Product, error) {
			return append(items, created), nil
		})
		if err := s.persistProducts(ctx, next); err != nil {
			return err
		}
		s.notify(ctx, promotionMessages.render(sub.Title)...)
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return created.Clone(), nil
}

// Submissions returns a snapshot of all submissions, newest first
func (s *CatalogService) Submissions() []models.AntiqueSubmission {
	s.mu.RLock()
	out := make([]models.AntiqueSubmission, len(s.submissions))
	for i, sub := range s.submissions {
		out[i] = sub.Clone()
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}

// SubmissionByID returns the submission with id
func (s *CatalogService) SubmissionByID(id string) (models.AntiqueSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sub, ok := s.findSubmission(id); ok {
		return sub.Clone(), nil
	}
	return models.AntiqueSubmission{}, fmt.Errorf("service: %w - %s", catalogerrors.ErrSubmissionNotFound, id)
}

// findSubmission looks id up; the caller holds s.mu
func (s *CatalogService) findSubmission(id string) (models.AntiqueSubmission, bool) {
	for _, sub := range s.submissions {
		if sub.ID == id {
			return sub, true
		}
	}
	return models.AntiqueSubmission{}, false
}
