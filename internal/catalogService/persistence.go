package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/internal/models"
	"antique-catalog/internal/recovery"
	"antique-catalog/internal/repository"
	"antique-catalog/utils"
)

// loadCollection reads and decodes key. found is false when the key was
// never written. An undecodable mirror is logged and treated as empty.
func loadCollection[T any](ctx context.Context, store repository.Store, key string) (items []T, found bool, err error) {
	raw, err := store.Read(ctx, key)
	if errors.Is(err, catalogerrors.ErrKeyNotFound) {
		return []T{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("catalog: failed to load %s: %w", key, err)
	}

	items, err = decode[T](raw)
	if err != nil {
		utils.Warn("discarding undecodable collection", map[string]any{"key": key, "error": err.Error()})
		return []T{}, true, nil
	}
	return items, true, nil
}

func decode[T any](raw []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// watch applies other sessions' writes of key to *coll, last writer wins
func watch[T any](s *CatalogService, key string, coll *[]T) func() {
	return s.store.OnExternalChange(key, func(raw []byte) {
		items, err := decode[T](raw)
		if err != nil {
			utils.Warn("ignoring undecodable external change", map[string]any{"key": key, "error": err.Error()})
			return
		}

		s.mu.Lock()
		*coll = items
		s.mu.Unlock()

		utils.Info("applied external change", map[string]any{"key": key, "items": len(items)})
	})
}

// commit replaces *coll with fn's result under the write lock. fn receives a
// fresh copy of the collection and may return it modified.
func commit[T any](s *CatalogService, coll *[]T, fn func([]T) ([]T, error)) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(append([]T(nil), (*coll)...))
	if err != nil {
		return nil, err
	}
	*coll = next
	return next, nil
}

func (s *CatalogService) write(ctx context.Context, key string, items any) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("catalog: failed to encode %s: %w", key, err)
	}
	return s.store.Write(ctx, key, raw)
}

// persistSimple writes a collection that has no recovery path. Quota
// exhaustion is logged and swallowed; memory stays authoritative.
func (s *CatalogService) persistSimple(ctx context.Context, key string, items any) error {
	err := s.write(ctx, key, items)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalogerrors.ErrQuotaExceeded):
		utils.Warn("collection not persisted, store quota exceeded", map[string]any{"key": key})
		return nil
	default:
		return fmt.Errorf("catalog: failed to persist %s: %w", key, err)
	}
}

func (s *CatalogService) persistProducts(ctx context.Context, items []models.Product) error {
	return s.persistSimple(ctx, repository.KeyProducts, items)
}

func (s *CatalogService) persistOffers(ctx context.Context, items []models.Offer) error {
	return s.persistSimple(ctx, repository.KeyOffers, items)
}

func (s *CatalogService) persistDiscounts(ctx context.Context, items []models.OfferDiscount) error {
	return s.persistSimple(ctx, repository.KeyOfferDiscounts, items)
}

// persistSubmissions writes the submissions, running quota recovery when the
// store is full. A recovered collection replaces the in-memory one; when
// recovery is exhausted memory keeps everything and the mirror is cleared.
func (s *CatalogService) persistSubmissions(ctx context.Context, items []models.AntiqueSubmission) error {
	err := s.write(ctx, repository.KeySubmissions, items)
	if err == nil {
		return nil
	}
	if !errors.Is(err, catalogerrors.ErrQuotaExceeded) {
		return fmt.Errorf("catalog: failed to persist submissions: %w", err)
	}

	utils.Warn("submissions over quota, starting recovery", map[string]any{"items": len(items)})
	res := s.recovery.Recover(ctx, items, func(ctx context.Context, candidate []models.AntiqueSubmission) error {
		return s.write(ctx, repository.KeySubmissions, candidate)
	})
	if res.Err != nil {
		return fmt.Errorf("catalog: failed to persist submissions during recovery: %w", res.Err)
	}
	if res.Stage == recovery.StageExhausted {
		return nil
	}

	s.mu.Lock()
	s.submissions = res.Submissions
	s.mu.Unlock()
	return nil
}
