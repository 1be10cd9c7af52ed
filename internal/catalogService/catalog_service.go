package catalog

import (
	"context"
	"sync"

	"antique-catalog/internal/imagecodec"
	"antique-catalog/internal/models"
	"antique-catalog/internal/notify"
	"antique-catalog/internal/pkg/clock"
	"antique-catalog/internal/queue"
	"antique-catalog/internal/recovery"
	"antique-catalog/internal/repository"
	"antique-catalog/utils"
)

// Config holds the catalog's ingestion limits
type Config struct {
	// IngestImageMaxWidth and IngestImageMaxHeight bound submission images
	// when they are first accepted.
	IngestImageMaxWidth  int
	IngestImageMaxHeight int
}

// DefaultConfig returns the standard ingestion limits
func DefaultConfig() Config {
	return Config{IngestImageMaxWidth: 1200, IngestImageMaxHeight: 1200}
}

// Dependencies are the collaborators of a CatalogService. Only Store is
// required; the rest fall back to defaults.
type Dependencies struct {
	Store    repository.Store
	Queue    *queue.Queue
	Recovery *recovery.Pipeline
	Codec    imagecodec.Compressor
	Notifier notify.Sink
	Clock    clock.Clock
}

// CatalogService owns the products, submissions, offers and offer/discount
// announcements of the shop. The in-memory collections are authoritative;
// every mutation runs through the queue and is mirrored to the store.
type CatalogService struct {
	store    repository.Store
	queue    *queue.Queue
	recovery *recovery.Pipeline
	codec    imagecodec.Compressor
	notifier notify.Sink
	clock    clock.Clock
	cfg      Config

	mu          sync.RWMutex
	products    []models.Product
	submissions []models.AntiqueSubmission
	offers      []models.Offer
	discounts   []models.OfferDiscount

	unsubscribe []func()
}

// NewCatalogService creates a new CatalogService instance. Call Load before use.
func NewCatalogService(deps Dependencies, cfg Config) *CatalogService {
	def := DefaultConfig()
	if cfg.IngestImageMaxWidth <= 0 {
		cfg.IngestImageMaxWidth = def.IngestImageMaxWidth
	}
	if cfg.IngestImageMaxHeight <= 0 {
		cfg.IngestImageMaxHeight = def.IngestImageMaxHeight
	}

	if deps.Clock == nil {
		deps.Clock = clock.NewRealClock()
	}
	if deps.Codec == nil {
		deps.Codec = imagecodec.New(imagecodec.DefaultQuality)
	}
	if deps.Queue == nil {
		deps.Queue = queue.New()
	}
	if deps.Recovery == nil {
		deps.Recovery = recovery.New(recovery.DefaultConfig(), deps.Codec, deps.Clock)
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.LogSink{}
	}

	return &CatalogService{
		store:    deps.Store,
		queue:    deps.Queue,
		recovery: deps.Recovery,
		codec:    deps.Codec,
		notifier: deps.Notifier,
		clock:    deps.Clock,
		cfg:      cfg,
	}
}

// Load rehydrates every collection from the store, seeds the shop when no
// products were ever saved, and starts applying changes made by other sessions.
func (s *CatalogService) Load(ctx context.Context) error {
	products, found, err := loadCollection[models.Product](ctx, s.store, repository.KeyProducts)
	if err != nil {
		return err
	}
	if !found {
		products = seedProducts(s.clock.Now())
		if err := s.persistProducts(ctx, products); err != nil {
			return err
		}
		utils.Info("seeded initial products", map[string]any{"count": len(products)})
	}

	submissions, _, err := loadCollection[models.AntiqueSubmission](ctx, s.store, repository.KeySubmissions)
	if err != nil {
		return err
	}
	offers, _, err := loadCollection[models.Offer](ctx, s.store, repository.KeyOffers)
	if err != nil {
		return err
	}
	discounts, _, err := loadCollection[models.OfferDiscount](ctx, s.store, repository.KeyOfferDiscounts)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.products = products
	s.submissions = submissions
	s.offers = offers
	s.discounts = discounts
	s.mu.Unlock()

	s.unsubscribe = append(s.unsubscribe,
		watch(s, repository.KeyProducts, &s.products),
		watch(s, repository.KeySubmissions, &s.submissions),
		watch(s, repository.KeyOffers, &s.offers),
		watch(s, repository.KeyOfferDiscounts, &s.discounts),
	)

	utils.Info("catalog loaded", map[string]any{
		"products":    len(products),
		"submissions": len(submissions),
		"offers":      len(offers),
		"discounts":   len(discounts),
	})
	return nil
}

// Close stops external-change delivery and waits for queued mutations.
// The store itself is left open.
func (s *CatalogService) Close() {
	for _, unsub := range s.unsubscribe {
		unsub()
	}
	s.unsubscribe = nil
	s.queue.Close()
}

// notify stamps and delivers notifications
func (s *CatalogService) notify(ctx context.Context, ns ...notify.Notification) {
	now := s.clock.Now()
	for _, n := range ns {
		n.ID = utils.GenerateID()
		n.CreatedAt = now
		s.notifier.Notify(ctx, n)
	}
}
