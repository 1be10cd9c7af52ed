package catalog

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/internal/models"
	"antique-catalog/internal/notify"
	"antique-catalog/internal/pkg/clock"
	"antique-catalog/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// limitedStore wraps a MemoryStore and rejects submission writes holding more
// than maxSubmissions items, or any write to a key listed in failKeys
type limitedStore struct {
	*repository.MemoryStore

	mu             sync.Mutex
	maxSubmissions int
	failKeys       map[string]error
}

func newLimitedStore() *limitedStore {
	return &limitedStore{
		MemoryStore:    repository.NewMemoryStore(0),
		maxSubmissions: -1,
		failKeys:       map[string]error{},
	}
}

func (l *limitedStore) setMaxSubmissions(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maxSubmissions = n
}

func (l *limitedStore) failWrites(key string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failKeys[key] = err
}

func (l *limitedStore) Write(ctx context.Context, key string, value []byte) error {
	l.mu.Lock()
	limit, fail := l.maxSubmissions, l.failKeys[key]
	l.mu.Unlock()

	if fail != nil {
		return fail
	}
	if key == repository.KeySubmissions && limit >= 0 {
		var items []json.RawMessage
		if err := json.Unmarshal(value, &items); err != nil {
			return err
		}
		if len(items) > limit {
			return fmt.Errorf("write %s: %w", key, catalogerrors.ErrQuotaExceeded)
		}
	}
	return l.MemoryStore.Write(ctx, key, value)
}

type testCatalog struct {
	svc   *CatalogService
	inbox *notify.Inbox
	clock *clock.MockClock
}

// newTestCatalog builds and loads a catalog over store
func newTestCatalog(t *testing.T, store repository.Store) testCatalog {
	t.Helper()
	clk := clock.NewMockClock(start)
	inbox := notify.NewInbox(0, clk)
	svc := NewCatalogService(Dependencies{Store: store, Notifier: inbox, Clock: clk}, DefaultConfig())
	require.NoError(t, svc.Load(context.Background()))
	t.Cleanup(svc.Close)
	return testCatalog{svc: svc, inbox: inbox, clock: clk}
}

func (tc testCatalog) notifications(t *testing.T, audience notify.Audience) []notify.Notification {
	t.Helper()
	list, err := tc.inbox.List(audience)
	require.NoError(t, err)
	return list
}

func submissionFields(title string) models.SubmissionFields {
	return models.SubmissionFields{
		Title:       title,
		Description: "Collected from an estate sale.",
		Price:       decimal.NewFromInt(500),
		Category:    "Decorative Accents",
		Phone:       "+91 98765 43210",
		Address:     "12 Market Road",
	}
}

func offerFields(productID string) models.OfferFields {
	return models.OfferFields{
		ProductID:     productID,
		Amount:        decimal.NewFromInt(40000),
		Name:          "Asha",
		ContactNumber: "+91 90000 00000",
	}
}

// storedSubmissions decodes the durable submissions mirror
func storedSubmissions(t *testing.T, store repository.Store) []models.AntiqueSubmission {
	t.Helper()
	raw, err := store.Read(context.Background(), repository.KeySubmissions)
	require.NoError(t, err)
	var items []models.AntiqueSubmission
	require.NoError(t, json.Unmarshal(raw, &items))
	return items
}

// pngDataURL builds a PNG data URL of the given size
func pngDataURL(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
