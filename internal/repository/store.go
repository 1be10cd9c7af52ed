package repository

//go:generate mockgen -source=store.go -destination=mock_store.go -package=repository

import (
	"context"
)

// Keys under which the catalog collections are mirrored
const (
	KeyProducts       = "products"
	KeySubmissions    = "antiqueSubmissions"
	KeyOffers         = "offers"
	KeyOfferDiscounts = "offersDiscounts"
)

// ChangeFunc receives the new raw value of a key written by another session
type ChangeFunc func(value []byte)

// Store is a quota-limited durable key/value blob store shared by all
// collection keys. Values are opaque to the store.
type Store interface {
	// Read returns the raw value of key, or ErrKeyNotFound when absent.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the value of key. It returns ErrQuotaExceeded when the
	// store's total size would exceed its quota; the old value is kept.
	Write(ctx context.Context, key string, value []byte) error

	// OnExternalChange registers fn for writes to key made by other sessions.
	// The returned func removes the registration.
	OnExternalChange(key string, fn ChangeFunc) (unsubscribe func())

	// Close releases the store's resources.
	Close() error
}
