package catalogerrors

import "errors"

// Store-level errors
var (
	ErrQuotaExceeded = errors.New("store quota exceeded")
	ErrKeyNotFound   = errors.New("key not found in store")
	ErrStoreClosed   = errors.New("store is closed")
)

// Codec errors
var (
	ErrDecodeFailure = errors.New("image payload could not be decoded")
)

// Queue errors
var (
	ErrQueueClosed = errors.New("mutation queue is closed")
)

// business logic errors
var (
	ErrInvalidProduct          = errors.New("invalid product")
	ErrInvalidSubmission       = errors.New("invalid submission")
	ErrInvalidOffer            = errors.New("invalid offer")
	ErrInvalidOfferDiscount    = errors.New("invalid offer discount")
	ErrUnknownCategory         = errors.New("unknown category")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrProductNotFound         = errors.New("product not found")
	ErrSubmissionNotFound      = errors.New("submission not found")
	ErrOfferNotFound           = errors.New("offer not found")
	ErrOfferDiscountNotFound   = errors.New("offer discount not found")
)

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidAudience      = errors.New("invalid notification audience")
)
