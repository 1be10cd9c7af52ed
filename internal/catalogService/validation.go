package catalog

import (
	"fmt"
	"strings"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/internal/models"

	"github.com/shopspring/decimal"
)

// MaxImages is how many images an item may carry
const MaxImages = 3

func validateListing(kind error, title, description string, price decimal.Decimal, category string, images []string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("service: %w - missing title", kind)
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("service: %w - missing description", kind)
	}
	if price.IsNegative() {
		return fmt.Errorf("service: %w - negative price", kind)
	}
	if !models.IsValidCategory(category) {
		return fmt.Errorf("service: %w - %q", catalogerrors.ErrUnknownCategory, category)
	}
	if len(images) > MaxImages {
		return fmt.Errorf("service: %w - at most %d images allowed", kind, MaxImages)
	}
	return nil
}

func validateProduct(p models.ProductFields) error {
	return validateListing(catalogerrors.ErrInvalidProduct, p.Title, p.Description, p.Price, p.Category, p.Images)
}

func validateSubmission(s models.SubmissionFields) error {
	return validateListing(catalogerrors.ErrInvalidSubmission, s.Title, s.Description, s.Price, s.Category, s.Images)
}

func validateOffer(o models.OfferFields) error {
	if o.ProductID == "" {
		return fmt.Errorf("service: %w - missing product id", catalogerrors.ErrInvalidOffer)
	}
	if !o.Amount.IsPositive() {
		return fmt.Errorf("service: %w - non-positive offer amount", catalogerrors.ErrInvalidOffer)
	}
	if strings.TrimSpace(o.Name) == "" || strings.TrimSpace(o.ContactNumber) == "" {
		return fmt.Errorf("service: %w - missing bidder name or contact", catalogerrors.ErrInvalidOffer)
	}
	return nil
}

func validateOfferDiscount(d models.OfferDiscountFields) error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("service: %w - missing title or description", catalogerrors.ErrInvalidOfferDiscount)
	}
	if d.Status != "" && !d.Status.IsValid() {
		return fmt.Errorf("service: %w - unknown status %q", catalogerrors.ErrInvalidOfferDiscount, d.Status)
	}
	return nil
}

// checkTransition reports whether from -> to is a status change, and rejects
// every change other than pending to approved or rejected.
func checkTransition(entity string, from, to models.ReviewStatus) (bool, error) {
	if from == to {
		return false, nil
	}
	if from == models.StatusPending && to.IsTerminal() {
		return true, nil
	}
	return false, fmt.Errorf("service: %w - %s %s to %q", catalogerrors.ErrInvalidStatusTransition, entity, from, to)
}
