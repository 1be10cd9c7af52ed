package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReviewStatus is the admin review state shared by submissions and offers
type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

// IsValid reports whether s is one of the known review states
func (s ReviewStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further review transition is possible
func (s ReviewStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// DiscountStatus toggles an announcement on and off
type DiscountStatus string

const (
	DiscountActive   DiscountStatus = "active"
	DiscountInactive DiscountStatus = "inactive"
)

// IsValid reports whether s is active or inactive
func (s DiscountStatus) IsValid() bool {
	return s == DiscountActive || s == DiscountInactive
}

// Product represents an item listed in the shop
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Images      []string        `json:"images"`
	Subject     string          `json:"subject"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Clone returns a copy that shares no slices with p
func (p Product) Clone() Product {
	p.Images = append([]string(nil), p.Images...)
	return p
}

// ProductFields holds the caller-supplied fields of a new product
type ProductFields struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	Images      []string
	Subject     string
}

// AntiqueSubmission is a seller's proposed item awaiting admin review
type AntiqueSubmission struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Images      []string        `json:"images"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	Subject     string          `json:"subject"`
	Status      ReviewStatus    `json:"status"`
	SubmittedAt time.Time       `json:"submitted_at"`
	UserID      string          `json:"user_id,omitempty"`
}

// Clone returns a copy that shares no slices with s
func (s AntiqueSubmission) Clone() AntiqueSubmission {
	s.Images = append([]string(nil), s.Images...)
	return s
}

// SubmissionFields holds the caller-supplied fields of a new submission
type SubmissionFields struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	Images      []string
	Phone       string
	Address     string
	Subject     string
	UserID      string
}

// Offer is a buyer's proposed purchase price for a product
type Offer struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Amount        decimal.Decimal `json:"amount"`
	Message       string          `json:"message,omitempty"`
	Name          string          `json:"name"`
	ContactNumber string          `json:"contact_number"`
	Status        ReviewStatus    `json:"status"`
	SubmittedAt   time.Time       `json:"submitted_at"`
	UserID        string          `json:"user_id,omitempty"`
}

// OfferFields holds the caller-supplied fields of a new offer
type OfferFields struct {
	ProductID     string
	Amount        decimal.Decimal
	Message       string
	Name          string
	ContactNumber string
	UserID        string
}

// OfferDiscount is a promotional announcement shown in the shop
type OfferDiscount struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      DiscountStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

// OfferDiscountFields holds the caller-supplied fields of a new announcement
type OfferDiscountFields struct {
	Title       string
	Description string
	Status      DiscountStatus
}
