package helpers

import (
	"antique-catalog/internal/models"

	"github.com/shopspring/decimal"
)

// Request DTOs
type ProductRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       float64  `json:"price" binding:"gte=0"`
	Category    string   `json:"category" binding:"required"`
	Images      []string `json:"images" binding:"max=3"`
	Subject     string   `json:"subject"`
}

type SubmissionRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       float64  `json:"price" binding:"gte=0"`
	Category    string   `json:"category" binding:"required"`
	Images      []string `json:"images" binding:"max=3"`
	Phone       string   `json:"phone"`
	Address     string   `json:"address"`
	Subject     string   `json:"subject"`
	UserID      string   `json:"user_id"`
}

type UpdateSubmissionRequest struct {
	SubmissionRequest
	Status models.ReviewStatus `json:"status" binding:"required,oneof=pending approved rejected"`
}

type OfferRequest struct {
	ProductID     string  `json:"product_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Message       string  `json:"message"`
	Name          string  `json:"name" binding:"required"`
	ContactNumber string  `json:"contact_number" binding:"required"`
	UserID        string  `json:"user_id"`
}

type UpdateOfferRequest struct {
	OfferRequest
	Status models.ReviewStatus `json:"status" binding:"required,oneof=pending approved rejected"`
}

type OfferDiscountRequest struct {
	Title       string                `json:"title" binding:"required"`
	Description string                `json:"description" binding:"required"`
	Status      models.DiscountStatus `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ProductFields converts the request into service input
func (r ProductRequest) ProductFields() models.ProductFields {
	return models.ProductFields{
		Title:       r.Title,
		Description: r.Description,
		Price:       decimal.NewFromFloat(r.Price),
		Category:    r.Category,
		Images:      r.Images,
		Subject:     r.Subject,
	}
}

// SubmissionFields converts the request into service input
func (r SubmissionRequest) SubmissionFields() models.SubmissionFields {
	return models.SubmissionFields{
		Title:       r.Title,
		Description: r.Description,
		Price:       decimal.NewFromFloat(r.Price),
		Category:    r.Category,
		Images:      r.Images,
		Phone:       r.Phone,
		Address:     r.Address,
		Subject:     r.Subject,
		UserID:      r.UserID,
	}
}

// OfferFields converts the request into service input
func (r OfferRequest) OfferFields() models.OfferFields {
	return models.OfferFields{
		ProductID:     r.ProductID,
		Amount:        decimal.NewFromFloat(r.Amount),
		Message:       r.Message,
		Name:          r.Name,
		ContactNumber: r.ContactNumber,
		UserID:        r.UserID,
	}
}

// OfferDiscountFields converts the request into service input
func (r OfferDiscountRequest) OfferDiscountFields() models.OfferDiscountFields {
	return models.OfferDiscountFields{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
	}
}
