package handler

import (
	"context"
	"net/http"

	"antique-catalog/internal/models"
	"antique-catalog/internal/notify"
	"antique-catalog/services/catalog/helpers"
	"antique-catalog/utils"

	"github.com/gin-gonic/gin"
)

type CatalogServiceInterface interface {
	AddProduct(ctx context.Context, fields models.ProductFields) (models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	Products() []models.Product
	ProductsByCategory(category string) []models.Product
	ProductByID(id string) (models.Product, error)
	Categories() []string

	AddSubmission(ctx context.Context, fields models.SubmissionFields) (models.AntiqueSubmission, error)
	UpdateSubmission(ctx context.Context, sub models.AntiqueSubmission) error
	DeleteSubmission(ctx context.Context, id string) error
	PromoteSubmission(ctx context.Context, id string) (models.Product, error)
	Submissions() []models.AntiqueSubmission
	SubmissionByID(id string) (models.AntiqueSubmission, error)

	AddOffer(ctx context.Context, fields models.OfferFields) (models.Offer, error)
	UpdateOffer(ctx context.Context, o models.Offer) error
	DeleteOffer(ctx context.Context, id string) error
	Offers() []models.Offer
	OffersForProduct(productID string) []models.Offer
	OfferByID(id string) (models.Offer, error)

	AddOfferDiscount(ctx context.Context, fields models.OfferDiscountFields) (models.OfferDiscount, error)
	UpdateOfferDiscount(ctx context.Context, d models.OfferDiscount) error
	DeleteOfferDiscount(ctx context.Context, id string) error
	OfferDiscounts() []models.OfferDiscount
	OfferDiscountByID(id string) (models.OfferDiscount, error)
}

type NotificationInbox interface {
	List(audience notify.Audience) ([]notify.Notification, error)
	MarkRead(id string) (notify.Notification, error)
}

type CatalogHandler struct {
	service CatalogServiceInterface
	inbox   NotificationInbox
}

func NewCatalogHandler(service CatalogServiceInterface, inbox NotificationInbox) *CatalogHandler {
	return &CatalogHandler{service: service, inbox: inbox}
}

// ListProductsHandler handles GET /products?category=
func (h *CatalogHandler) ListProductsHandler(c *gin.Context) {
	category := c.DefaultQuery("category", models.AllCategories)
	products := h.service.ProductsByCategory(category)

	utils.JSONList(c, products, len(products), "products retrieved successfully")
	helpers.LogSuccess("ListProductsHandler", "products retrieved successfully", map[string]any{
		"category": category,
		"count":    len(products),
	})
}

// GetProductHandler handles GET /products/:id
func (h *CatalogHandler) GetProductHandler(c *gin.Context) {
	id := c.Param("id")
	product, err := h.service.ProductByID(id)
	if err != nil {
		helpers.HandleServiceError(c, "GetProductHandler", err, map[string]any{"product_id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, product, "product retrieved successfully")
}

// CreateProductHandler handles POST /products
func (h *CatalogHandler) CreateProductHandler(c *gin.Context) {
	var req helpers.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateProductHandler", err)
		return
	}

	product, err := h.service.AddProduct(c.Request.Context(), req.ProductFields())
	if err != nil {
		helpers.HandleServiceError(c, "CreateProductHandler", err, map[string]any{"title": req.Title})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, product, "product created successfully")
	helpers.LogSuccess("CreateProductHandler", "product created successfully", map[string]any{
		"product_id": product.ID,
		"category":   product.Category,
	})
}

// UpdateProductHandler handles PUT /products/:id
func (h *CatalogHandler) UpdateProductHandler(c *gin.Context) {
	id := c.Param("id")
	var req helpers.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateProductHandler", err)
		return
	}

	fields := req.ProductFields()
	err := h.service.UpdateProduct(c.Request.Context(), models.Product{
		ID:          id,
		Title:       fields.Title,
		Description: fields.Description,
		Price:       fields.Price,
		Category:    fields.Category,
		Images:      fields.Images,
		Subject:     fields.Subject,
	})
	if err != nil {
		helpers.HandleServiceError(c, "UpdateProductHandler", err, map[string]any{"product_id": id})
		return
	}

	// updates of unknown ids are ignored by the catalog; report them here
	product, err := h.service.ProductByID(id)
	if err != nil {
		helpers.HandleServiceError(c, "UpdateProductHandler", err, map[string]any{"product_id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, product, "product updated successfully")
	helpers.LogSuccess("UpdateProductHandler", "product updated successfully", map[string]any{"product_id": id})
}

// DeleteProductHandler handles DELETE /products/:id
func (h *CatalogHandler) DeleteProductHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		helpers.HandleServiceError(c, "DeleteProductHandler", err, map[string]any{"product_id": id})
		return
	}

	c.Status(http.StatusNoContent)
	helpers.LogSuccess("DeleteProductHandler", "product deleted", map[string]any{"product_id": id})
}

// ListProductOffersHandler handles GET /products/:id/offers
func (h *CatalogHandler) ListProductOffersHandler(c *gin.Context) {
	id := c.Param("id")
	offers := h.service.OffersForProduct(id)
	utils.JSONList(c, offers, len(offers), "offers retrieved successfully")
}

// ListCategoriesHandler handles GET /categories
func (h *CatalogHandler) ListCategoriesHandler(c *gin.Context) {
	categories := h.service.Categories()
	utils.JSONList(c, categories, len(categories), "categories retrieved successfully")
}
