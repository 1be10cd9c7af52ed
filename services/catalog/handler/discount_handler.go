package handler

import (
	"net/http"

	"antique-catalog/internal/models"
	"antique-catalog/services/catalog/helpers"
	"antique-catalog/utils"

	"github.com/gin-gonic/gin"
)

// ListOfferDiscountsHandler handles GET /offers-discounts
func (h *CatalogHandler) ListOfferDiscountsHandler(c *gin.Context) {
	discounts := h.service.OfferDiscounts()
	utils.JSONList(c, discounts, len(discounts), "offer discounts retrieved successfully")
}

// CreateOfferDiscountHandler handles POST /offers-discounts
func (h *CatalogHandler) CreateOfferDiscountHandler(c *gin.Context) {
	var req helpers.OfferDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateOfferDiscountHandler", err)
		return
	}

	d, err := h.service.AddOfferDiscount(c.Request.Context(), req.OfferDiscountFields())
	if err != nil {
		helpers.HandleServiceError(c, "CreateOfferDiscountHandler", err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, d, "offer discount created successfully")
	helpers.LogSuccess("CreateOfferDiscountHandler", "offer discount created successfully", map[string]any{"offer_discount_id": d.ID})
}

// UpdateOfferDiscountHandler handles PUT /offers-discounts/:id
func (h *CatalogHandler) UpdateOfferDiscountHandler(c *gin.Context) {
	id := c.Param("id")
	var req helpers.OfferDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateOfferDiscountHandler", err)
		return
	}

	err := h.service.UpdateOfferDiscount(c.Request.Context(), models.OfferDiscount{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		helpers.HandleServiceError(c, "UpdateOfferDiscountHandler", err, map[string]any{"offer_discount_id": id})
		return
	}

	d, err := h.service.OfferDiscountByID(id)
	if err != nil {
		helpers.HandleServiceError(c, "UpdateOfferDiscountHandler", err, map[string]any{"offer_discount_id": id})
		return
	}
	utils.JSONResponse(c, http.StatusOK, d, "offer discount updated successfully")
}

// DeleteOfferDiscountHandler handles DELETE /offers-discounts/:id
func (h *CatalogHandler) DeleteOfferDiscountHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.DeleteOfferDiscount(c.Request.Context(), id); err != nil {
		helpers.HandleServiceError(c, "DeleteOfferDiscountHandler", err, map[string]any{"offer_discount_id": id})
		return
	}
	c.Status(http.StatusNoContent)
}
