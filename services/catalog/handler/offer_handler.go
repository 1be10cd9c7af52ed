package handler

import (
	"net/http"

	"antique-catalog/internal/models"
	"antique-catalog/services/catalog/helpers"
	"antique-catalog/utils"

	"github.com/gin-gonic/gin"
)

// ListOffersHandler handles GET /offers
func (h *CatalogHandler) ListOffersHandler(c *gin.Context) {
	offers := h.service.Offers()
	utils.JSONList(c, offers, len(offers), "offers retrieved successfully")
}

// GetOfferHandler handles GET /offers/:id
func (h *CatalogHandler) GetOfferHandler(c *gin.Context) {
	id := c.Param("id")
	offer, err := h.service.OfferByID(id)
	if err != nil {
		helpers.HandleServiceError(c, "GetOfferHandler", err, map[string]any{"offer_id": id})
		return
	}
	utils.JSONResponse(c, http.StatusOK, offer, "offer retrieved successfully")
}

// CreateOfferHandler handles POST /offers
func (h *CatalogHandler) CreateOfferHandler(c *gin.Context) {
	var req helpers.OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateOfferHandler", err)
		return
	}

	offer, err := h.service.AddOffer(c.Request.Context(), req.OfferFields())
	if err != nil {
		helpers.HandleServiceError(c, "CreateOfferHandler", err, map[string]any{"product_id": req.ProductID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, offer, "offer submitted successfully")
	helpers.LogSuccess("CreateOfferHandler", "offer submitted successfully", map[string]any{
		"offer_id":   offer.ID,
		"product_id": offer.ProductID,
		"amount":     offer.Amount.String(),
	})
}

// UpdateOfferHandler handles PUT /offers/:id
func (h *CatalogHandler) UpdateOfferHandler(c *gin.Context) {
	id := c.Param("id")
	var req helpers.UpdateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateOfferHandler", err)
		return
	}

	fields := req.OfferFields()
	err := h.service.UpdateOffer(c.Request.Context(), models.Offer{
		ID:            id,
		ProductID:     fields.ProductID,
		Amount:        fields.Amount,
		Message:       fields.Message,
		Name:          fields.Name,
		ContactNumber: fields.ContactNumber,
		Status:        req.Status,
		UserID:        fields.UserID,
	})
	if err != nil {
		helpers.HandleServiceError(c, "UpdateOfferHandler", err, map[string]any{"offer_id": id, "status": req.Status})
		return
	}

	offer, err := h.service.OfferByID(id)
	if err != nil {
		helpers.HandleServiceError(c, "UpdateOfferHandler", err, map[string]any{"offer_id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, offer, "offer updated successfully")
	helpers.LogSuccess("UpdateOfferHandler", "offer updated successfully", map[string]any{
		"offer_id": id,
		"status":   offer.Status,
	})
}

// DeleteOfferHandler handles DELETE /offers/:id
func (h *CatalogHandler) DeleteOfferHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.DeleteOffer(c.Request.Context(), id); err != nil {
		helpers.HandleServiceError(c, "DeleteOfferHandler", err, map[string]any{"offer_id": id})
		return
	}
	c.Status(http.StatusNoContent)
}
