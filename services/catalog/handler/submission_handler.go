package handler

import (
	"net/http"

	"antique-catalog/internal/models"
	"antique-catalog/services/catalog/helpers"
	"antique-catalog/utils"

	"github.com/gin-gonic/gin"
)

// ListSubmissionsHandler handles GET /submissions
func (h *CatalogHandler) ListSubmissionsHandler(c *gin.Context) {
	subs := h.service.Submissions()
	utils.JSONList(c, subs, len(subs), "submissions retrieved successfully")
	helpers.LogSuccess("ListSubmissionsHandler", "submissions retrieved successfully", map[string]any{"count": len(subs)})
}

// GetSubmissionHandler handles GET /submissions/:id
func (h *CatalogHandler) GetSubmissionHandler(c *gin.Context) {
	id := c.Param("id")
	sub, err := h.service.SubmissionByID(id)
	if err != nil {
		helpers.HandleServiceError(c, "GetSubmissionHandler", err, map[string]any{"submission_id": id})
		return
	}
	utils.JSONResponse(c, http.StatusOK, sub, "submission retrieved successfully")
}

// CreateSubmissionHandler handles POST /submissions
func (h *CatalogHandler) CreateSubmissionHandler(c *gin.Context) {
	var req helpers.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateSubmissionHandler", err)
		return
	}

	sub, err := h.service.AddSubmission(c.Request.Context(), req.SubmissionFields())
	if err != nil {
		helpers.HandleServiceError(c, "CreateSubmissionHandler", err, map[string]any{"title": req.Title})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, sub, "submission received successfully")
	helpers.LogSuccess("CreateSubmissionHandler", "submission received successfully", map[string]any{
		"submission_id": sub.ID,
		"images":        len(sub.Images),
	})
}

// UpdateSubmissionHandler handles PUT /submissions/:id. Changing the status
// is how a submission is approved or rejected.
func (h *CatalogHandler) UpdateSubmissionHandler(c *gin.Context) {
	id := c.Param("id")
	var req helpers.UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateSubmissionHandler", err)
		return
	}

	fields := req.SubmissionFields()
	err := h.service.UpdateSubmission(c.Request.Context(), models.AntiqueSubmission{
		ID:          id,
		Title:       fields.Title,
		Description: fields.Description,
		Price:       fields.Price,
		Category:    fields.Category,
		Images:      fields.Images,
		Phone:       fields.Phone,
		Address:     fields.Address,
		Subject:     fields.Subject,
		Status:      req.Status,
		UserID:      fields.UserID,
	})
	if err != nil {
		helpers.HandleServiceError(c, "UpdateSubmissionHandler", err, map[string]any{
			"submission_id": id,
			"status":        req.Status,
		})
		return
	}

	sub, err := h.service.SubmissionByID(id)
	if err != nil {
		helpers.HandleServiceError(c, "UpdateSubmissionHandler", err, map[string]any{"submission_id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, sub, "submission updated successfully")
	helpers.LogSuccess("UpdateSubmissionHandler", "submission updated successfully", map[string]any{
		"submission_id": id,
		"status":        sub.Status,
	})
}

// DeleteSubmissionHandler handles DELETE /submissions/:id
func (h *CatalogHandler) DeleteSubmissionHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.DeleteSubmission(c.Request.Context(), id); err != nil {
		helpers.HandleServiceError(c, "DeleteSubmissionHandler", err, map[string]any{"submission_id": id})
		return
	}
	c.Status(http.StatusNoContent)
}

// PromoteSubmissionHandler handles POST /submissions/:id/promote
func (h *CatalogHandler) PromoteSubmissionHandler(c *gin.Context) {
	id := c.Param("id")
	product, err := h.service.PromoteSubmission(c.Request.Context(), id)
	if err != nil {
		helpers.HandleServiceError(c, "PromoteSubmissionHandler", err, map[string]any{"submission_id": id})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, product, "submission added to the shop")
	helpers.LogSuccess("PromoteSubmissionHandler", "submission added to the shop", map[string]any{
		"submission_id": id,
		"product_id":    product.ID,
	})
}
