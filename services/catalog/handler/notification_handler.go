package handler

import (
	"net/http"

	"antique-catalog/internal/notify"
	"antique-catalog/services/catalog/helpers"
	"antique-catalog/utils"

	"github.com/gin-gonic/gin"
)

// ListNotificationsHandler handles GET /notifications?audience=admin|end-user
func (h *CatalogHandler) ListNotificationsHandler(c *gin.Context) {
	audience := notify.Audience(c.DefaultQuery("audience", string(notify.AudienceAdmin)))
	list, err := h.inbox.List(audience)
	if err != nil {
		helpers.HandleServiceError(c, "ListNotificationsHandler", err, map[string]any{"audience": audience})
		return
	}
	utils.JSONList(c, list, len(list), "notifications retrieved successfully")
}

// MarkNotificationReadHandler handles POST /notifications/:id/read
func (h *CatalogHandler) MarkNotificationReadHandler(c *gin.Context) {
	id := c.Param("id")
	n, err := h.inbox.MarkRead(id)
	if err != nil {
		helpers.HandleServiceError(c, "MarkNotificationReadHandler", err, map[string]any{"notification_id": id})
		return
	}
	utils.JSONResponse(c, http.StatusOK, n, "notification marked as read")
}
