package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rmedina/erp-admin-api/internal/middleware"
	"github.com/rmedina/erp-admin-api/internal/models"
	"github.com/rmedina/erp-admin-api/internal/services"
)

type AuditHandler struct {
	auditService   *services.AuditService
	profileService *services.ProfileService
}

func NewAuditHandler(auditService *services.AuditService, profileService *services.ProfileService) *AuditHandler {
	return &AuditHandler{auditService: auditService, profileService: profileService}
}

// @Summary List Audit Entries
// @Description Paginated audit trail, newest first
// @Tags Audit
// @Produce json
// @Param limit query int false "Entries per page" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	// The router gate checks the token claim; this checks the persisted profile
	actorID := middleware.GetAccountID(c)
	allowed, err := h.profileService.HasAnyRole(c.Request.Context(), actorID, models.RoleAdmin, models.RoleAudit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	logs, total, err := h.auditService.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audits": logs,
		"total":  total,
	})
}
