package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rmedina/erp-admin-api/internal/models"
	"github.com/rmedina/erp-admin-api/internal/repository"
	"github.com/rmedina/erp-admin-api/internal/services"
)

type RoleHandler struct {
	roleService *services.RoleService
}

func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// @Summary List Roles
// @Description Read-only listing of the active role catalog
// @Tags Roles
// @Produce json
// @Success 200 {array} models.RoleResponse
// @Security BearerAuth
// @Router /roles [get]
func (h *RoleHandler) Index(c *gin.Context) {
	roles, err := h.roleService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]models.RoleResponse, 0, len(roles))
	for _, r := range roles {
		responses = append(responses, r.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"roles": responses})
}

// @Summary Delete Role
// @Description Removes a role. Refused while any profile still references it.
// @Tags Roles
// @Produce json
// @Param role_id path int true "Role ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /roles/{role_id} [delete]
func (h *RoleHandler) Destroy(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("role_id"), 10, 32)

	if err := h.roleService.Delete(c.Request.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "role not found"})
		case errors.Is(err, repository.ErrRoleInUse):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role deleted"})
}
