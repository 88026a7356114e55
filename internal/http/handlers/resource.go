package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/nexuslearn-backend/internal/http/response"
	"github.com/yungbote/nexuslearn-backend/internal/services"
)

// AdminResourceHandler serves /api/admin/resources.
type AdminResourceHandler struct {
	resourceService services.ResourceService
}

func NewAdminResourceHandler(resourceService services.ResourceService) *AdminResourceHandler {
	return &AdminResourceHandler{resourceService: resourceService}
}

func (h *AdminResourceHandler) List(c *gin.Context) {
	var in services.ResourceListInput
	if err := c.ShouldBindQuery(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	page, err := h.resourceService.List(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, page)
}

func (h *AdminResourceHandler) Create(c *gin.Context) {
	var in services.ResourceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	r, err := h.resourceService.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"resource": r})
}

func (h *AdminResourceHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in services.ResourceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	r, err := h.resourceService.Update(c.Request.Context(), id, in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"resource": r})
}

// Delete soft-deletes unless ?hard=true.
func (h *AdminResourceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	hard, _ := strconv.ParseBool(c.Query("hard"))
	if err := h.resourceService.Delete(c.Request.Context(), id, hard); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true, "hard": hard})
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
