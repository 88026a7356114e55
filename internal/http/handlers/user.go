package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/nexuslearn-backend/internal/http/response"
	"github.com/yungbote/nexuslearn-backend/internal/services"
)

type UserHandler struct {
	authService services.AuthService
}

func NewUserHandler(authService services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	user, err := uh.authService.CurrentUser(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}
