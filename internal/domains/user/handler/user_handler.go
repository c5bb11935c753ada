package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/user/service"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	details, err := h.service.GetUserDetails(c.Request.Context(), actor.ID())
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, details)
}
