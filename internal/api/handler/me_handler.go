package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

type meResponse struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsMember  bool   `json:"is_member"`
	IsManager bool   `json:"is_manager"`
	Role      string `json:"role,omitempty"`
}

// Me handles GET /api/v1/me.
//
// @Summary      Current principal
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/me [get]
func Me(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	resp := meResponse{
		UserID:    p.UserID,
		Name:      p.Name,
		Email:     p.Email,
		IsMember:  p.IsMember,
		IsManager: p.IsManager,
	}
	if p.IsMember {
		resp.Role = domain.RoleName(p.IsManager)
	}
	return c.JSON(http.StatusOK, resp)
}
