package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-tracker/internal/api/metrics"
	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

// MemberHandler handles team roster management.
type MemberHandler struct {
	service ports.RosterService
}

func NewMemberHandler(service ports.RosterService) *MemberHandler {
	return &MemberHandler{service: service}
}

type addMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"required,oneof=manager employee"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=manager employee"`
}

type memberResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsManager bool      `json:"is_manager"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toMemberResponse(m *domain.MemberDetail) memberResponse {
	return memberResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Email:     m.Email,
		Role:      m.Role(),
		IsManager: m.IsManager,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

// List handles GET /api/v1/members.
//
// @Summary      List team members
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   memberResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/members [get]
func (h *MemberHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	members, err := h.service.ListMembers(c.Request().Context(), p)
	if err != nil {
		return err
	}

	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	return c.JSON(http.StatusOK, out)
}

// Add handles POST /api/v1/members.
//
// @Summary      Add an existing user to the team
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addMemberRequest  true  "User email and role"
// @Success      201   {object}  memberResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/members [post]
func (h *MemberHandler) Add(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req addMemberRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	m, err := h.service.AddMember(c.Request().Context(), p, req.Email, req.Role)
	if err != nil {
		return err
	}
	metrics.RosterChangesTotal.WithLabelValues("add").Inc()
	return c.JSON(http.StatusCreated, toMemberResponse(m))
}

// UpdateRole handles PATCH /api/v1/members/:user_id.
//
// @Summary      Change a member's role
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string             true  "User ID"
// @Param        body     body      updateRoleRequest  true  "New role"
// @Success      200      {object}  memberResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      409      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /api/v1/members/{user_id} [patch]
func (h *MemberHandler) UpdateRole(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	m, err := h.service.UpdateRole(c.Request().Context(), p, c.Param("user_id"), req.Role)
	if err != nil {
		return err
	}
	metrics.RosterChangesTotal.WithLabelValues("update_role").Inc()
	return c.JSON(http.StatusOK, toMemberResponse(m))
}

// Remove handles DELETE /api/v1/members/:user_id.
//
// @Summary      Remove a member from the team
// @Description  The user account is kept.
// @Tags         members
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Success      204
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      409      {object}  errorResponse
// @Router       /api/v1/members/{user_id} [delete]
func (h *MemberHandler) Remove(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.service.RemoveMember(c.Request().Context(), p, c.Param("user_id")); err != nil {
		return err
	}
	metrics.RosterChangesTotal.WithLabelValues("remove").Inc()
	return c.NoContent(http.StatusNoContent)
}
