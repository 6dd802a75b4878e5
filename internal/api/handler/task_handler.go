package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-tracker/internal/api/metrics"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

// HeaderIdempotencyReplayed is set on a submission answered from an earlier request.
const HeaderIdempotencyReplayed = "Idempotent-Replayed"

// TaskHandler handles HTTP requests for the task lifecycle.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Submit handles POST /api/v1/tasks.
//
// @Summary      Submit a task
// @Description  Creates a pending task. Managers may assign it to another user.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Replays the task created by an earlier request with the same key"
// @Param        body             body      submitTaskRequest  true   "Task draft"
// @Success      201              {object}  taskResponse
// @Success      200              {object}  taskResponse  "Replayed submission"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /api/v1/tasks [post]
func (h *TaskHandler) Submit(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req submitTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	input, err := toSubmitInput(req, c.Request().Header.Get("Idempotency-Key"))
	if err != nil {
		return err
	}

	result, err := h.service.Submit(c.Request().Context(), p, input)
	if err != nil {
		return err
	}

	if result.Replayed {
		metrics.IdempotencyReplaysTotal.Inc()
		c.Response().Header().Set(HeaderIdempotencyReplayed, "true")
		return c.JSON(http.StatusOK, toTaskResponse(result.Task))
	}

	assignment := "self"
	if result.Task.AssigneeID != p.UserID {
		assignment = "delegated"
	}
	metrics.TasksSubmittedTotal.WithLabelValues(assignment).Inc()

	return c.JSON(http.StatusCreated, toTaskResponse(result.Task))
}

// List handles GET /api/v1/tasks.
//
// @Summary      List tasks
// @Description  Employees see their own tasks; managers see every task and may filter by assignee.
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status       query     string  false  "pending, approved or rejected"
// @Param        start_date   query     string  false  "Earliest task date (YYYY-MM-DD)"
// @Param        end_date     query     string  false  "Latest task date (YYYY-MM-DD)"
// @Param        tag          query     string  false  "Exact tag"
// @Param        assignee_id  query     string  false  "Assignee filter (managers only)"
// @Param        page         query     int     false  "Page number, starting at 1"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Success      200          {object}  listTasksResponse
// @Failure      400          {object}  errorResponse
// @Failure      401          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /api/v1/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var q listTasksQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	input, err := toListInput(q)
	if err != nil {
		return err
	}

	result, err := h.service.List(c.Request().Context(), p, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Get handles GET /api/v1/tasks/:id.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  taskResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Update handles PATCH /api/v1/tasks/:id.
//
// @Summary      Edit a pending task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Task ID"
// @Param        body  body      taskChangesRequest  true  "Fields to change"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req taskChangesRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	changes, err := toTaskChanges(req)
	if err != nil {
		return err
	}

	task, err := h.service.Update(c.Request().Context(), p, c.Param("id"), changes)
	if err != nil {
		return err
	}
	metrics.TaskTransitionsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete handles DELETE /api/v1/tasks/:id.
//
// @Summary      Delete a task
// @Description  Managers may delete any task; assignees only while it is pending.
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  string  true  "Task ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	metrics.TaskTransitionsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Approve handles POST /api/v1/tasks/:id/approve.
//
// @Summary      Approve a pending task
// @Tags         review
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  taskResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/v1/tasks/{id}/approve [post]
func (h *TaskHandler) Approve(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	task, err := h.service.Approve(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.TaskTransitionsTotal.WithLabelValues("approve").Inc()
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Reject handles POST /api/v1/tasks/:id/reject.
//
// @Summary      Reject a pending task with feedback
// @Tags         review
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task ID"
// @Param        body  body      rejectTaskRequest  true  "Feedback for the assignee"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/tasks/{id}/reject [post]
func (h *TaskHandler) Reject(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req rejectTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.service.Reject(c.Request().Context(), p, c.Param("id"), req.Feedback)
	if err != nil {
		return err
	}
	metrics.TaskTransitionsTotal.WithLabelValues("reject").Inc()
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Resubmit handles POST /api/v1/tasks/:id/resubmit.
//
// @Summary      Resubmit a rejected task
// @Description  The assignee may change any field before the task returns to pending.
// @Tags         review
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true   "Task ID"
// @Param        body  body      taskChangesRequest  false  "Fields to change"
// @Success      200   {object}  taskResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/v1/tasks/{id}/resubmit [post]
func (h *TaskHandler) Resubmit(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req taskChangesRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	changes, err := toTaskChanges(req)
	if err != nil {
		return err
	}

	task, err := h.service.Resubmit(c.Request().Context(), p, c.Param("id"), changes)
	if err != nil {
		return err
	}
	metrics.TaskTransitionsTotal.WithLabelValues("resubmit").Inc()
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// ToggleCompletion handles POST /api/v1/tasks/:id/completion.
//
// @Summary      Toggle the completion flag of an approved task
// @Tags         review
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  taskResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/tasks/{id}/completion [post]
func (h *TaskHandler) ToggleCompletion(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	task, err := h.service.ToggleCompletion(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.TaskTransitionsTotal.WithLabelValues("toggle_completion").Inc()
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Activity handles GET /api/v1/tasks/:id/activity.
//
// @Summary      Task audit trail
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {array}   activityResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/tasks/{id}/activity [get]
func (h *TaskHandler) Activity(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	entries, err := h.service.Activity(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toActivityResponses(entries))
}
