package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
		wantKind string
	}{
		{"authentication", domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required", "authentication"},
		{"authorization", domain.ErrManagerRequired, http.StatusForbidden, "manager capability required", "authorization"},
		{"validation", domain.Validation("title is required"), http.StatusUnprocessableEntity, "title is required", "validation"},
		{"not found", domain.ErrTaskNotFound, http.StatusNotFound, "task not found", "not_found"},
		{"conflict", domain.ErrMemberExists, http.StatusConflict, "user is already a team member", "conflict"},
		{
			"wrapped conflict",
			fmt.Errorf("%w: cannot move approved to rejected", domain.ErrInvalidTransition),
			http.StatusConflict,
			"invalid status transition: cannot move approved to rejected",
			"conflict",
		},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload", ""},
		{"unknown error", errors.New("connection reset"), http.StatusInternalServerError, "internal server error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, body.Error)
			}
			if body.Kind != tt.wantKind {
				t.Errorf("expected kind %q, got %q", tt.wantKind, body.Kind)
			}
		})
	}
}
