package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-tracker/internal/api/middleware"
	"github.com/99minutos/task-tracker/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware.
// Its absence means the route was mounted without authentication.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := c.Get(middleware.PrincipalKey).(domain.Principal)
	if !ok || !p.Authenticated() {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

// bind decodes the request into req and runs the registered validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidPayload
	}
	return c.Validate(req)
}
