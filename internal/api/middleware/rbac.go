package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-tracker/internal/core/domain"
)

// RequireManager rejects principals without manager capability. It must run
// after Auth.
func RequireManager() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := c.Get(PrincipalKey).(domain.Principal)
			if !ok || !p.Authenticated() {
				return domain.ErrUnauthenticated
			}
			if err := p.RequireManager(); err != nil {
				return err
			}
			return next(c)
		}
	}
}
