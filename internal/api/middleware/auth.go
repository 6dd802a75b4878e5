package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/task-tracker/internal/core/domain"
	"github.com/99minutos/task-tracker/internal/core/ports"
)

// PrincipalKey is the echo context key holding the resolved domain.Principal.
const PrincipalKey = "principal"

// Auth validates the bearer JWT, resolves its subject into a principal and
// injects it into the context.
func Auth(jwtSecret string, resolver ports.PrincipalResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.NewError(domain.KindAuthentication, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return domain.NewError(domain.KindAuthentication, "invalid token")
			}

			sub, err := claims.GetSubject()
			if err != nil || sub == "" {
				return domain.NewError(domain.KindAuthentication, "token missing subject")
			}

			p, err := resolver.Resolve(c.Request().Context(), sub)
			if err != nil {
				return err
			}

			c.Set(PrincipalKey, p)
			return next(c)
		}
	}
}
