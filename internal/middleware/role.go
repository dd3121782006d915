package middleware

import (
	"jobboard-service/internal/apperror"
	"jobboard-service/internal/model"
	"jobboard-service/pkg/logger"
	"jobboard-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequireRole only lets users with one of roles through. It must run after AuthMiddleware.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return apperror.Unauthenticated("User Not Authorized")
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}

			logger.FromEcho(c).Warn("Role not allowed",
				zap.String("role", string(user.Role)),
				zap.String("path", c.Path()))
			prometheus.RecordAuthError("forbidden_role")
			return apperror.RoleNotAllowed(string(user.Role))
		}
	}
}
