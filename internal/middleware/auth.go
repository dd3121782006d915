package middleware

import (
	"context"

	"jobboard-service/internal/apperror"
	"jobboard-service/internal/model"
	"jobboard-service/internal/session"
	"jobboard-service/pkg/logger"
	"jobboard-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const userKey = "user"

// UserResolver loads the user a session token was issued to
type UserResolver interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
}

// AuthMiddleware resolves the session token into the current user
func AuthMiddleware(sessions *session.Issuer, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			token := sessions.Token(c)
			if token == "" {
				log.Warn("Missing session token")
				prometheus.RecordAuthError("missing_token")
				return apperror.Unauthenticated("User Not Authorized")
			}

			claims, err := sessions.Validate(token)
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return apperror.Unauthenticated("User Not Authorized")
			}

			user, err := users.GetByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if apperror.IsKind(err, apperror.KindNotFound) {
					log.Warn("Token issued to unknown user", zap.Uint("user_id", claims.UserID))
					prometheus.RecordAuthError("user_not_found")
					return apperror.Unauthenticated("User Not Authorized")
				}
				return err
			}

			c.Set(userKey, user)
			logger.SetEcho(c, log.With(
				zap.Uint("user_id", user.ID),
				zap.String("role", string(user.Role)),
			))

			return next(c)
		}
	}
}

// CurrentUser returns the user resolved by AuthMiddleware
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userKey).(*model.User)
	return user, ok && user != nil
}
