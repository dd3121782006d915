package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"jobboard-service/internal/apperror"
	"jobboard-service/internal/middleware"
	"jobboard-service/internal/model"
	"jobboard-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorHandler renders every error as {"success": false, "message": ...}
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	log := logger.FromEcho(c)
	status := http.StatusInternalServerError
	message := "Internal Server Error"

	var httpErr *echo.HTTPError
	if appErr, ok := apperror.As(err); ok {
		status = appErr.Status()
		message = appErr.Message
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", zap.String("kind", string(appErr.Kind)), zap.Error(err))
		} else {
			log.Debug("Request rejected", zap.String("kind", string(appErr.Kind)), zap.String("message", appErr.Message))
		}
	} else if errors.As(err, &httpErr) {
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(status)
		}
		if httpErr.Internal != nil {
			log.Debug("HTTP error", zap.Int("status", status), zap.Error(httpErr.Internal))
		}
	} else {
		log.Error("Unhandled error", zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, echo.Map{
			"success": false,
			"message": message,
		})
	}
	if err != nil {
		log.Error("Failed to write error response", zap.Error(err))
	}
}

// currentUser returns the authenticated user or an Unauthenticated error
func currentUser(c echo.Context) (*model.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, apperror.Unauthenticated("User Not Authorized")
	}
	return user, nil
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation(fmt.Sprintf("Invalid ID: %q", c.Param("id")))
	}
	return uint(id), nil
}

func bindJSON(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		logger.FromEcho(c).Warn("Invalid request data", zap.Error(err))
		return apperror.Validation("Invalid request data")
	}
	return nil
}
