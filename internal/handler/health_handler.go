package handler

import (
	"context"
	"net/http"
	"time"

	"jobboard-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dbPingTimeout = 2 * time.Second

type healthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	DBStatus string `json:"db_status,omitempty"`
	DBError  string `json:"db_error,omitempty"`
}

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck reports liveness; with ?check=db it also pings the database
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	resp := healthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}

	if c.QueryParam("check") != "db" {
		return c.JSON(http.StatusOK, resp)
	}

	if err := h.pingDB(c.Request().Context()); err != nil {
		logger.FromEcho(c).Error("Database health check failed", zap.Error(err))
		resp.Status = "error"
		resp.DBStatus = "error"
		resp.DBError = "Failed to reach database"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}

	resp.DBStatus = "ok"
	return c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Hello returns a simple welcome message
func Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Job Board API is running",
		"version": "1.0.0",
	})
}
