package handler

import (
	"context"
	"net/http"

	"jobboard-service/internal/model"
	"jobboard-service/internal/service"
	"jobboard-service/internal/session"
	"jobboard-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserService is the credential store used by UserHandler
type UserService interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.User, error)
	Authenticate(ctx context.Context, email, password string, role model.Role) (*model.User, error)
}

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

type UserHandler struct {
	users    UserService
	sessions *session.Issuer
}

func NewUserHandler(users UserService, sessions *session.Issuer) *UserHandler {
	return &UserHandler{users: users, sessions: sessions}
}

// Register creates an account and starts a session for it
func (h *UserHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.users.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return h.respondWithSession(c, http.StatusCreated, user, "User Registered Successfully!")
}

// Login authenticates the user and starts a session
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.users.Authenticate(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return h.respondWithSession(c, http.StatusOK, user, "User Logged In Successfully!")
}

func (h *UserHandler) respondWithSession(c echo.Context, status int, user *model.User, message string) error {
	token, err := h.sessions.Issue(c, user)
	if err != nil {
		logger.FromEcho(c).Error("Failed to issue session token", zap.Uint("user_id", user.ID), zap.Error(err))
		return err
	}

	return c.JSON(status, echo.Map{
		"success": true,
		"message": message,
		"user":    user,
		"token":   token,
	})
}

// Logout clears the session cookie
func (h *UserHandler) Logout(c echo.Context) error {
	h.sessions.Revoke(c)
	logger.FromEcho(c).Info("User logged out")

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logged Out Successfully!",
	})
}

// GetUser returns the authenticated user
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    user,
	})
}
