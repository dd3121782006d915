package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"jobboard-service/internal/model"
	"jobboard-service/internal/service"
	"jobboard-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ApplicationService is the application registry used by ApplicationHandler
type ApplicationService interface {
	Submit(ctx context.Context, actor *model.User, in service.SubmitInput) (*model.Application, error)
	ListForEmployer(ctx context.Context, actor *model.User) ([]model.Application, error)
	ListForApplicant(ctx context.Context, actor *model.User) ([]model.Application, error)
	Delete(ctx context.Context, id uint, actor *model.User) error
}

type ApplicationHandler struct {
	applications ApplicationService
}

func NewApplicationHandler(applications ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// PostApplication reads the multipart application form and submits it
func (h *ApplicationHandler) PostApplication(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	// A missing or unreadable file is reported by the service as a missing resume
	resume, err := c.FormFile("resume")
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			// body limit tripped while parsing the form
			return err
		}
		logger.FromEcho(c).Debug("No resume in request", zap.Error(err))
	}

	// An unparsable job id resolves to no job
	jobID, _ := strconv.ParseUint(strings.TrimSpace(c.FormValue("jobId")), 10, 64)

	in := service.SubmitInput{
		Name:        c.FormValue("name"),
		Email:       c.FormValue("email"),
		Phone:       c.FormValue("phone"),
		Address:     c.FormValue("address"),
		CoverLetter: c.FormValue("coverLetter"),
		JobID:       uint(jobID),
		Resume:      resume,
	}

	application, err := h.applications.Submit(c.Request().Context(), user, in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "Application Submitted!",
		"application": application,
	})
}

// EmployerGetAllApplications lists applications to the current employer's jobs
func (h *ApplicationHandler) EmployerGetAllApplications(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	applications, err := h.applications.ListForEmployer(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"applications": applications,
	})
}

// JobSeekerGetAllApplications lists the current job seeker's applications
func (h *ApplicationHandler) JobSeekerGetAllApplications(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	applications, err := h.applications.ListForApplicant(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"applications": applications,
	})
}

func (h *ApplicationHandler) DeleteApplication(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.applications.Delete(c.Request().Context(), id, user); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Application Deleted!",
	})
}
