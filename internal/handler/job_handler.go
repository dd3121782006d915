package handler

import (
	"context"
	"net/http"

	"jobboard-service/internal/model"
	"jobboard-service/internal/service"

	"github.com/labstack/echo/v4"
)

// JobService is the job registry used by JobHandler
type JobService interface {
	Create(ctx context.Context, actor *model.User, in service.JobInput) (*model.Job, error)
	List(ctx context.Context) ([]model.Job, error)
	ListByEmployer(ctx context.Context, actor *model.User) ([]model.Job, error)
	Get(ctx context.Context, id uint) (*model.Job, error)
	Update(ctx context.Context, id uint, actor *model.User, patch service.JobPatch) (*model.Job, error)
	Delete(ctx context.Context, id uint, actor *model.User) error
}

type JobHandler struct {
	jobs JobService
}

func NewJobHandler(jobs JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// PostJob creates a job owned by the current employer
func (h *JobHandler) PostJob(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req service.JobInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.Create(c.Request().Context(), user, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Job Posted Successfully!",
		"job":     job,
	})
}

// GetAllJobs lists the jobs that are still open
func (h *JobHandler) GetAllJobs(c echo.Context) error {
	jobs, err := h.jobs.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"jobs":    jobs,
	})
}

// GetMyJobs lists the jobs posted by the current employer
func (h *JobHandler) GetMyJobs(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	jobs, err := h.jobs.ListByEmployer(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"myJobs":  jobs,
	})
}

func (h *JobHandler) GetJob(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	job, err := h.jobs.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"job":     job,
	})
}

// UpdateJob applies a partial update to a job owned by the current employer
func (h *JobHandler) UpdateJob(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var patch service.JobPatch
	if err := bindJSON(c, &patch); err != nil {
		return err
	}

	job, err := h.jobs.Update(c.Request().Context(), id, user, patch)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Job Updated!",
		"job":     job,
	})
}

func (h *JobHandler) DeleteJob(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.jobs.Delete(c.Request().Context(), id, user); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Job Deleted!",
	})
}
