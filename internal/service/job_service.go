package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobboard-service/internal/apperror"
	"jobboard-service/internal/model"
	"jobboard-service/pkg/logger"
	"jobboard-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JobInput carries the fields of a new job posting
type JobInput struct {
	Title       string  `json:"title" validate:"required,min=3,max=30"`
	Description string  `json:"description" validate:"required,min=30,max=500"`
	Category    string  `json:"category" validate:"required"`
	Country     string  `json:"country" validate:"required"`
	City        string  `json:"city" validate:"required"`
	Location    string  `json:"location" validate:"required,min=4"`
	FixedSalary *uint64 `json:"fixedSalary"`
	SalaryFrom  *uint64 `json:"salaryFrom"`
	SalaryTo    *uint64 `json:"salaryTo"`
}

func (in *JobInput) trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Country = strings.TrimSpace(in.Country)
	in.City = strings.TrimSpace(in.City)
	in.Location = strings.TrimSpace(in.Location)
}

func (in *JobInput) validate() error {
	in.trim()
	if err := validateInput(in); err != nil {
		return err
	}
	return validateSalary(in.FixedSalary, in.SalaryFrom, in.SalaryTo)
}

// JobPatch holds the fields an owner may change; nil means unchanged
type JobPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Country     *string `json:"country"`
	City        *string `json:"city"`
	Location    *string `json:"location"`
	FixedSalary *uint64 `json:"fixedSalary"`
	SalaryFrom  *uint64 `json:"salaryFrom"`
	SalaryTo    *uint64 `json:"salaryTo"`
	Expired     *bool   `json:"expired"`
}

func validateSalary(fixed, from, to *uint64) error {
	hasRange := from != nil || to != nil
	switch {
	case fixed == nil && !hasRange:
		return apperror.Validation("Please either provide fixed salary or ranged salary.")
	case fixed != nil && hasRange:
		return apperror.Validation("Cannot Enter Fixed and Ranged Salary together.")
	case fixed == nil && (from == nil || to == nil):
		return apperror.Validation("Please provide both salaryFrom and salaryTo.")
	case fixed == nil && *from > *to:
		return apperror.Validation("salaryFrom cannot exceed salaryTo")
	}
	return nil
}

// JobService is the job registry
type JobService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{db: db, now: time.Now}
}

// Create posts a new job owned by actor
func (s *JobService) Create(ctx context.Context, actor *model.User, in JobInput) (*model.Job, error) {
	log := logger.FromContext(ctx)
	prometheus.RecordJobOperation("create")

	if actor.Role != model.RoleEmployer {
		return nil, apperror.RoleNotAllowed(string(actor.Role))
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	job := &model.Job{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Country:     in.Country,
		City:        in.City,
		Location:    in.Location,
		FixedSalary: in.FixedSalary,
		SalaryFrom:  in.SalaryFrom,
		SalaryTo:    in.SalaryTo,
		Expired:     false,
		JobPostedOn: s.now().UTC(),
		PostedBy:    actor.ID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, apperror.Persistence(err)
	}

	log.Info("Job posted", zap.Uint("job_id", job.ID), zap.Uint("posted_by", job.PostedBy))
	return job, nil
}

// List returns every job that has not expired, newest first
func (s *JobService) List(ctx context.Context) ([]model.Job, error) {
	prometheus.RecordJobOperation("list")
	defer prometheus.TrackDBOperation("query")(time.Now())

	jobs := []model.Job{}
	err := s.db.WithContext(ctx).
		Where("expired = ?", false).
		Order("job_posted_on DESC, id DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return jobs, nil
}

// ListByEmployer returns the jobs posted by actor, expired ones included
func (s *JobService) ListByEmployer(ctx context.Context, actor *model.User) ([]model.Job, error) {
	prometheus.RecordJobOperation("list_mine")

	if actor.Role != model.RoleEmployer {
		return nil, apperror.RoleNotAllowed(string(actor.Role))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	jobs := []model.Job{}
	err := s.db.WithContext(ctx).
		Where("posted_by = ?", actor.ID).
		Order("job_posted_on DESC, id DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return jobs, nil
}

// Get returns a single job
func (s *JobService) Get(ctx context.Context, id uint) (*model.Job, error) {
	prometheus.RecordJobOperation("get")
	return s.find(ctx, id)
}

func (s *JobService) find(ctx context.Context, id uint) (*model.Job, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var job model.Job
	if err := s.db.WithContext(ctx).First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Job not found!")
		}
		return nil, apperror.Persistence(err)
	}
	return &job, nil
}

// findOwned loads a job and checks that actor is the employer who posted it
func (s *JobService) findOwned(ctx context.Context, id uint, actor *model.User) (*model.Job, error) {
	if actor.Role != model.RoleEmployer {
		return nil, apperror.RoleNotAllowed(string(actor.Role))
	}

	job, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.PostedBy != actor.ID {
		logger.FromContext(ctx).Warn("Job ownership check failed",
			zap.Uint("job_id", job.ID),
			zap.Uint("posted_by", job.PostedBy),
			zap.Uint("actor_id", actor.ID))
		return nil, apperror.Forbidden("You are not allowed to modify this job.")
	}
	return job, nil
}

// Update applies patch to a job owned by actor
func (s *JobService) Update(ctx context.Context, id uint, actor *model.User, patch JobPatch) (*model.Job, error) {
	log := logger.FromContext(ctx)
	prometheus.RecordJobOperation("update")

	job, err := s.findOwned(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if err := applyPatch(job, patch); err != nil {
		return nil, err
	}

	merged := JobInput{
		Title:       job.Title,
		Description: job.Description,
		Category:    job.Category,
		Country:     job.Country,
		City:        job.City,
		Location:    job.Location,
		FixedSalary: job.FixedSalary,
		SalaryFrom:  job.SalaryFrom,
		SalaryTo:    job.SalaryTo,
	}
	if err := merged.validate(); err != nil {
		return nil, err
	}
	job.Title = merged.Title
	job.Description = merged.Description
	job.Category = merged.Category
	job.Country = merged.Country
	job.City = merged.City
	job.Location = merged.Location

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := s.db.WithContext(ctx).Save(job).Error; err != nil {
		return nil, apperror.Persistence(err)
	}

	log.Info("Job updated", zap.Uint("job_id", job.ID), zap.Bool("expired", job.Expired))
	return job, nil
}

func applyPatch(job *model.Job, patch JobPatch) error {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&job.Title, patch.Title)
	setString(&job.Description, patch.Description)
	setString(&job.Category, patch.Category)
	setString(&job.Country, patch.Country)
	setString(&job.City, patch.City)
	setString(&job.Location, patch.Location)

	fixedGiven := patch.FixedSalary != nil
	rangeGiven := patch.SalaryFrom != nil || patch.SalaryTo != nil
	switch {
	case fixedGiven && rangeGiven:
		return apperror.Validation("Cannot Enter Fixed and Ranged Salary together.")
	case fixedGiven:
		job.FixedSalary = patch.FixedSalary
		job.SalaryFrom = nil
		job.SalaryTo = nil
	case rangeGiven:
		job.FixedSalary = nil
		if patch.SalaryFrom != nil {
			job.SalaryFrom = patch.SalaryFrom
		}
		if patch.SalaryTo != nil {
			job.SalaryTo = patch.SalaryTo
		}
	}

	if patch.Expired != nil {
		job.Expired = *patch.Expired
	}
	return nil
}

// Delete removes a job owned by actor. Applications to it are left in place.
func (s *JobService) Delete(ctx context.Context, id uint, actor *model.User) error {
	log := logger.FromContext(ctx)
	prometheus.RecordJobOperation("delete")

	job, err := s.findOwned(ctx, id, actor)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := s.db.WithContext(ctx).Delete(&model.Job{}, job.ID).Error; err != nil {
		return apperror.Persistence(err)
	}

	log.Info("Job deleted", zap.Uint("job_id", job.ID))
	return nil
}
