package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"strings"
	"time"

	"jobboard-service/internal/apperror"
	"jobboard-service/internal/model"
	"jobboard-service/pkg/logger"
	"jobboard-service/pkg/storage"
	"jobboard-service/prometheus"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxResumeSize is the largest resume accepted, in bytes
const MaxResumeSize = 5 << 20

// ErrResumeTooLarge is returned for resumes over MaxResumeSize
var ErrResumeTooLarge = apperror.Validation("Resume file must be 5MB or smaller.")

var allowedResumeTypes = []string{
	"image/png",
	"image/jpeg",
	"image/webp",
	"application/pdf",
}

// SubmitInput carries an application form and its resume
type SubmitInput struct {
	Name        string                `json:"name" validate:"required,min=3,max=30"`
	Email       string                `json:"email" validate:"required,email"`
	Phone       string                `json:"phone" validate:"required,max=20"`
	Address     string                `json:"address" validate:"required"`
	CoverLetter string                `json:"coverLetter" validate:"required"`
	JobID       uint                  `json:"jobId"`
	Resume      *multipart.FileHeader `json:"-" validate:"-"`
}

// ApplicationService is the application registry
type ApplicationService struct {
	db      *gorm.DB
	store   storage.Service
	folder  string
	tempDir string
	now     func() time.Time
}

func NewApplicationService(db *gorm.DB, store storage.Service, folder, tempDir string) *ApplicationService {
	return &ApplicationService{
		db:      db,
		store:   store,
		folder:  folder,
		tempDir: tempDir,
		now:     time.Now,
	}
}

// Submit uploads the resume and records an application from actor to in.JobID
func (s *ApplicationService) Submit(ctx context.Context, actor *model.User, in SubmitInput) (*model.Application, error) {
	log := logger.FromContext(ctx)
	prometheus.RecordApplicationOperation("submit")

	if actor.Role == model.RoleEmployer {
		return nil, apperror.RoleNotAllowed(string(actor.Role))
	}

	if in.Resume == nil {
		return nil, apperror.Validation("Resume File Required!")
	}
	if in.Resume.Size > MaxResumeSize {
		return nil, ErrResumeTooLarge
	}

	blob, err := s.spool(in.Resume)
	if blob.Path != "" {
		defer func() {
			if rmErr := os.Remove(blob.Path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				log.Warn("Failed to remove temp resume", zap.String("path", blob.Path), zap.Error(rmErr))
			}
		}()
	}
	if err != nil {
		return nil, err
	}

	obj, err := s.store.Store(ctx, blob)
	if err != nil {
		log.Error("Resume upload failed", zap.String("filename", blob.Filename), zap.Error(err))
		return nil, apperror.Wrap(apperror.KindUpload, "Failed to upload Resume to storage.", err)
	}

	app, err := s.create(ctx, actor, in, obj)
	if err != nil {
		s.discardResume(ctx, obj.Key)
		return nil, err
	}

	log.Info("Application submitted",
		zap.Uint("application_id", app.ID),
		zap.Uint("job_id", app.JobID),
		zap.Uint("applicant_id", app.ApplicantID.User))
	return app, nil
}

// spool checks the resume's content and copies it to a local temp file
func (s *ApplicationService) spool(fh *multipart.FileHeader) (storage.Blob, error) {
	blob := storage.Blob{Folder: s.folder, Filename: fh.Filename}

	src, err := fh.Open()
	if err != nil {
		return blob, apperror.Validation("Resume File Required!")
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return blob, fmt.Errorf("detect resume type: %w", err)
	}
	if !mimetype.EqualsAny(mtype.String(), allowedResumeTypes...) {
		return blob, apperror.Validation("Invalid file type. Please upload a PNG, JPEG, WEBP or PDF file.")
	}
	blob.ContentType = mtype.String()

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return blob, fmt.Errorf("rewind resume: %w", err)
	}

	tmp, err := os.CreateTemp(s.tempDir, "resume-*")
	if err != nil {
		return blob, fmt.Errorf("create temp file: %w", err)
	}
	blob.Path = tmp.Name()

	written, err := io.Copy(tmp, io.LimitReader(src, MaxResumeSize+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return blob, fmt.Errorf("spool resume: %w", err)
	}
	if written > MaxResumeSize {
		return blob, ErrResumeTooLarge
	}
	blob.Size = written

	return blob, nil
}

func (s *ApplicationService) create(ctx context.Context, actor *model.User, in SubmitInput, obj storage.Object) (*model.Application, error) {
	if in.JobID == 0 {
		return nil, apperror.NotFound("Job not found!")
	}

	var job model.Job
	err := func() error {
		defer prometheus.TrackDBOperation("query")(time.Now())
		return s.db.WithContext(ctx).First(&job, in.JobID).Error
	}()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Job not found!")
		}
		return nil, apperror.Persistence(err)
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.CoverLetter = strings.TrimSpace(in.CoverLetter)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	app := &model.Application{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Address:     in.Address,
		CoverLetter: in.CoverLetter,
		Resume: model.Resume{
			PublicID: obj.Key,
			URL:      obj.URL,
		},
		JobID:       job.ID,
		ApplicantID: model.Party{User: actor.ID, Role: model.RoleJobSeeker},
		EmployerID:  model.Party{User: job.PostedBy, Role: model.RoleEmployer},
		AppliedAt:   s.now().UTC(),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		return nil, apperror.Persistence(err)
	}
	return app, nil
}

func (s *ApplicationService) discardResume(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		logger.FromContext(ctx).Warn("Failed to delete stored resume", zap.String("key", key), zap.Error(err))
	}
}

// ListForEmployer returns the applications made to actor's jobs
func (s *ApplicationService) ListForEmployer(ctx context.Context, actor *model.User) ([]model.Application, error) {
	prometheus.RecordApplicationOperation("list_employer")

	if actor.Role != model.RoleEmployer {
		return nil, apperror.RoleNotAllowed(string(actor.Role))
	}
	return s.listBy(ctx, "employer_user", actor.ID)
}

// ListForApplicant returns the applications actor has submitted
func (s *ApplicationService) ListForApplicant(ctx context.Context, actor *model.User) ([]model.Application, error) {
	prometheus.RecordApplicationOperation("list_applicant")

	if actor.Role != model.RoleJobSeeker {
		return nil, apperror.RoleNotAllowed(string(actor.Role))
	}
	return s.listBy(ctx, "applicant_user", actor.ID)
}

func (s *ApplicationService) listBy(ctx context.Context, column string, userID uint) ([]model.Application, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	apps := []model.Application{}
	err := s.db.WithContext(ctx).
		Where(column+" = ?", userID).
		Order("applied_at DESC, id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return apps, nil
}

// Delete withdraws an application submitted by actor and removes its resume
func (s *ApplicationService) Delete(ctx context.Context, id uint, actor *model.User) error {
	log := logger.FromContext(ctx)
	prometheus.RecordApplicationOperation("delete")

	if actor.Role == model.RoleEmployer {
		return apperror.RoleNotAllowed(string(actor.Role))
	}

	var app model.Application
	err := func() error {
		defer prometheus.TrackDBOperation("query")(time.Now())
		return s.db.WithContext(ctx).First(&app, id).Error
	}()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Application not found!")
		}
		return apperror.Persistence(err)
	}

	if app.ApplicantID.User != actor.ID {
		log.Warn("Application ownership check failed",
			zap.Uint("application_id", app.ID),
			zap.Uint("actor_id", actor.ID))
		return apperror.Forbidden("You can only delete your own applications.")
	}

	s.discardResume(ctx, app.Resume.PublicID)

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := s.db.WithContext(ctx).Delete(&model.Application{}, app.ID).Error; err != nil {
		return apperror.Persistence(err)
	}

	log.Info("Application deleted", zap.Uint("application_id", app.ID))
	return nil
}
