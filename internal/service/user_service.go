package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard-service/internal/apperror"
	"jobboard-service/internal/model"
	"jobboard-service/pkg/logger"
	"jobboard-service/prometheus"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput carries the registration form
type RegisterInput struct {
	Name     string     `json:"name" validate:"required,min=3,max=30"`
	Email    string     `json:"email" validate:"required,email"`
	Phone    string     `json:"phone" validate:"required,max=20"`
	Password string     `json:"password" validate:"required,max=72"`
	Role     model.Role `json:"role" validate:"required"`
}

// UserService is the credential store
type UserService struct {
	db         *gorm.DB
	bcryptCost int
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, bcryptCost: bcrypt.DefaultCost}
}

// Register creates a user with a hashed password
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	log := logger.FromContext(ctx)
	prometheus.RegisterCounter.Inc()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Role = model.Role(strings.TrimSpace(string(in.Role)))

	if err := validateInput(in); err != nil {
		prometheus.RecordAuthError("incomplete_registration")
		return nil, err
	}
	if !in.Role.Valid() {
		prometheus.RecordAuthError("invalid_role")
		return nil, apperror.Validation(fmt.Sprintf("role must be %q or %q", model.RoleEmployer, model.RoleJobSeeker))
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	var existing model.User
	err := s.db.WithContext(ctx).Where("email = ?", in.Email).First(&existing).Error
	switch {
	case err == nil:
		log.Warn("User already exists", zap.String("email", in.Email))
		prometheus.RecordAuthError("email_already_exists")
		return nil, apperror.New(apperror.KindDuplicateEmail, "Email already registered!")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperror.Persistence(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		// max=72 counts characters, bcrypt counts bytes
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperror.Validation("password cannot exceed 72 bytes")
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: string(hash),
		Role:     in.Role,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			prometheus.RecordAuthError("email_already_exists")
			return nil, apperror.New(apperror.KindDuplicateEmail, "Email already registered!")
		}
		return nil, apperror.Persistence(err)
	}

	log.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))
	return user, nil
}

// Authenticate checks the credentials and that the account has the requested role
func (s *UserService) Authenticate(ctx context.Context, email, password string, role model.Role) (*model.User, error) {
	log := logger.FromContext(ctx)
	prometheus.LoginCounter.Inc()

	email = normalizeEmail(email)
	role = model.Role(strings.TrimSpace(string(role)))
	if email == "" || password == "" || role == "" {
		prometheus.RecordAuthError("incomplete_login")
		return nil, apperror.Validation("Please provide email, password and role!")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("User not found", zap.String("email", email))
			prometheus.RecordAuthError("user_not_found")
			return nil, apperror.New(apperror.KindInvalidCredentials, "Invalid Email or Password!")
		}
		return nil, apperror.Persistence(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Warn("Invalid password", zap.String("email", email))
		prometheus.RecordAuthError("invalid_password")
		return nil, apperror.New(apperror.KindInvalidCredentials, "Invalid Email or Password!")
	}

	if user.Role != role {
		log.Warn("Role mismatch on login",
			zap.String("email", email),
			zap.String("requested_role", string(role)))
		prometheus.RecordAuthError("role_mismatch")
		return nil, apperror.New(apperror.KindRoleMismatch, fmt.Sprintf("User with provided email and %s not found!", role))
	}

	log.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return &user, nil
}

// GetByID loads a user by primary key
func (s *UserService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Persistence(err)
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
