package service

import (
	"context"
	"strings"
	"testing"

	"jobboard-service/internal/apperror"
	"jobboard-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterStoresHashedPassword(t *testing.T) {
	db := newTestDB(t)
	s := newTestUserService(db)

	user := mustRegister(t, s, "Alice", "Alice@Example.com ", model.RoleJobSeeker)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "pw", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("pw")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	s := newTestUserService(db)
	mustRegister(t, s, "Alice", "a@x.io", model.RoleJobSeeker)

	_, err := s.Register(context.Background(), RegisterInput{
		Name: "Alice Again", Email: "a@x.io", Phone: "1", Password: "other", Role: model.RoleEmployer,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindDuplicateEmail))
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	s := newTestUserService(db)

	valid := RegisterInput{Name: "Alice", Email: "a@x.io", Phone: "1", Password: "pw", Role: model.RoleJobSeeker}

	tests := []struct {
		name   string
		mutate func(in *RegisterInput)
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "" }},
		{"short name", func(in *RegisterInput) { in.Name = "Al" }},
		{"long name", func(in *RegisterInput) { in.Name = "A name that is far longer than thirty characters" }},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"missing phone", func(in *RegisterInput) { in.Phone = " " }},
		{"missing password", func(in *RegisterInput) { in.Password = "" }},
		{"long password", func(in *RegisterInput) { in.Password = strings.Repeat("p", 80) }},
		{"long multibyte password", func(in *RegisterInput) { in.Password = strings.Repeat("é", 40) }},
		{"missing role", func(in *RegisterInput) { in.Role = "" }},
		{"unknown role", func(in *RegisterInput) { in.Role = "Admin" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := s.Register(context.Background(), in)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation), "got %v", err)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	s := newTestUserService(db)
	registered := mustRegister(t, s, "Alice", "a@x.io", model.RoleJobSeeker)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		user, err := s.Authenticate(ctx, "A@X.io", "pw", model.RoleJobSeeker)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := s.Authenticate(ctx, "a@x.io", "", model.RoleJobSeeker)
		require.Error(t, err)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindValidation, appErr.Kind)
		assert.Equal(t, "Please provide email, password and role!", appErr.Message)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := s.Authenticate(ctx, "nobody@x.io", "pw", model.RoleJobSeeker)
		assert.True(t, apperror.IsKind(err, apperror.KindInvalidCredentials))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.Authenticate(ctx, "a@x.io", "nope", model.RoleJobSeeker)
		assert.True(t, apperror.IsKind(err, apperror.KindInvalidCredentials))
	})

	t.Run("wrong role", func(t *testing.T) {
		_, err := s.Authenticate(ctx, "a@x.io", "pw", model.RoleEmployer)
		require.Error(t, err)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindRoleMismatch, appErr.Kind)
		assert.Equal(t, "User with provided email and Employer not found!", appErr.Message)
	})
}

func TestGetByID(t *testing.T) {
	db := newTestDB(t)
	s := newTestUserService(db)
	user := mustRegister(t, s, "Alice", "a@x.io", model.RoleEmployer)

	got, err := s.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, model.RoleEmployer, got.Role)

	_, err = s.GetByID(context.Background(), user.ID+100)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
