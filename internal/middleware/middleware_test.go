package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobboard-service/internal/apperror"
	"jobboard-service/internal/model"
	"jobboard-service/internal/session"
	"jobboard-service/pkg/config"
	"jobboard-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver map[uint]*model.User

func (f fakeResolver) GetByID(_ context.Context, id uint) (*model.User, error) {
	if id == 99 {
		return nil, apperror.Persistence(errors.New("db down"))
	}
	user, ok := f[id]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

func newIssuer() *session.Issuer {
	jwt := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-secret", ExpirationHours: 1})
	return session.NewIssuer(jwt, config.CookieConfig{Name: "token", ExpireDays: 7}, false)
}

func signedToken(t *testing.T, issuer *session.Issuer, userID uint) string {
	t.Helper()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	token, err := issuer.Issue(c, &model.User{ID: userID})
	require.NoError(t, err)
	return token
}

func okHandler(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.NoContent(http.StatusTeapot)
	}
	return c.String(http.StatusOK, user.Name)
}

func run(req *http.Request, h echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	return rec, h(c)
}

func TestAuthMiddleware(t *testing.T) {
	issuer := newIssuer()
	users := fakeResolver{1: {ID: 1, Name: "Alice", Role: model.RoleJobSeeker}}
	h := AuthMiddleware(issuer, users)(okHandler)

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: signedToken(t, issuer, 1)})

		rec, err := run(req, h)
		require.NoError(t, err)
		assert.Equal(t, "Alice", rec.Body.String())
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+signedToken(t, issuer, 1))

		rec, err := run(req, h)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	unauthenticated := map[string]string{
		"missing token": "",
		"garbage token": "not-a-jwt",
		"unknown user":  signedToken(t, issuer, 2),
	}
	for name, token := range unauthenticated {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if token != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: token})
			}

			_, err := run(req, h)
			assert.True(t, apperror.IsKind(err, apperror.KindUnauthenticated), "got %v", err)
		})
	}

	t.Run("lookup failure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: signedToken(t, issuer, 99)})

		_, err := run(req, h)
		assert.True(t, apperror.IsKind(err, apperror.KindPersistence))
	})
}

func TestRequireRole(t *testing.T) {
	employerOnly := RequireRole(model.RoleEmployer)(okHandler)

	withUser := func(user *model.User) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user != nil {
				c.Set(userKey, user)
			}
			return employerOnly(c)
		}
	}

	rec, err := run(httptest.NewRequest(http.MethodGet, "/", nil), withUser(&model.User{Name: "Boss", Role: model.RoleEmployer}))
	require.NoError(t, err)
	assert.Equal(t, "Boss", rec.Body.String())

	_, err = run(httptest.NewRequest(http.MethodGet, "/", nil), withUser(&model.User{Role: model.RoleJobSeeker}))
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindForbidden, appErr.Kind)
	assert.Equal(t, "Job Seeker not allowed to access this resource.", appErr.Message)

	_, err = run(httptest.NewRequest(http.MethodGet, "/", nil), withUser(nil))
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthenticated))
}

func TestRequestIDMiddleware(t *testing.T) {
	h := RequestIDMiddleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, c.Request().Header.Get(echo.HeaderXRequestID))
	})

	rec, err := run(httptest.NewRequest(http.MethodGet, "/", nil), h)
	require.NoError(t, err)
	generated := rec.Header().Get(echo.HeaderXRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc-123")
	rec, err = run(req, h)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))
}
