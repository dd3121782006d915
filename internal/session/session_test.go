package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobboard-service/internal/model"
	"jobboard-service/pkg/config"
	"jobboard-service/pkg/jwtutil"
	"jobboard-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(production bool) *Issuer {
	jwt := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-secret", ExpirationHours: 168})
	return NewIssuer(jwt, config.CookieConfig{Name: "token", ExpireDays: 7}, production)
}

func newContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestIssueSetsCookie(t *testing.T) {
	issuer := newIssuer(false)
	c, rec := newContext(httptest.NewRequest(http.MethodPost, "/", nil))

	token, err := issuer.Issue(c, &model.User{ID: 7})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "token", cookie.Name)
	assert.Equal(t, token, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestIssueProductionCookie(t *testing.T) {
	issuer := newIssuer(true)
	c, rec := newContext(httptest.NewRequest(http.MethodPost, "/", nil))

	_, err := issuer.Issue(c, &model.User{ID: 1})
	require.NoError(t, err)

	cookie := rec.Result().Cookies()[0]
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
}

func TestRevokeExpiresCookie(t *testing.T) {
	issuer := newIssuer(false)
	c, rec := newContext(httptest.NewRequest(http.MethodGet, "/", nil))

	issuer.Revoke(c)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestRevokeOnlyCountsCookieSessions(t *testing.T) {
	issuer := newIssuer(false)
	gauge := func() float64 { return testutil.ToFloat64(prometheus.ActiveTokensGauge) }

	c, _ := newContext(httptest.NewRequest(http.MethodPost, "/", nil))
	token, err := issuer.Issue(c, &model.User{ID: 3})
	require.NoError(t, err)
	issued := gauge()

	// bearer-only logout
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	c, _ = newContext(req)
	issuer.Revoke(c)
	assert.Equal(t, issued, gauge())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	c, _ = newContext(req)
	issuer.Revoke(c)
	assert.Equal(t, issued-1, gauge())

	// repeat logout after the cookie was cleared
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: ""})
	c, _ = newContext(req)
	issuer.Revoke(c)
	assert.Equal(t, issued-1, gauge())
}

func TestTokenPrefersCookie(t *testing.T) {
	issuer := newIssuer(false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
	req.Header.Set(echo.HeaderAuthorization, "Bearer from-header")
	c, _ := newContext(req)
	assert.Equal(t, "from-cookie", issuer.Token(c))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer from-header")
	c, _ = newContext(req)
	assert.Equal(t, "from-header", issuer.Token(c))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic abc")
	c, _ = newContext(req)
	assert.Empty(t, issuer.Token(c))
}
