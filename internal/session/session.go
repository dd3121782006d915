// Package session delivers session tokens to clients through an HTTP-only
// cookie and reads them back from incoming requests.
package session

import (
	"net/http"
	"strings"
	"time"

	"jobboard-service/internal/model"
	"jobboard-service/pkg/config"
	"jobboard-service/pkg/jwtutil"
	"jobboard-service/prometheus"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// Issuer creates, reads and clears session cookies
type Issuer struct {
	jwt        *jwtutil.JWTUtil
	cookieName string
	lifetime   time.Duration
	production bool
	now        func() time.Time
}

func NewIssuer(jwt *jwtutil.JWTUtil, cfg config.CookieConfig, production bool) *Issuer {
	name := cfg.Name
	if name == "" {
		name = "token"
	}
	return &Issuer{
		jwt:        jwt,
		cookieName: name,
		lifetime:   time.Duration(cfg.ExpireDays) * 24 * time.Hour,
		production: production,
		now:        time.Now,
	}
}

// Issue signs a token for user and sets it as the session cookie
func (i *Issuer) Issue(c echo.Context, user *model.User) (string, error) {
	token, err := i.jwt.GenerateToken(user.ID)
	if err != nil {
		return "", err
	}

	c.SetCookie(i.cookie(token, i.now().Add(i.lifetime), int(i.lifetime.Seconds())))
	prometheus.IncreaseActiveTokens()
	return token, nil
}

// Revoke overwrites the session cookie with an empty expired one. Only a
// request that still carried a cookie counts as ending an issued session.
func (i *Issuer) Revoke(c echo.Context) {
	if cookie, err := c.Cookie(i.cookieName); err == nil && cookie.Value != "" {
		prometheus.DecreaseActiveTokens()
	}
	c.SetCookie(i.cookie("", time.Unix(0, 0), -1))
}

// Token returns the session token from the cookie, falling back to a Bearer header
func (i *Issuer) Token(c echo.Context) string {
	if cookie, err := c.Cookie(i.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	}
	return ""
}

// Validate checks a token and returns its claims
func (i *Issuer) Validate(token string) (*jwtutil.UserClaims, error) {
	return i.jwt.ValidateToken(token)
}

func (i *Issuer) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     i.cookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if i.production {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}
