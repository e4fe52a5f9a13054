package httputil

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	AuthCookieName  = "auth_token"
	GuestCookieName = "guest_id"
)

// CookieOptions controls the security flags of every cookie we set.
type CookieOptions struct {
	Secure bool
}

func (o CookieOptions) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   o.Secure,
	}
	// SameSite=None requires Secure=true, so use Lax for development
	if o.Secure {
		c.SameSite = http.SameSiteNoneMode
	} else {
		c.SameSite = http.SameSiteLaxMode
	}
	return c
}

func (o CookieOptions) SetAuthCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, o.cookie(AuthCookieName, token, ttl))
}

func (o CookieOptions) ClearAuthCookie(w http.ResponseWriter) {
	c := o.cookie(AuthCookieName, "", 0)
	c.MaxAge = -1
	http.SetCookie(w, c)
}

// SetGuestCookie remembers a guest for a year.
func (o CookieOptions) SetGuestCookie(w http.ResponseWriter, guestID string) {
	http.SetCookie(w, o.cookie(GuestCookieName, guestID, 365*24*time.Hour))
}

func GetGuestID(r *http.Request) string {
	c, err := r.Cookie(GuestCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// GetTokenFromCookie extracts the JWT token from the auth cookie
func GetTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(AuthCookieName)
	if err != nil {
		return "", errors.New("auth cookie not found")
	}

	if cookie.Value == "" {
		return "", errors.New("auth cookie is empty")
	}

	return cookie.Value, nil
}

func GetTokenFromRequest(r *http.Request) (string, error) {
	token, err := GetTokenFromCookie(r)
	if err == nil && token != "" {
		return token, nil
	}

	// Fallback to Authorization header (for WebSocket upgrade compatibility)
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && token != "" {
		return token, nil
	}

	return "", errors.New("no auth token found in cookie or header")
}
