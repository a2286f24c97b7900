package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

const sessionCookieName = "mood_session"

// CookieCodec writes and reads the signed session cookie. The cookie value
// is "<session id>.<hmac>", so a tampered ID fails verification without a
// store lookup.
type CookieCodec struct {
	secret     []byte
	ttl        time.Duration
	production bool
}

// NewCookieCodec creates a codec signing with the given secret. In
// production the cookie is Secure with SameSite=None so a cross-site
// frontend can send it; otherwise SameSite=Lax.
func NewCookieCodec(secret string, ttl time.Duration, production bool) *CookieCodec {
	return &CookieCodec{
		secret:     []byte(secret),
		ttl:        ttl,
		production: production,
	}
}

// Set writes the signed session cookie.
func (c *CookieCodec) Set(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID + "." + c.sign(sessionID),
		Path:     "/",
		HttpOnly: true,
		Secure:   c.production,
		SameSite: c.sameSite(),
		MaxAge:   int(c.ttl.Seconds()),
	})
}

// Clear removes the session cookie.
func (c *CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.production,
		SameSite: c.sameSite(),
		MaxAge:   -1,
	})
}

// Read extracts and verifies the session ID from the request cookie.
func (c *CookieCodec) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", false
	}

	id, sig, ok := strings.Cut(cookie.Value, ".")
	if !ok || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(c.sign(id))) {
		return "", false
	}

	return id, true
}

func (c *CookieCodec) sign(id string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *CookieCodec) sameSite() http.SameSite {
	if c.production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
