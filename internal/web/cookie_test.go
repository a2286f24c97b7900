package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testCodec(production bool) *CookieCodec {
	return NewCookieCodec("test-secret", time.Hour, production)
}

func requestWithCookie(value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: value})
	return r
}

func TestCookieRoundTrip(t *testing.T) {
	codec := testCodec(false)

	rec := httptest.NewRecorder()
	codec.Set(rec, "session-123")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != sessionCookieName {
		t.Errorf("name = %q", cookie.Name)
	}
	if !cookie.HttpOnly {
		t.Error("cookie should be HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax outside production", cookie.SameSite)
	}
	if cookie.MaxAge != 3600 {
		t.Errorf("MaxAge = %d, want 3600", cookie.MaxAge)
	}

	id, ok := codec.Read(requestWithCookie(cookie.Value))
	if !ok || id != "session-123" {
		t.Errorf("Read() = %q, %v; want session-123, true", id, ok)
	}
}

func TestCookieProductionAttributes(t *testing.T) {
	codec := testCodec(true)

	rec := httptest.NewRecorder()
	codec.Set(rec, "session-123")

	cookie := rec.Result().Cookies()[0]
	if !cookie.Secure {
		t.Error("production cookie should be Secure")
	}
	if cookie.SameSite != http.SameSiteNoneMode {
		t.Errorf("SameSite = %v, want None in production", cookie.SameSite)
	}
}

func TestCookieRejectsTampering(t *testing.T) {
	codec := testCodec(false)

	rec := httptest.NewRecorder()
	codec.Set(rec, "session-123")
	valid := rec.Result().Cookies()[0].Value

	tests := []struct {
		name  string
		value string
	}{
		{name: "flipped id", value: "session-456." + valid[len("session-123."):]},
		{name: "no signature", value: "session-123"},
		{name: "empty id", value: "." + valid[len("session-123."):]},
		{name: "garbage", value: "nonsense"},
		{name: "wrong secret", value: "session-123." + NewCookieCodec("other-secret", time.Hour, false).sign("session-123")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := codec.Read(requestWithCookie(tt.value)); ok {
				t.Errorf("Read(%q) accepted a tampered cookie", tt.value)
			}
		})
	}
}

func TestCookieMissing(t *testing.T) {
	codec := testCodec(false)
	if _, ok := codec.Read(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Error("Read() without cookie should fail")
	}
}

func TestCookieClear(t *testing.T) {
	codec := testCodec(false)

	rec := httptest.NewRecorder()
	codec.Clear(rec)

	cookie := rec.Result().Cookies()[0]
	if cookie.MaxAge != -1 || cookie.Value != "" {
		t.Errorf("Clear() wrote MaxAge=%d value=%q", cookie.MaxAge, cookie.Value)
	}
}
