package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/moodlist/moodlist/internal/errors"
)

// primedTokenCache returns a cache holding a fresh token so search tests
// never hit the token endpoint.
func primedTokenCache(token string) *TokenCache {
	tc := NewTokenCache("client-id", "client-secret")
	tc.accessToken = token
	tc.expiresAt = time.Now().Add(time.Hour)
	return tc
}

func TestSearchTracks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}

		q := r.URL.Query()
		if got := q.Get("q"); got != `genre:"pop"` {
			t.Errorf("q = %q, want genre:\"pop\"", got)
		}
		if got := q.Get("type"); got != "track" {
			t.Errorf("type = %q, want track", got)
		}
		if got := q.Get("limit"); got != "25" {
			t.Errorf("limit = %q, want 25", got)
		}
		if got := q.Get("offset"); got != "100" {
			t.Errorf("offset = %q, want 100", got)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"tracks":{"href":"h","items":[{"id":"t1","uri":"spotify:track:t1"}],"limit":25,"offset":100,"total":500}}`)
	}))
	defer server.Close()

	c := NewClient(primedTokenCache("test-token"))
	c.apiURL = server.URL

	page, err := c.SearchTracks(context.Background(), "pop", 25, 100)
	if err != nil {
		t.Fatalf("SearchTracks() error = %v", err)
	}

	if page.Total != 500 {
		t.Errorf("Total = %d, want 500", page.Total)
	}
	if len(page.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(page.Items))
	}
	// Items are kept verbatim.
	if got := string(page.Items[0]); got != `{"id":"t1","uri":"spotify:track:t1"}` {
		t.Errorf("item = %s", got)
	}
}

func TestSearchTracksUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"status":403,"message":"forbidden"}}`, http.StatusForbidden)
	}))
	defer server.Close()

	c := NewClient(primedTokenCache("test-token"))
	c.apiURL = server.URL

	_, err := c.SearchTracks(context.Background(), "pop", 1, 0)
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("error %v is not an AppError", err)
	}
	if appErr.Code != apperrors.ErrCodeUpstream {
		t.Errorf("code = %s, want %s", appErr.Code, apperrors.ErrCodeUpstream)
	}
	if appErr.HTTPStatus() != http.StatusForbidden {
		t.Errorf("status = %d, want 403", appErr.HTTPStatus())
	}
}

func TestSearchTracksBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	c := NewClient(primedTokenCache("test-token"))
	c.apiURL = server.URL

	_, err := c.SearchTracks(context.Background(), "pop", 1, 0)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeInvalidUpstream {
		t.Fatalf("error = %v, want %s", err, apperrors.ErrCodeInvalidUpstream)
	}
}

func TestSearchTracksTokenFailurePropagates(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer tokenServer.Close()

	tc := NewTokenCache("client-id", "client-secret")
	tc.tokenURL = tokenServer.URL
	c := NewClient(tc)

	_, err := c.SearchTracks(context.Background(), "pop", 1, 0)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeUpstream {
		t.Fatalf("error = %v, want upstream token failure", err)
	}
}
