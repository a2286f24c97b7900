package web

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/moodlist/moodlist/internal/spotify"
)

func testProfile() *spotify.Profile {
	return &spotify.Profile{
		ID:          "user-1",
		DisplayName: "Test User",
		Raw:         json.RawMessage(`{"id":"user-1","display_name":"Test User"}`),
	}
}

func testToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}
}

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	session, err := store.Create(ctx, testToken(), testProfile())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if session.ID == "" {
		t.Fatal("Create() returned empty ID")
	}
	if session.UserID != "user-1" || session.UserName != "Test User" {
		t.Errorf("session user = %q/%q", session.UserID, session.UserName)
	}

	got := store.Get(ctx, session.ID)
	if got == nil {
		t.Fatal("Get() returned nil for live session")
	}
	if got.Token.AccessToken != "access" {
		t.Errorf("Token.AccessToken = %q", got.Token.AccessToken)
	}

	store.Delete(ctx, session.ID)
	if store.Get(ctx, session.ID) != nil {
		t.Error("Get() returned session after Delete()")
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	session, err := store.Create(ctx, testToken(), testProfile())
	if err != nil {
		t.Fatal(err)
	}

	// Age the session past its TTL.
	store.mu.Lock()
	store.sessions[session.ID].CreatedAt = time.Now().Add(-2 * time.Hour)
	store.mu.Unlock()

	if store.Get(ctx, session.ID) != nil {
		t.Error("Get() returned expired session")
	}
}

func TestSessionStoreUnknownID(t *testing.T) {
	store := NewSessionStore(time.Hour)
	if store.Get(context.Background(), "missing") != nil {
		t.Error("Get() returned session for unknown ID")
	}
	// Deleting an unknown ID is a no-op.
	store.Delete(context.Background(), "missing")
}
