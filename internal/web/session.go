// Package web provides the HTTP surface of the mood playlist service.
package web

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/moodlist/moodlist/internal/db"
	"github.com/moodlist/moodlist/internal/spotify"
)

// Session represents an authenticated user session. A session never
// outlives its signed cookie's validity window.
type Session struct {
	ID        string
	Token     *oauth2.Token
	UserID    string
	UserName  string
	Profile   json.RawMessage
	CreatedAt time.Time
}

// SessionManager defines the interface for session storage.
type SessionManager interface {
	Create(ctx context.Context, token *oauth2.Token, profile *spotify.Profile) (*Session, error)
	Get(ctx context.Context, id string) *Session
	Delete(ctx context.Context, id string)
}

// ============================================================================
// In-Memory Session Store
// ============================================================================

// SessionStore manages user sessions in memory. State does not survive a
// process restart.
type SessionStore struct {
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Create stores a new session for the given token and profile.
func (s *SessionStore) Create(_ context.Context, token *oauth2.Token, profile *spotify.Profile) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    profile.ID,
		UserName:  profile.DisplayName,
		Profile:   profile.Raw,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session, nil
}

// Get retrieves a session by ID. Expired sessions are treated as absent.
func (s *SessionStore) Get(_ context.Context, id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil
	}

	if time.Since(session.CreatedAt) > s.ttl {
		return nil
	}

	return session
}

// Delete removes a session by ID.
func (s *SessionStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// ============================================================================
// Database-Backed Session Store
// ============================================================================

// DBSessionStore manages user sessions in PostgreSQL.
type DBSessionStore struct {
	database *db.DB
	ttl      time.Duration
}

// NewDBSessionStore creates a new database-backed session store.
func NewDBSessionStore(database *db.DB, ttl time.Duration) *DBSessionStore {
	return &DBSessionStore{database: database, ttl: ttl}
}

// Create stores a new session row for the given token and profile.
func (s *DBSessionStore) Create(ctx context.Context, token *oauth2.Token, profile *spotify.Profile) (*Session, error) {
	now := time.Now()
	session := &Session{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    profile.ID,
		UserName:  profile.DisplayName,
		Profile:   profile.Raw,
		CreatedAt: now,
	}

	row := &db.Session{
		ID:           session.ID,
		UserID:       session.UserID,
		DisplayName:  session.UserName,
		Profile:      profile.Raw,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
	}
	if err := s.database.Sessions().Create(ctx, row); err != nil {
		return nil, err
	}

	return session, nil
}

// Get retrieves a session by ID from the database.
func (s *DBSessionStore) Get(ctx context.Context, id string) *Session {
	row, err := s.database.Sessions().Get(ctx, id)
	if err != nil {
		return nil
	}

	return &Session{
		ID: row.ID,
		Token: &oauth2.Token{
			AccessToken:  row.AccessToken,
			RefreshToken: row.RefreshToken,
			Expiry:       row.TokenExpiry,
			TokenType:    "Bearer",
		},
		UserID:    row.UserID,
		UserName:  row.DisplayName,
		Profile:   row.Profile,
		CreatedAt: row.CreatedAt,
	}
}

// Delete removes a session from the database.
func (s *DBSessionStore) Delete(ctx context.Context, id string) {
	_ = s.database.Sessions().Delete(ctx, id)
}

// Ensure both stores implement SessionManager.
var (
	_ SessionManager = (*SessionStore)(nil)
	_ SessionManager = (*DBSessionStore)(nil)
)
