package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	apperrors "github.com/moodlist/moodlist/internal/errors"
	"github.com/moodlist/moodlist/internal/httputil"
	"github.com/moodlist/moodlist/internal/playlist"
	"github.com/moodlist/moodlist/internal/spotify"
)

// Authorizer is the OAuth authorization-code capability: build the redirect
// target, complete the exchange, fetch the profile the new token grants.
type Authorizer interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, state string, r *http.Request) (*oauth2.Token, error)
	Profile(ctx context.Context, token *oauth2.Token) (*spotify.Profile, error)
}

// PlaylistSaver persists a generated playlist to the user's account.
type PlaylistSaver interface {
	Save(ctx context.Context, token *oauth2.Token, name, description string, uris []string) (string, error)
}

// SaveRequest is the payload for POST /api/playlist/save.
type SaveRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URIs        []string `json:"uris"`
}

// Handlers contains the HTTP handlers for the service.
type Handlers struct {
	auth        Authorizer
	saver       PlaylistSaver
	sampler     *playlist.Sampler
	sessions    SessionManager
	cookies     *CookieCodec
	frontendURL string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(auth Authorizer, saver PlaylistSaver, sampler *playlist.Sampler, sessions SessionManager, cookies *CookieCodec, frontendURL string) *Handlers {
	return &Handlers{
		auth:        auth,
		saver:       saver,
		sampler:     sampler,
		sessions:    sessions,
		cookies:     cookies,
		frontendURL: frontendURL,
	}
}

// Health reports service liveness (GET /healthz).
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Login starts the OAuth flow (GET /auth/login). Any existing session is
// cleared first so login always starts fresh.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w, r)

	state, err := generateOAuthState()
	if err != nil {
		httputil.WriteError(w, apperrors.Internal("Failed to generate state").WithCause(err))
		return
	}

	// State round-trips through a short-lived cookie for validation on
	// callback.
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookies.production,
		SameSite: h.cookies.sameSite(),
		MaxAge:   300,
	})

	http.Redirect(w, r, h.auth.AuthURL(state), http.StatusTemporaryRedirect)
}

// Callback completes the OAuth flow (GET /auth/callback): exchanges the
// code, fetches the user profile, stores the session, and redirects to the
// frontend with the access token in the URL fragment. The fragment keeps the
// token out of server logs, unlike a query parameter.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil {
		httputil.WriteError(w, apperrors.Validation("Missing state cookie"))
		return
	}

	state := r.URL.Query().Get("state")
	if state != stateCookie.Value {
		httputil.WriteError(w, apperrors.Validation("State mismatch"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		httputil.WriteError(w, apperrors.Validation("Spotify auth error: "+errMsg))
		return
	}

	token, err := h.auth.Exchange(r.Context(), state, r)
	if err != nil {
		log.Error().Err(err).Msg("authorization code exchange failed")
		httputil.WriteError(w, err)
		return
	}

	profile, err := h.auth.Profile(r.Context(), token)
	if err != nil {
		// Clear everything rather than leave a half-authenticated state.
		log.Error().Err(err).Msg("profile fetch failed after token exchange")
		h.clearSession(w, r)
		httputil.WriteError(w, err)
		return
	}

	session, err := h.sessions.Create(r.Context(), token, profile)
	if err != nil {
		httputil.WriteError(w, apperrors.Internal("Failed to create session").WithCause(err))
		return
	}
	h.cookies.Set(w, session.ID)

	log.Info().Str("user_id", profile.ID).Msg("user logged in")
	http.Redirect(w, r, h.frontendURL+"/#access_token="+token.AccessToken, http.StatusTemporaryRedirect)
}

// Logout clears the session unconditionally (POST /auth/logout).
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w, r)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"detail": "Logged out"})
}

// GetPlaylist generates a mood playlist (GET /api/playlist?mood=).
func (h *Handlers) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	if h.currentSession(r) == nil {
		httputil.WriteError(w, apperrors.Unauthenticated("User not authenticated"))
		return
	}

	mood := r.URL.Query().Get("mood")
	if mood == "" {
		httputil.WriteError(w, apperrors.Validation("mood query parameter is required"))
		return
	}

	result, err := h.sampler.Generate(r.Context(), mood)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]*playlist.Result{"playlist": result})
}

// SavePlaylist persists a playlist to the user's account
// (POST /api/playlist/save).
func (h *Handlers) SavePlaylist(w http.ResponseWriter, r *http.Request) {
	session := h.currentSession(r)
	if session == nil || session.Token == nil || session.Token.AccessToken == "" {
		httputil.WriteError(w, apperrors.Unauthenticated("User not authenticated"))
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.Validation("Invalid request body"))
		return
	}
	if req.Name == "" {
		httputil.WriteError(w, apperrors.Validation("name is required"))
		return
	}

	url, err := h.saver.Save(r.Context(), session.Token, req.Name, req.Description, req.URIs)
	if err != nil {
		log.Error().Err(err).Str("user_id", session.UserID).Msg("playlist save failed")
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

// currentSession returns the live session for the request, or nil.
func (h *Handlers) currentSession(r *http.Request) *Session {
	id, ok := h.cookies.Read(r)
	if !ok {
		return nil
	}
	return h.sessions.Get(r.Context(), id)
}

// clearSession deletes the request's session, if any, and expires the
// cookie.
func (h *Handlers) clearSession(w http.ResponseWriter, r *http.Request) {
	if id, ok := h.cookies.Read(r); ok {
		h.sessions.Delete(r.Context(), id)
	}
	h.cookies.Clear(w)
}

// generateOAuthState creates a random state string for OAuth.
func generateOAuthState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
