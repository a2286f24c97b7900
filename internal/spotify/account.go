package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	apperrors "github.com/moodlist/moodlist/internal/errors"
)

const playlistURLPrefix = "https://open.spotify.com/playlist/"

// Account performs user-scoped operations: the OAuth authorization-code
// dance, profile lookup, and playlist persistence.
type Account struct {
	auth *spotifyauth.Authenticator
}

// NewAccount creates an Account for the given app credentials and callback.
func NewAccount(clientID, clientSecret, redirectURI string) *Account {
	auth := spotifyauth.New(
		spotifyauth.WithClientID(clientID),
		spotifyauth.WithClientSecret(clientSecret),
		spotifyauth.WithRedirectURL(redirectURI),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserReadPrivate,
			spotifyauth.ScopeUserReadEmail,
			spotifyauth.ScopePlaylistModifyPrivate,
			spotifyauth.ScopePlaylistModifyPublic,
		),
	)
	return &Account{auth: auth}
}

// AuthURL returns the upstream authorization URL for the given state.
func (a *Account) AuthURL(state string) string {
	return a.auth.AuthURL(state)
}

// Exchange trades the authorization code carried by r for a user token.
func (a *Account) Exchange(ctx context.Context, state string, r *http.Request) (*oauth2.Token, error) {
	token, err := a.auth.Token(ctx, state, r)
	if err != nil {
		return nil, upstreamError(err, "exchanging authorization code")
	}
	if token.AccessToken == "" {
		return nil, apperrors.InvalidUpstream("Invalid access token")
	}
	return token, nil
}

// Profile fetches the authenticated user's profile. Failures propagate the
// upstream status; an unparsable document is an invalid-upstream error.
func (a *Account) Profile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	client := spotify.New(a.auth.Client(ctx, token))

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, upstreamError(err, "Failed to fetch user information")
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return nil, apperrors.Internal("encoding user profile").WithCause(err)
	}

	return &Profile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Raw:         raw,
	}, nil
}

// Save creates a private playlist under the user's account and fills it with
// the given track URIs. A failed track add is surfaced without rolling back
// the created playlist, so an empty playlist may remain upstream.
func (a *Account) Save(ctx context.Context, token *oauth2.Token, name, description string, uris []string) (string, error) {
	client := spotify.New(a.auth.Client(ctx, token))

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return "", upstreamError(err, "Failed to fetch user information")
	}

	created, err := client.CreatePlaylistForUser(ctx, user.ID, name, description, false, false)
	if err != nil {
		return "", upstreamError(err, "Failed to create playlist")
	}
	if created.ID == "" {
		return "", apperrors.InvalidUpstream("Failed to create playlist")
	}

	if _, err := client.AddTracksToPlaylist(ctx, created.ID, trackIDs(uris)...); err != nil {
		return "", upstreamError(err, "Failed to add tracks to playlist")
	}

	return playlistURLPrefix + created.ID.String(), nil
}

// trackIDs normalizes spotify:track:<id> URIs to bare IDs. Values without
// the prefix are passed through as IDs.
func trackIDs(uris []string) []spotify.ID {
	ids := make([]spotify.ID, len(uris))
	for i, uri := range uris {
		ids[i] = spotify.ID(strings.TrimPrefix(uri, "spotify:track:"))
	}
	return ids
}

// upstreamError converts a zmb3 client error into the service taxonomy,
// carrying the upstream status code when the platform returned one.
func upstreamError(err error, fallback string) error {
	var spotifyErr spotify.Error
	if errors.As(err, &spotifyErr) {
		return apperrors.Upstream(spotifyErr.Status, spotifyErr.Message)
	}
	return apperrors.InvalidUpstream(fallback).WithCause(err)
}
