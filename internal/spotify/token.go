package spotify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	apperrors "github.com/moodlist/moodlist/internal/errors"
)

const defaultTokenURL = "https://accounts.spotify.com/api/token"

// tokenExpiryMargin is the safety window before expiry at which a cached
// token is considered stale.
const tokenExpiryMargin = 60 * time.Second

// TokenCache holds a single client-credentials access token and refreshes it
// lazily. Tokens are app-level bearer credentials, not tied to any user, and
// are never persisted across restarts.
type TokenCache struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
	now          func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewTokenCache creates a TokenCache for the given app credentials.
func NewTokenCache(clientID, clientSecret string) *TokenCache {
	return &TokenCache{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     defaultTokenURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

// Token returns a valid access token, reusing the cached one while it has
// more than 60 seconds of life left. The mutex makes concurrent callers
// share a single refresh instead of racing on the cache.
func (tc *TokenCache) Token(ctx context.Context) (string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.expiresAt.After(tc.now().Add(tokenExpiryMargin)) {
		return tc.accessToken, nil
	}

	token, expiresIn, err := tc.exchange(ctx)
	if err != nil {
		return "", err
	}

	tc.accessToken = token
	tc.expiresAt = tc.now().Add(time.Duration(expiresIn) * time.Second)
	return tc.accessToken, nil
}

// tokenResponse is the token endpoint's response body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// exchange performs a client-credentials grant against the token endpoint.
func (tc *TokenCache) exchange(ctx context.Context) (string, int, error) {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tc.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, apperrors.Internal("building token request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(tc.clientID, tc.clientSecret)

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		return "", 0, apperrors.InvalidUpstream("token endpoint unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, apperrors.InvalidUpstream("reading token response").WithCause(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", 0, apperrors.Upstream(resp.StatusCode, "Error fetching token: "+string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", 0, apperrors.InvalidUpstream("parsing token response").WithCause(err)
	}
	if token.AccessToken == "" {
		return "", 0, apperrors.InvalidUpstream("token response missing access_token")
	}

	return token.AccessToken, token.ExpiresIn, nil
}
