// Package spotify provides access to the Spotify Web API: anonymous search
// backed by a client-credentials token cache, and user-scoped account
// operations behind the authorization-code flow.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/moodlist/moodlist/internal/errors"
)

const defaultAPIURL = "https://api.spotify.com/v1"

// Client searches the Spotify catalog using app-level credentials.
type Client struct {
	tokens     *TokenCache
	httpClient *http.Client
	apiURL     string
}

// NewClient creates a search client drawing bearer tokens from the cache.
func NewClient(tokens *TokenCache) *Client {
	return &Client{
		tokens: tokens,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiURL: defaultAPIURL,
	}
}

// SearchTracks runs a genre-filtered track search and returns the matching
// page. The caller controls limit and offset; the platform caps offset at
// 10000.
func (c *Client) SearchTracks(ctx context.Context, genre string, limit, offset int) (*TrackPage, error) {
	params := url.Values{
		"q":      {fmt.Sprintf("genre:%q", genre)},
		"type":   {"track"},
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}

	body, err := c.doRequest(ctx, "/search", params)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.InvalidUpstream("parsing search response").WithCause(err)
	}

	return &resp.Tracks, nil
}

// doRequest issues an authenticated GET and returns the response body.
// Non-2xx responses surface as upstream errors carrying status and body.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.Internal("building search request").WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.InvalidUpstream("search endpoint unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.InvalidUpstream("reading search response").WithCause(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.Upstream(resp.StatusCode, "Error fetching tracks: "+string(body))
	}

	return body, nil
}
