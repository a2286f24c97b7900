package spotify

import "encoding/json"

// TrackPage is one page of track search results. Items keep the upstream
// track objects verbatim so clients see exactly what the platform returned.
type TrackPage struct {
	Href     string            `json:"href"`
	Items    []json.RawMessage `json:"items"`
	Limit    int               `json:"limit"`
	Next     *string           `json:"next"`
	Offset   int               `json:"offset"`
	Previous *string           `json:"previous"`
	Total    int               `json:"total"`
}

// searchResponse is the search endpoint's envelope for type=track queries.
type searchResponse struct {
	Tracks TrackPage `json:"tracks"`
}

// Profile is a user profile fetched after the authorization-code exchange.
// Raw preserves the upstream document; ID and DisplayName are pulled out for
// session bookkeeping.
type Profile struct {
	ID          string
	DisplayName string
	Raw         json.RawMessage
}
