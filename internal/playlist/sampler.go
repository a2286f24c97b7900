// Package playlist assembles mood-based pseudo-playlists from Spotify
// search results.
package playlist

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	apperrors "github.com/moodlist/moodlist/internal/errors"
	"github.com/moodlist/moodlist/internal/mood"
	"github.com/moodlist/moodlist/internal/spotify"
)

const (
	minLimit = 20
	maxLimit = 50

	// maxSearchOffset is the platform's documented offset ceiling.
	maxSearchOffset = 10000
)

// Searcher is the part of the search client the sampler needs.
type Searcher interface {
	SearchTracks(ctx context.Context, genre string, limit, offset int) (*spotify.TrackPage, error)
}

// Result is an ephemeral playlist-shaped payload. ID and URL stay nil until
// the client saves the playlist upstream.
type Result struct {
	ID          *string            `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	URL         *string            `json:"url"`
	Image       *string            `json:"image"`
	Tracks      *spotify.TrackPage `json:"tracks"`
}

// Sampler turns a mood keyword into a random slice of the catalog.
type Sampler struct {
	search Searcher
	moods  *mood.Resolver
	rng    mood.Rand
}

// NewSampler creates a Sampler. A nil rng selects the shared random source.
func NewSampler(search Searcher, moods *mood.Resolver, rng mood.Rand) *Sampler {
	if rng == nil {
		rng = mood.DefaultRand()
	}
	return &Sampler{search: search, moods: moods, rng: rng}
}

// Generate resolves the mood to a genre and samples a random page of
// matching tracks. The search API has no native random sampling, so a
// one-track probe learns the total match count and the real query lands on
// a random offset within it.
func (s *Sampler) Generate(ctx context.Context, moodName string) (*Result, error) {
	genre := s.moods.Resolve(moodName)

	probe, err := s.search.SearchTracks(ctx, genre, 1, 0)
	if err != nil {
		return nil, err
	}

	total := probe.Total
	if total == 0 {
		return nil, apperrors.NotFound(fmt.Sprintf("No tracks found for genre: %s", genre))
	}

	limit := minLimit + s.rng.IntN(maxLimit-minLimit+1)

	maxOffset := 0
	if total > limit {
		maxOffset = min(total-limit, maxSearchOffset)
	}
	offset := 0
	if maxOffset > 0 {
		offset = s.rng.IntN(maxOffset + 1)
	}

	page, err := s.search.SearchTracks(ctx, genre, limit, offset)
	if err != nil {
		return nil, err
	}

	return &Result{
		Name:        capitalize(moodName) + " Recommendations",
		Description: fmt.Sprintf("A random set of %d %s-mood tracks.", limit, moodName),
		Tracks:      page,
	}, nil
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
