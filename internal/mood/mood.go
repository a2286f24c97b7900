// Package mood maps mood keywords to Spotify genre tags.
package mood

import (
	"math/rand/v2"
	"strings"
)

// fallbackGenres is used for moods missing from the table. Resolution never
// fails.
var fallbackGenres = []string{"pop"}

// defaultTable is the built-in mood-to-genre mapping. Keys are lower-case;
// lookups are case-insensitive.
var defaultTable = map[string][]string{
	"happy":        {"pop", "dance", "disco", "funk", "electronic", "house", "dancehall"},
	"sad":          {"acoustic", "indie", "indie-pop", "singer-songwriter", "piano", "sad", "ballad"},
	"energetic":    {"rock", "metal", "edm", "punk", "hard-rock", "hip-hop", "drum-and-bass"},
	"chill":        {"ambient", "lo-fi", "chill", "downtempo", "jazz", "soul", "new-age"},
	"romantic":     {"romance", "love", "r-n-b", "jazz", "soul", "acoustic", "ballad"},
	"motivational": {"power-pop", "uplifting", "dance", "edm", "pop", "rock"},
	"nostalgic":    {"retro", "classic", "old-school", "classic-rock"},
	"angry":        {"punk", "hardcore", "metalcore", "heavy-metal", "emo", "grunge"},
	"relaxed":      {"jazz", "blues", "brazil", "latin", "reggae", "instrumental", "smooth-jazz"},
	"focused":      {"classical", "electronic", "ambient", "study", "instrumental", "minimal-techno"},
}

// Rand is the source of randomness for genre and sampling choices. It is
// satisfied by *rand.Rand, so tests can seed a deterministic generator.
type Rand interface {
	IntN(n int) int
}

// globalRand delegates to the shared math/rand/v2 source, which is safe for
// concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand returns a concurrency-safe random source.
func DefaultRand() Rand { return globalRand{} }

// Resolver picks a genre for a mood keyword.
type Resolver struct {
	table map[string][]string
	rng   Rand
}

// NewResolver creates a Resolver over the given table. A nil table selects
// the built-in mapping; a nil rng selects the shared random source.
func NewResolver(table map[string][]string, rng Rand) *Resolver {
	if table == nil {
		table = defaultTable
	}
	if rng == nil {
		rng = DefaultRand()
	}
	return &Resolver{table: table, rng: rng}
}

// Resolve returns one genre for the mood, chosen uniformly at random from
// the mood's configured genres. Unknown moods fall back to "pop".
func (r *Resolver) Resolve(mood string) string {
	genres, ok := r.table[strings.ToLower(mood)]
	if !ok || len(genres) == 0 {
		genres = fallbackGenres
	}
	if len(genres) == 1 {
		return genres[0]
	}
	return genres[r.rng.IntN(len(genres))]
}
