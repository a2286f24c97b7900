package mood

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// tableFile is the on-disk shape of a mood table override:
//
//	[moods]
//	happy = ["pop", "dance"]
//	gloomy = ["acoustic", "sad"]
type tableFile struct {
	Moods map[string][]string `toml:"moods"`
}

// LoadTable reads a mood-to-genre table from a TOML file. Keys are
// normalized to lower case. An empty table or an entry with no genres is an
// error, so a bad override fails at startup rather than at request time.
func LoadTable(path string) (map[string][]string, error) {
	var file tableFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("parsing mood table %s: %w", path, err)
	}

	if len(file.Moods) == 0 {
		return nil, fmt.Errorf("mood table %s defines no moods", path)
	}

	table := make(map[string][]string, len(file.Moods))
	for mood, genres := range file.Moods {
		if len(genres) == 0 {
			return nil, fmt.Errorf("mood table %s: mood %q has no genres", path, mood)
		}
		table[strings.ToLower(mood)] = genres
	}

	return table, nil
}
