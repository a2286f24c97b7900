package mood

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moods.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTable(t *testing.T) {
	path := writeTable(t, `
[moods]
Gloomy = ["acoustic", "sad"]
cozy = ["jazz"]
`)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}

	if len(table) != 2 {
		t.Fatalf("got %d moods, want 2", len(table))
	}
	// Keys are normalized to lower case.
	if !slices.Equal(table["gloomy"], []string{"acoustic", "sad"}) {
		t.Errorf("gloomy genres = %v", table["gloomy"])
	}
	if !slices.Equal(table["cozy"], []string{"jazz"}) {
		t.Errorf("cozy genres = %v", table["cozy"])
	}
}

func TestLoadTableErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no moods section", content: `title = "nothing"`},
		{name: "empty moods", content: "[moods]\n"},
		{name: "mood without genres", content: "[moods]\nflat = []\n"},
		{name: "invalid toml", content: "[moods\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTable(t, tt.content)
			if _, err := LoadTable(path); err == nil {
				t.Error("LoadTable() expected error, got nil")
			}
		})
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	if _, err := LoadTable(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("LoadTable() expected error for missing file")
	}
}

func TestLoadedTableResolves(t *testing.T) {
	path := writeTable(t, "[moods]\nstormy = [\"metal\", \"industrial\"]\n")

	table, err := LoadTable(path)
	if err != nil {
		t.Fatal(err)
	}

	r := NewResolver(table, testRand())
	got := r.Resolve("STORMY")
	if !slices.Contains(table["stormy"], got) {
		t.Errorf("Resolve(STORMY) = %q, not in %v", got, table["stormy"])
	}

	// Moods outside the override still fall back.
	if got := r.Resolve("happy"); got != "pop" {
		t.Errorf("Resolve(happy) = %q, want fallback pop", got)
	}
}
