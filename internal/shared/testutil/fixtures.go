package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SpotifyCSV is a small export with unnormalized headers, a duplicated
// track, a short track and a numeric column stored as text with one gap.
const SpotifyCSV = `Track Name,Artist Name,Genre,Duration Ms,Popularity,Energy
Alpha,Ann,pop,200000,80,0.8
Beta,Bob,rock,500,40,0.3
Gamma,Cid,pop,180000,75,
Alpha,Ann,pop,200000,80,0.8
Delta,Dee,jazz,240000,60,0.5
`

// ScenarioCSV is the two-column example used to check the cleaning rules
const ScenarioCSV = "Song Name, Duration Ms\nA,500\nB,1500\nB,1500\n"

// WriteFile writes content to dir/name and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of path, failing the test on error
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
