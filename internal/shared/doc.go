// Package shared holds helpers used across the spotifyeda packages.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler, a slog.Handler that captures records so tests can
//     assert on log output
//   - Spotify-shaped CSV fixtures and helpers that write them into t.TempDir()
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//		logger, logs := testutil.NewTestLogger(t)
//		path := testutil.WriteFile(t, t.TempDir(), "tracks.csv", testutil.SpotifyCSV)
//		...
//		testutil.AssertLogContains(t, logs, slog.LevelInfo, "Pipeline completed")
//	}
//
// Nothing here is imported by production code.
package shared
