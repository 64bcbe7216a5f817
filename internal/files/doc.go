// Package files discovers the raw data files a batch run should clean.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.BaseDir)
//	sources, err := discovery.FindDataFiles("data/raw")
//
// Relative directories resolve against the base path.
package files
