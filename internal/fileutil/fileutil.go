// Package fileutil provides file system utilities.
package fileutil

import "os"

// IsDir checks if a path is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
