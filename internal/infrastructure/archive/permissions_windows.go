//go:build windows

package archive

import "os"

// Windows has no unix permission bits; restoring them is a no-op.
func setPermissions(string, os.FileMode) error {
	return nil
}
