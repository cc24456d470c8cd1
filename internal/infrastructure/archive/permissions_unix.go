//go:build !windows

package archive

import "os"

func setPermissions(path string, mode os.FileMode) error {
	return os.Chmod(path, mode)
}
