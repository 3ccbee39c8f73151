package platform

import (
	"os"
	"path/filepath"
)

// FindConfig looks upwards from startDir for a credentials file and falls back
// to the one in the home directory. It returns an empty path when neither exists.
func FindConfig(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ConfigFileName) {
			return filepath.Join(dir, ConfigFileName), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	if home, err := os.UserHomeDir(); err == nil && hasFile(home, ConfigFileName) {
		return filepath.Join(home, ConfigFileName), nil
	}
	return "", nil
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
