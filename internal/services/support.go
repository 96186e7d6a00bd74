package services

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"scourfs/internal/domain"
)

type ProgressFunc func(domain.ProgressEvent)

func emit(progress ProgressFunc, event domain.ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}

func cleanPath(path string) string {
	if path == "" {
		return path
	}
	clean := filepath.Clean(path)
	abs, err := filepath.Abs(clean)
	if err != nil {
		return clean
	}
	return abs
}

func normalizePaths(paths []string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		clean := cleanPath(path)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		result = append(result, clean)
	}
	return result
}

// IsCriticalPath reports whether path is a root the safe-mode guard refuses
// to touch: the filesystem root, core system directories, or the user's home.
func IsCriticalPath(path string) bool {
	path = filepath.Clean(path)
	critical := []string{"/", "/etc", "/usr", "/var"}
	if home, err := os.UserHomeDir(); err == nil {
		critical = append(critical, home)
	}
	for _, root := range critical {
		root = filepath.Clean(root)
		if path == root {
			return true
		}
	}
	return false
}

func displayName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return path
	}
	return name
}

func randomHexName(length int) string {
	raw := make([]byte, (length+1)/2)
	_, _ = rand.Read(raw)
	return hex.EncodeToString(raw)[:length]
}

func lowerPrefixes(paths []string) []string {
	lowered := make([]string, 0, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		lowered = append(lowered, strings.ToLower(filepath.Clean(path)))
	}
	return lowered
}
