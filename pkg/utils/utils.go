package utils

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

func GetDefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		// If there is no user cache dir, fall back to local directory
		return ".deckforge-cache"
	}
	return filepath.Join(dir, "deckforge", "backgrounds")
}

// Slug lower-cases name and collapses every run of non alphanumerics to "-".
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
