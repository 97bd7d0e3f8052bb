package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var filenameStrip = regexp.MustCompile(`[^\p{L}\p{N}_\-.]`)

// SanitizeFilename turns a platform-assigned display name into a
// filesystem-safe filename: spaces become underscores, everything outside
// word characters, hyphen, underscore and dot is dropped.
func SanitizeFilename(name string) string {
	s := strings.ReplaceAll(name, " ", "_")
	return filenameStrip.ReplaceAllString(s, "")
}

// writeFileAtomic writes data to path via a temp file and rename, creating
// parent directories, so consumers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("export: write tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("export: rename: %w", err)
	}
	return nil
}
