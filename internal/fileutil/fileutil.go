package fileutil

import (
	"path"
	"path/filepath"
	"strings"
)

// NormalizePath resolves a path to absolute form with forward-slash
// separators. Paths stored in the analysis cache are keyed by this form so the
// same file is never indexed twice under different spellings.
func NormalizePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(abs), nil
}

// FolderOf returns the parent folder of a slash-normalized path.
func FolderOf(normalized string) string {
	dir := path.Dir(normalized)
	if dir == "." {
		return ""
	}
	return dir
}

// CanonicalFolder lowercases a folder path, converts backslashes, and trims
// trailing slashes so folder comparisons are pure string equality with no
// filesystem access. Matching folder scope filters rely on this form.
func CanonicalFolder(folder string) string {
	folder = strings.ReplaceAll(folder, "\\", "/")
	folder = strings.TrimRight(folder, "/")
	return strings.ToLower(folder)
}

// HasExtension reports whether the path's extension (case-insensitive) is in
// the allowed set. The set entries must be lowercase and dot-prefixed.
func HasExtension(p string, allowed map[string]struct{}) bool {
	ext := strings.ToLower(filepath.Ext(p))
	_, ok := allowed[ext]
	return ok
}

// ExtensionSet builds the lookup set HasExtension expects.
func ExtensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}
