package constants

import "strings"

// AllowedExtensions holds the file extensions the text extractor understands.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
	"doc":  {},
}

// MaxFileSize is the upload ceiling in bytes (50MB).
const MaxFileSize = 50 * 1024 * 1024

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsSupportedExt reports whether the extractor handles the extension.
func IsSupportedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
