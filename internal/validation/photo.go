package validation

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const genericContentType = "application/octet-stream"

// NormalizeContentType lowercases a media type and drops its parameters.
func NormalizeContentType(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// DetectContentType returns the declared content type of an upload, or the
// sniffed type of data when the declaration is missing or generic.
func DetectContentType(declared string, data []byte) string {
	ct := NormalizeContentType(declared)
	if ct != "" && ct != genericContentType {
		return ct
	}
	return NormalizeContentType(mimetype.Detect(data).String())
}
