package chat

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// maxImageBytes is the decoded size ceiling for inline image payloads.
const maxImageBytes = 100 * 1024 * 1024 // 100 MiB

// allowedImageTypes are the content types accepted after sniffing the
// decoded bytes. The declared subtype in the data URI header is never
// trusted for acceptance.
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidateImageData reports whether payload is an acceptable inline image:
// a data URI with an image/ header, a base64 body that decodes to at most
// maxImageBytes, and decoded bytes that sniff as an allow-listed image type.
// Every failure mode collapses to false; it never returns an error.
func ValidateImageData(payload string) bool {
	if !strings.HasPrefix(payload, "data:image/") {
		return false
	}

	header, body, found := strings.Cut(payload, ",")
	if !found {
		return false
	}
	if !strings.Contains(header, "image/") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return false
	}

	if len(decoded) > maxImageBytes {
		return false
	}

	return allowedImageTypes[http.DetectContentType(decoded)]
}
