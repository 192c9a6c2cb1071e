// Package contenttype classifies HTTP content-type header values.
package contenttype

import (
	"mime"
	"strings"
)

// Category represents a broad content-type classification.
type Category string

const (
	JSON   Category = "json"
	HTML   Category = "html"
	XML    Category = "xml"
	Text   Category = "text"
	Binary Category = "binary"
)

// Classify returns the broad content category for a content-type header value.
// Parameters such as charset are ignored. An empty value is Binary.
func Classify(contentType string) Category {
	if strings.TrimSpace(contentType) == "" {
		return Binary
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch {
	case strings.Contains(mediaType, "json"):
		return JSON
	case mediaType == "text/html", mediaType == "application/xhtml+xml":
		return HTML
	case strings.Contains(mediaType, "xml"):
		return XML
	case strings.HasPrefix(mediaType, "text/"):
		return Text
	default:
		return Binary
	}
}

// IsHTML reports whether contentType denotes an HTML document, the usual
// shape of gateway and proxy error pages in front of a JSON API.
func IsHTML(contentType string) bool {
	return Classify(contentType) == HTML
}
