package deck

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DetectFormat picks the segmentation format from the reported content type
// and the file name or URL.
func DetectFormat(contentType, name string) Format {
	contentType = strings.ToLower(contentType)
	name = strings.ToLower(name)

	switch {
	case strings.Contains(contentType, "pdf"), strings.Contains(name, ".pdf"):
		return FormatPDF
	case strings.Contains(contentType, "presentation"),
		strings.Contains(contentType, "powerpoint"),
		strings.Contains(name, ".pptx"):
		return FormatPresentation
	default:
		return FormatGeneric
	}
}

// Decode converts raw deck bytes to text. A UTF-16 byte order mark switches
// decoding; otherwise invalid UTF-8 sequences become U+FFFD.
func Decode(data []byte) string {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(out)
}

// Parse decodes data and segments it.
func Parse(data []byte, format Format) []Segment {
	return Split(Decode(data), format)
}

// FileNameFromURL returns the last path element of rawURL, or "unknown".
func FileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "unknown"
	}
	return name
}
