// Package images handles item artwork: parsing the data URIs produced by the
// client-side cropper, storing uploaded blobs, and replacing inline images with
// stored references when a board is published.
package images

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidDataURI is returned for malformed data URIs.
var ErrInvalidDataURI = errors.New("invalid data URI")

// IsDataURI reports whether ref is an inline image rather than a stored reference.
func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, "data:image")
}

// DataURI is a decoded inline image.
type DataURI struct {
	MediaType string
	Data      []byte
}

// ParseDataURI decodes "data:[<mediatype>][;base64],<data>".
func ParseDataURI(s string) (DataURI, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return DataURI{}, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return DataURI{}, fmt.Errorf("%w: missing comma", ErrInvalidDataURI)
	}

	params := strings.Split(meta, ";")
	mediaType := strings.ToLower(strings.TrimSpace(params[0]))
	if mediaType == "" {
		mediaType = "text/plain"
	}
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// some encoders drop the padding
			decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
			if err != nil {
				return DataURI{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
			}
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return DataURI{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
		}
		data = []byte(unescaped)
	}
	return DataURI{MediaType: mediaType, Data: data}, nil
}

// Encode renders d back to a base64 data URI.
func (d DataURI) Encode() string {
	return "data:" + d.MediaType + ";base64," + base64.StdEncoding.EncodeToString(d.Data)
}

var extensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

var mediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

func extensionFor(mediaType string) string {
	if ext, ok := extensions[mediaType]; ok {
		return ext
	}
	return ".bin"
}
