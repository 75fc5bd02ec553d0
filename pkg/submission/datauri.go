package submission

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformedDataURI is wrapped by DecodeDataURI failures.
var ErrMalformedDataURI = errors.New("submission: malformed data URI")

// DecodeDataURI decodes an RFC 2397 data URI into its payload and media type.
// Only base64 and percent-encoded payloads are accepted; the media type
// defaults to text/plain as the RFC specifies.
func DecodeDataURI(raw string) ([]byte, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, "", ErrEmptySignature
	}
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing data: scheme", ErrMalformedDataURI)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing payload separator", ErrMalformedDataURI)
	}

	mediaType := "text/plain"
	isBase64 := false
	for i, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		switch {
		case i == 0 && part != "":
			mediaType = strings.ToLower(part)
		case part == "base64":
			isBase64 = true
		}
	}

	var (
		data []byte
		err  error
	)
	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(payload)
		}
	} else {
		var text string
		text, err = url.PathUnescape(payload)
		data = []byte(text)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformedDataURI, err)
	}
	if len(data) == 0 {
		return nil, "", ErrEmptySignature
	}
	return data, mediaType, nil
}
