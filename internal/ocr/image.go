package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MinImageBytes rejects payloads too small to be a photograph.
const MinImageBytes = 100

// Image validation errors. The flows translate these into learner-facing
// wording.
var (
	ErrImageTooSmall = errors.New("ocr: image too small or not decodable")
	ErrImageTooLarge = errors.New("ocr: image exceeds size limit")
)

// ValidateImage enforces the size bounds on raw image bytes.
func ValidateImage(data []byte, maxBytes int64) error {
	if len(data) <= MinImageBytes {
		return ErrImageTooSmall
	}
	if int64(len(data)) > maxBytes {
		return ErrImageTooLarge
	}
	return nil
}

// DecodeBase64Image tolerates data-URI prefixes, URL-safe alphabets and
// missing padding, since chat platforms mangle payloads in all three ways.
func DecodeBase64Image(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "base64,"); i >= 0 {
		s = s[i+len("base64,"):]
	}
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' {
			return -1
		}
		return r
	}, s)

	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding,
		base64.URLEncoding, base64.RawURLEncoding,
	} {
		if data, err := enc.DecodeString(s); err == nil {
			return data, nil
		}
	}
	return nil, errors.New("ocr: payload is not valid base64")
}

// Hash returns the hex SHA-256 of image bytes, the cache and dedup key.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DownloadImage fetches an image URL with a hard deadline and a byte
// ceiling. Oversized bodies abort instead of truncating.
func DownloadImage(ctx context.Context, url string, timeout time.Duration, maxBytes int64) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ocr: build download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr: download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocr: image download returned %d", resp.StatusCode)
	}
	if resp.ContentLength > maxBytes {
		return nil, ErrImageTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("ocr: read image body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrImageTooLarge
	}
	return data, nil
}
