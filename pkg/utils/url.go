package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
)

var ErrNotHTTPURL = errors.New("URL must be an absolute http or https URL")

// HashURL creates a SHA256 hash of a URL string.
// The hash doubles as the public clone ID and the cache key suffix.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (string, error) {
	relURL, err := url.Parse(relative)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(relURL).String(), nil
}

// HasHTTPScheme reports whether raw starts with an http:// or https:// prefix.
// The comparison ignores ASCII case.
func HasHTTPScheme(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ParseHTTPURL parses raw and requires an http(s) scheme and a host.
func ParseHTTPURL(raw string) (*url.URL, error) {
	if !HasHTTPScheme(raw) {
		return nil, ErrNotHTTPURL
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, ErrNotHTTPURL
	}
	return u, nil
}
