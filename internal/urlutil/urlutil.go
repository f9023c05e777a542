package urlutil

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CacheBusterParam is the query key carrying the request timestamp.
const CacheBusterParam = "t"

// Normalize parses an endpoint, defaulting to https and dropping the fragment.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" {
		u, err = url.Parse("https://" + raw)
		if err != nil {
			return "", err
		}
	}
	if u.Host == "" {
		return "", errors.New("url has no host: " + raw)
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	return u.String(), nil
}

// WithCacheBuster appends t=<unix millis> so intermediaries never serve a stale listing.
// An existing t value is replaced; other query values are kept.
func WithCacheBuster(raw string, at time.Time) (string, error) {
	normalized, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(CacheBusterParam, strconv.FormatInt(at.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Host returns the lower-cased hostname of raw, or "" if it cannot be parsed.
func Host(raw string) string {
	normalized, err := Normalize(raw)
	if err != nil {
		return ""
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
