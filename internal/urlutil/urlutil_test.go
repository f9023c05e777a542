package urlutil

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	got, err := Normalize("script.google.com/macros/s/abc/exec#frag")
	require.NoError(t, err)
	require.Equal(t, "https://script.google.com/macros/s/abc/exec", got)

	got, err = Normalize("http://LOCALHOST:8080/exec")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/exec", got)

	_, err = Normalize("   ")
	require.Error(t, err)
}

func TestWithCacheBuster(t *testing.T) {
	at := time.UnixMilli(1700000000123)

	got, err := WithCacheBuster("https://script.google.com/macros/s/abc/exec", at)
	require.NoError(t, err)
	require.Equal(t, "https://script.google.com/macros/s/abc/exec?t=1700000000123", got)
}

func TestWithCacheBuster_KeepsOtherParamsAndReplacesOldStamp(t *testing.T) {
	at := time.UnixMilli(42)

	got, err := WithCacheBuster("https://example.com/exec?sheet=jobs&t=1", at)
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	require.Equal(t, "jobs", u.Query().Get("sheet"))
	require.Equal(t, []string{"42"}, u.Query()["t"])
}

func TestHost(t *testing.T) {
	require.Equal(t, "script.google.com", Host("https://script.google.com/macros/s/abc/exec"))
	require.Equal(t, "", Host(""))
}
