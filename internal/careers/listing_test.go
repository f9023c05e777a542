package careers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/COSYNTRA/cosyntrafinal3/internal/httpx"
)

type capturedRequest struct {
	path   string
	query  url.Values
	header http.Header
}

func newListingServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	last := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last.path = r.URL.Path
		last.query = r.URL.Query()
		last.header = r.Header.Clone()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, last
}

func testFetcher() *httpx.CollyFetcher {
	f := httpx.NewCollyFetcher("careers-test")
	f.SetHostLimit("127.0.0.1", time.Millisecond, 100)
	return f
}

func TestHTTPListing_FetchesWithCacheBuster(t *testing.T) {
	srv, last := newListingServer(t, http.StatusOK,
		`[{"Title":"Engineer","Department":"Eng","Location":"Remote","Type":"Full-time","Experience":"2+ yrs","Description":"Build stuff","Requirements":["Go","SQL"]}]`)

	listing := NewHTTPListing(srv.URL+"/exec", testFetcher())
	listing.now = func() time.Time { return time.UnixMilli(1700000000000) }

	positions, err := listing.FetchPositions(context.Background())
	require.NoError(t, err)
	require.Equal(t, []JobPosition{engineer}, positions)

	require.Equal(t, "/exec", last.path)
	require.Equal(t, "1700000000000", last.query.Get("t"))
	require.Equal(t, "no-store", last.header.Get("Cache-Control"))
}

func TestHTTPListing_StatusFailure(t *testing.T) {
	srv, _ := newListingServer(t, http.StatusServiceUnavailable, "")

	_, err := NewHTTPListing(srv.URL, testFetcher()).FetchPositions(context.Background())
	require.Error(t, err)

	var fe *httpx.FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, http.StatusServiceUnavailable, fe.Status)
}

func TestHTTPListing_ParseFailure(t *testing.T) {
	srv, _ := newListingServer(t, http.StatusOK, `<html><title>Sign in</title></html>`)

	_, err := NewHTTPListing(srv.URL, testFetcher()).FetchPositions(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "Sign in")
}

func TestHTTPListing_DrivesLoader(t *testing.T) {
	srv, _ := newListingServer(t, http.StatusOK, `[]`)

	l := NewLoader(NewHTTPListing(srv.URL, testFetcher()), time.Hour)
	l.Start(context.Background())
	defer l.Stop()

	require.Eventually(t, l.Loaded, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, ListingEmpty, l.View().State)
}
