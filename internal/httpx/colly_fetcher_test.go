package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestFetcher() *CollyFetcher {
	f := NewCollyFetcher("test-agent")
	f.SetHostLimit("127.0.0.1", time.Millisecond, 100)
	return f
}

func TestFetchBytes_ReturnsBodyAndForwardsHeaders(t *testing.T) {
	var gotUA, gotCache string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCache = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"Title":"Engineer"}]`))
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("Cache-Control", "no-store")

	body, status, err := newTestFetcher().FetchBytes(context.Background(), srv.URL+"/exec?t=1", header)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, `[{"Title":"Engineer"}]`, string(body))
	require.Equal(t, "test-agent", gotUA)
	require.Equal(t, "no-store", gotCache)
}

func TestFetchBytes_ServerErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, status, err := newTestFetcher().FetchBytes(context.Background(), srv.URL, nil)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, http.StatusInternalServerError, fe.Status)
	require.Equal(t, http.StatusInternalServerError, status)
}

func TestFetchBytes_SameURLCanBeFetchedTwice(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f := newTestFetcher()
	for i := 0; i < 2; i++ {
		_, _, err := f.FetchBytes(context.Background(), srv.URL, nil)
		require.NoError(t, err)
	}
	require.Equal(t, 2, hits)
}

func TestFetchBytes_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, _, err := newTestFetcher().FetchBytes(context.Background(), url, nil)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
}

func TestFetchBytes_EmptyURL(t *testing.T) {
	_, _, err := newTestFetcher().FetchBytes(context.Background(), "", nil)
	require.Error(t, err)
}

func TestHostKey(t *testing.T) {
	require.Equal(t, "script.google.com", hostKey("https://WWW.Script.Google.com:443/macros/s/abc/exec"))
	require.Equal(t, "127.0.0.1", hostKey("http://127.0.0.1:8080/jobs"))
	require.Equal(t, "default", hostKey(""))
}
