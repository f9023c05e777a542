package careers

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/COSYNTRA/cosyntrafinal3/internal/urlutil"
)

// ListingSource yields the current set of open positions.
type ListingSource interface {
	FetchPositions(ctx context.Context) ([]JobPosition, error)
}

// Fetcher is satisfied by *httpx.CollyFetcher.
type Fetcher interface {
	FetchBytes(ctx context.Context, rawURL string, header http.Header) ([]byte, int, error)
}

// HTTPListing reads positions from the hosted listing script.
type HTTPListing struct {
	endpoint string
	fetcher  Fetcher
	now      func() time.Time
}

func NewHTTPListing(endpoint string, fetcher Fetcher) *HTTPListing {
	return &HTTPListing{
		endpoint: endpoint,
		fetcher:  fetcher,
		now:      time.Now,
	}
}

func (l *HTTPListing) FetchPositions(ctx context.Context) ([]JobPosition, error) {
	target, err := urlutil.WithCacheBuster(l.endpoint, l.now())
	if err != nil {
		return nil, errors.Wrap(err, "listing url")
	}

	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set("Cache-Control", "no-store")

	body, _, err := l.fetcher.FetchBytes(ctx, target, header)
	if err != nil {
		return nil, errors.Wrap(err, "listing fetch failed")
	}
	return DecodePositions(body)
}
