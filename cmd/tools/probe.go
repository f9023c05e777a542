package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/COSYNTRA/cosyntrafinal3/internal/careers"
	"github.com/COSYNTRA/cosyntrafinal3/internal/config"
	"github.com/COSYNTRA/cosyntrafinal3/internal/httpx"
)

func main() {
	conf, err := config.Load("config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	endpoint := flag.String("url", conf.Careers.ListingURL, "Job listing endpoint")
	timeout := flag.Duration("timeout", 15*time.Second, "Request timeout")
	flag.Parse()

	fetcher := httpx.NewCollyFetcher(conf.App.UserAgent).WithTimeout(*timeout)
	listing := careers.NewHTTPListing(*endpoint, fetcher)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	positions, err := listing.FetchPositions(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch positions: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(careers.BuildView(positions, true)); err != nil {
		log.Fatalf("Failed to encode view: %v", err)
	}

	log.Printf("Fetched %d positions", len(positions))
}
