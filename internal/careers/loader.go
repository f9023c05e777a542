package careers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/COSYNTRA/cosyntrafinal3/internal/observability"
)

const DefaultPollInterval = 10 * time.Second

// Loader keeps the open-positions list fresh by polling a ListingSource.
// The list always equals the last successful fetch; failures are logged and
// leave it untouched.
type Loader struct {
	source   ListingSource
	interval time.Duration
	timeout  time.Duration

	mu        sync.RWMutex
	positions []JobPosition
	loaded    bool

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewLoader(source ListingSource, interval time.Duration) *Loader {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Loader{
		source:   source,
		interval: interval,
		timeout:  interval,
	}
}

// WithTimeout bounds a single poll. It defaults to the poll interval.
func (l *Loader) WithTimeout(d time.Duration) *Loader {
	if d > 0 {
		l.timeout = d
	}
	return l
}

// Start fetches immediately and then on every interval until Stop is called
// or ctx is done. Calling Start on a running loader does nothing.
func (l *Loader) Start(ctx context.Context) {
	l.runMu.Lock()
	defer l.runMu.Unlock()
	if l.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done

	go func() {
		defer close(done)
		l.pollLoop(loopCtx)
	}()
}

// Stop cancels polling and waits for the loop to exit. No state is written
// after Stop returns.
func (l *Loader) Stop() {
	l.runMu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (l *Loader) pollLoop(ctx context.Context) {
	l.pollOnce(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.pollOnce(ctx)
		}
	}
}

func (l *Loader) pollOnce(ctx context.Context) {
	pollCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	positions, err := l.source.FetchPositions(pollCtx)
	elapsed := time.Since(start).Seconds()

	if ctx.Err() != nil {
		// torn down while the request was in flight
		return
	}
	if err != nil {
		observability.ObservePoll(elapsed, false, 0)
		observability.IncError(observability.ClassifyFetchError(err), "listing")
		slog.Warn("listing poll failed", "error", err)
		return
	}
	observability.ObservePoll(elapsed, true, len(positions))

	l.mu.Lock()
	l.positions = clonePositions(positions)
	l.loaded = true
	l.mu.Unlock()
}

// Positions returns a copy of the current list.
func (l *Loader) Positions() []JobPosition {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clonePositions(l.positions)
}

// Loaded reports whether at least one fetch has succeeded.
func (l *Loader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

func (l *Loader) View() ListingView {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return BuildView(l.positions, l.loaded)
}
