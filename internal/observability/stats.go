package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	ListingPolls          uint64            `json:"listing_polls"`
	ListingFailures       uint64            `json:"listing_failures"`
	PositionsLoaded       uint64            `json:"positions_loaded"`
	PollSecondsAvg        float64           `json:"poll_seconds_avg"`
	ApplicationsSent      uint64            `json:"applications_sent"`
	ApplicationsRejected  uint64            `json:"applications_rejected"`
	ApplicationsFailed    uint64            `json:"applications_failed"`
	ContactMessagesSent   uint64            `json:"contact_messages_sent"`
	ContactMessagesFailed uint64            `json:"contact_messages_failed"`
	ErrorsTotal           uint64            `json:"errors_total"`
	ErrorsByType          map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent     map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	listingPolls          uint64
	listingFailures       uint64
	positionsLoaded       uint64
	applicationsSent      uint64
	applicationsRejected  uint64
	applicationsFailed    uint64
	contactMessagesSent   uint64
	contactMessagesFailed uint64
	errorsTotal           uint64

	pollCount uint64
	pollNanos uint64

	statsMu           sync.Mutex
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
)

// ObservePoll records one listing poll. positions is only meaningful when ok is true.
func ObservePoll(seconds float64, ok bool, positions int) {
	atomic.AddUint64(&listingPolls, 1)
	if seconds > 0 {
		atomic.AddUint64(&pollCount, 1)
		atomic.AddUint64(&pollNanos, uint64(seconds*1e9))
	}
	if !ok {
		atomic.AddUint64(&listingFailures, 1)
		return
	}
	if positions < 0 {
		positions = 0
	}
	atomic.StoreUint64(&positionsLoaded, uint64(positions))
}

func IncApplicationSent() {
	atomic.AddUint64(&applicationsSent, 1)
}

// IncApplicationRejected counts submissions stopped before any network call.
func IncApplicationRejected() {
	atomic.AddUint64(&applicationsRejected, 1)
}

func IncApplicationFailed() {
	atomic.AddUint64(&applicationsFailed, 1)
}

func IncContactSent() {
	atomic.AddUint64(&contactMessagesSent, 1)
}

func IncContactFailed() {
	atomic.AddUint64(&contactMessagesFailed, 1)
}

func IncError(errType, component string) {
	if errType == "" {
		errType = "unknown"
	}
	if component == "" {
		component = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	count := atomic.LoadUint64(&pollCount)
	avg := 0.0
	if count > 0 {
		avg = float64(atomic.LoadUint64(&pollNanos)) / float64(count) / 1e9
	}

	return StatsSnapshot{
		ListingPolls:          atomic.LoadUint64(&listingPolls),
		ListingFailures:       atomic.LoadUint64(&listingFailures),
		PositionsLoaded:       atomic.LoadUint64(&positionsLoaded),
		PollSecondsAvg:        avg,
		ApplicationsSent:      atomic.LoadUint64(&applicationsSent),
		ApplicationsRejected:  atomic.LoadUint64(&applicationsRejected),
		ApplicationsFailed:    atomic.LoadUint64(&applicationsFailed),
		ContactMessagesSent:   atomic.LoadUint64(&contactMessagesSent),
		ContactMessagesFailed: atomic.LoadUint64(&contactMessagesFailed),
		ErrorsTotal:           atomic.LoadUint64(&errorsTotal),
		ErrorsByType:          errorsTypeCopy,
		ErrorsByComponent:     errorsComponentCopy,
	}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
