package contact

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/COSYNTRA/cosyntrafinal3/internal/observability"
)

var (
	ErrSendInFlight  = errors.New("a message is already being sent")
	ErrNotConfigured = errors.New("mail delivery is not configured")
)

const NoticeSendFailed = "Something went wrong. Please try again later."

// Message is what a visitor submits from the contact page.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `json:"message"`
}

// Sender delivers a message to the company inbox.
type Sender interface {
	Deliver(ctx context.Context, m Message) error
}

type State string

const (
	StateIdle    State = "idle"
	StateSending State = "sending"
	StateSent    State = "sent"
)

// Relay tracks one contact form submission.
type Relay struct {
	sender Sender

	mu     sync.Mutex
	state  State
	notice string
}

func NewRelay(sender Sender) *Relay {
	return &Relay{sender: sender, state: StateIdle}
}

func (r *Relay) Send(ctx context.Context, m Message) error {
	r.mu.Lock()
	if r.state == StateSending {
		r.mu.Unlock()
		return ErrSendInFlight
	}
	r.state = StateSending
	r.notice = ""
	r.mu.Unlock()

	err := r.sender.Deliver(ctx, m)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.state = StateIdle
		r.notice = NoticeSendFailed
		observability.IncContactFailed()
		observability.IncError(observability.ClassifyFetchError(err), "contact")
		slog.Error("contact message failed", "error", err, "email", m.Email)
		return errors.Wrap(err, "deliver contact message")
	}
	r.state = StateSent
	observability.IncContactSent()
	slog.Info("contact message sent", "email", m.Email)
	return nil
}

func (r *Relay) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Relay) Notice() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notice
}
