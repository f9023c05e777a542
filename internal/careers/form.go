package careers

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/COSYNTRA/cosyntrafinal3/internal/observability"
)

type FormState string

const (
	FormIdle       FormState = "idle"
	FormSubmitting FormState = "submitting"
	FormSubmitted  FormState = "submitted"
)

type Applicant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Attachment is the uploaded CV. Content is read once, on submit.
type Attachment struct {
	Name    string
	Type    string
	Content io.Reader
}

// FormSnapshot is a read-only copy of the form for rendering.
type FormSnapshot struct {
	State         FormState `json:"state"`
	JobTitle      string    `json:"jobTitle,omitempty"`
	Applicant     Applicant `json:"applicant"`
	HasAttachment bool      `json:"hasAttachment"`
	Notice        string    `json:"notice,omitempty"`
}

type Result struct {
	Reference string
	JobTitle  string
	CVName    string
}

// Form is the application submitter for one applicant session.
// Only one submission may be in flight at a time.
type Form struct {
	sender ApplicationSender
	newRef func() string

	mu         sync.Mutex
	state      FormState
	jobTitle   string
	applicant  Applicant
	attachment *Attachment
	notice     string
}

func NewForm(sender ApplicationSender) *Form {
	return &Form{
		sender: sender,
		newRef: func() string { return uuid.NewString() },
		state:  FormIdle,
	}
}

// Select picks the position to apply for and resets the form to idle.
func (f *Form) Select(jobTitle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormSubmitting {
		return ErrSubmitInFlight
	}
	f.jobTitle = jobTitle
	f.state = FormIdle
	f.notice = ""
	return nil
}

func (f *Form) Fill(a Applicant) {
	f.mu.Lock()
	f.applicant = a
	f.mu.Unlock()
}

func (f *Form) Attach(a *Attachment) {
	f.mu.Lock()
	f.attachment = a
	f.mu.Unlock()
}

func (f *Form) Snapshot() FormSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormSnapshot{
		State:         f.state,
		JobTitle:      f.jobTitle,
		Applicant:     f.applicant,
		HasAttachment: f.attachment != nil && f.attachment.Content != nil,
		Notice:        f.notice,
	}
}

// Submit checks preconditions, encodes the attachment and hands the payload to
// the sender. Precondition failures never reach the network.
func (f *Form) Submit(ctx context.Context) (Result, error) {
	f.mu.Lock()
	if f.state == FormSubmitting {
		f.mu.Unlock()
		return Result{}, ErrSubmitInFlight
	}
	if f.jobTitle == "" {
		f.rejectLocked(ErrNoJobSelected, NoticeNoJobSelected)
		f.mu.Unlock()
		return Result{}, &SubmissionError{Kind: KindPrecondition, Notice: NoticeNoJobSelected, Err: ErrNoJobSelected}
	}
	if f.attachment == nil || f.attachment.Content == nil {
		f.rejectLocked(ErrMissingFile, NoticeMissingFile)
		f.mu.Unlock()
		return Result{}, &SubmissionError{Kind: KindPrecondition, Notice: NoticeMissingFile, Err: ErrMissingFile}
	}

	f.state = FormSubmitting
	f.notice = ""
	jobTitle, applicant, att := f.jobTitle, f.applicant, *f.attachment
	f.mu.Unlock()

	ref := f.newRef()
	logger := slog.With("reference", ref, "job_title", jobTitle)

	sub, err := f.encode(jobTitle, applicant, att)
	if err != nil {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.state = FormIdle
		f.notice = NoticeNetworkError
		observability.IncApplicationFailed()
		observability.IncError(observability.ErrorAttachment, "application")
		logger.Error("application attachment unreadable", "cv_name", att.Name, "error", err)
		return Result{}, &SubmissionError{Kind: KindAttachment, Notice: NoticeNetworkError, Err: err}
	}
	err = f.sender.Send(ctx, sub)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = FormIdle
		f.notice = NoticeNetworkError
		observability.IncApplicationFailed()
		observability.IncError(observability.ClassifyFetchError(err), "application")
		logger.Error("application submit failed", "error", err)
		return Result{}, &SubmissionError{Kind: KindTransport, Notice: NoticeNetworkError, Err: err}
	}

	f.state = FormSubmitted
	f.applicant = Applicant{}
	f.attachment = nil
	observability.IncApplicationSent()
	logger.Info("application submitted", "cv_name", att.Name)
	return Result{Reference: ref, JobTitle: jobTitle, CVName: att.Name}, nil
}

func (f *Form) encode(jobTitle string, applicant Applicant, att Attachment) (Submission, error) {
	data, err := io.ReadAll(att.Content)
	if err != nil {
		return Submission{}, errors.Wrap(err, "read attachment")
	}
	return NewSubmission(jobTitle, applicant, att.Name, att.Type, data), nil
}

func (f *Form) rejectLocked(err error, notice string) {
	f.state = FormIdle
	f.notice = notice
	observability.IncApplicationRejected()
	observability.IncError(observability.ErrorPrecondition, "application")
	slog.Warn("application rejected", "error", err)
}
