package careers

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoJobSelected  = errors.New("no position selected")
	ErrMissingFile    = errors.New("no CV attached")
	ErrSubmitInFlight = errors.New("an application is already being sent")
)

const (
	NoticeNoJobSelected = "Please choose a position to apply for."
	NoticeMissingFile   = "Please upload your CV."
	NoticeNetworkError  = "Network error. Please try again."
)

type ErrorKind string

const (
	KindPrecondition ErrorKind = "precondition"
	KindTransport    ErrorKind = "transport"
	KindAttachment   ErrorKind = "attachment"
)

// SubmissionError carries the user-facing notice alongside the cause.
type SubmissionError struct {
	Kind   ErrorKind
	Notice string
	Err    error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission %s error: %v", e.Kind, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
