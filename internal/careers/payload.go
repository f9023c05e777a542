package careers

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Submission is the JSON body written to the application endpoint.
type Submission struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	JobTitle string `json:"jobTitle"`
	CV       string `json:"cv"`
	CVName   string `json:"cvName"`
	CVType   string `json:"cvType"`
}

// NewSubmission assembles the payload, encoding data as a base64 data URI.
// cvType keeps the declared type as given, even when empty.
func NewSubmission(jobTitle string, applicant Applicant, fileName, declaredType string, data []byte) Submission {
	return Submission{
		Name:     applicant.Name,
		Email:    applicant.Email,
		Phone:    applicant.Phone,
		JobTitle: jobTitle,
		CV:       DataURI(declaredType, data),
		CVName:   fileName,
		CVType:   declaredType,
	}
}

// DataURI renders data as data:<type>;base64,<payload>. An empty media type is
// sniffed from the content.
func DataURI(mediaType string, data []byte) string {
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		mediaType = mimetype.Detect(data).String()
	}
	if base, _, ok := strings.Cut(mediaType, ";"); ok {
		mediaType = strings.TrimSpace(base)
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
