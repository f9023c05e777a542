package careers

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataURI_DeclaredType(t *testing.T) {
	got := DataURI("application/pdf", []byte("abc"))
	require.Equal(t, "data:application/pdf;base64,YWJj", got)
}

func TestDataURI_SniffsMissingType(t *testing.T) {
	pdf := []byte("%PDF-1.7\n%âãÏÓ\n1 0 obj\n")
	got := DataURI("", pdf)
	require.Equal(t, "data:application/pdf;base64,"+base64.StdEncoding.EncodeToString(pdf), got)

	got = DataURI("  ", []byte("plain words"))
	require.Equal(t, "data:text/plain;base64,"+base64.StdEncoding.EncodeToString([]byte("plain words")), got)
}

func TestNewSubmission_KeepsDeclaredTypeVerbatim(t *testing.T) {
	sub := NewSubmission("Engineer", applicant, "resume.docx", "", []byte("PK\x03\x04"))
	require.Equal(t, "Engineer", sub.JobTitle)
	require.Equal(t, "resume.docx", sub.CVName)
	require.Empty(t, sub.CVType)
	require.Contains(t, sub.CV, ";base64,")
}
