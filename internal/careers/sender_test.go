package careers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/COSYNTRA/cosyntrafinal3/internal/httpx"
)

func TestScriptSender_PostsJSON(t *testing.T) {
	var got map[string]string
	var contentType, method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = w.Write([]byte(`{"result":"success"}`))
	}))
	defer srv.Close()

	sub := NewSubmission("Engineer", applicant, "resume.pdf", "application/pdf", []byte("%PDF"))
	err := NewScriptSender(srv.URL, nil).Send(context.Background(), sub)
	require.NoError(t, err)

	require.Equal(t, http.MethodPost, method)
	require.Equal(t, "application/json", contentType)
	require.Equal(t, "Engineer", got["jobTitle"])
	require.Equal(t, "resume.pdf", got["cvName"])
	require.Equal(t, "application/pdf", got["cvType"])
	require.Equal(t, "Ada Lovelace", got["name"])
	require.Equal(t, "ada@example.com", got["email"])
	require.Equal(t, "+44 20 0000 0000", got["phone"])
	require.Equal(t, "data:application/pdf;base64,JVBERg==", got["cv"])
}

func TestScriptSender_RejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewScriptSender(srv.URL, nil).Send(context.Background(), Submission{})
	require.Error(t, err)

	var fe *httpx.FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, http.StatusBadRequest, fe.Status)
}

func TestScriptSender_OpaqueIgnoresStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewScriptSender(srv.URL, nil).WithOpaque(true).Send(context.Background(), Submission{})
	require.NoError(t, err)
}

func TestScriptSender_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewScriptSender(url, nil).WithOpaque(true).Send(context.Background(), Submission{})
	require.Error(t, err)
}
