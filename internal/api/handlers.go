package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/COSYNTRA/cosyntrafinal3/internal/careers"
	"github.com/COSYNTRA/cosyntrafinal3/internal/contact"
	"github.com/COSYNTRA/cosyntrafinal3/internal/observability"
)

type ApplyRequest struct {
	JobTitle string
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"required"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `json:"message" validate:"required"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, observability.Snapshot())
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, s.listing.View())
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "Entity too large")
			return
		}
		respondError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := ApplyRequest{
		JobTitle: strings.TrimSpace(r.FormValue("jobTitle")),
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Phone:    strings.TrimSpace(r.FormValue("phone")),
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	var attachment *careers.Attachment
	file, header, err := r.FormFile("cv")
	switch {
	case err == nil:
		defer file.Close()
		attachment = &careers.Attachment{
			Name:    header.Filename,
			Type:    header.Header.Get("Content-Type"),
			Content: file,
		}
	case errors.Is(err, http.ErrMissingFile):
	default:
		respondError(w, http.StatusBadRequest, "Invalid CV upload")
		return
	}

	key := strings.ToLower(req.Email) + "|" + req.JobTitle
	if !s.acquire(key) {
		respondError(w, http.StatusConflict, careers.ErrSubmitInFlight.Error())
		return
	}
	defer s.release(key)

	form := careers.NewForm(s.sender)
	if err := form.Select(req.JobTitle); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	form.Fill(careers.Applicant{Name: req.Name, Email: req.Email, Phone: req.Phone})
	form.Attach(attachment)

	res, err := form.Submit(r.Context())
	if err != nil {
		var subErr *careers.SubmissionError
		switch {
		case errors.Is(err, careers.ErrSubmitInFlight):
			respondError(w, http.StatusConflict, err.Error())
		case errors.As(err, &subErr) && (subErr.Kind == careers.KindPrecondition || subErr.Kind == careers.KindAttachment):
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"error":  subErr.Notice,
				"notice": subErr.Notice,
				"state":  string(careers.FormIdle),
			})
		default:
			respondJSON(w, http.StatusBadGateway, map[string]string{
				"error":  careers.NoticeNetworkError,
				"notice": careers.NoticeNetworkError,
				"state":  string(careers.FormIdle),
			})
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"state":     string(careers.FormSubmitted),
		"reference": res.Reference,
		"jobTitle":  res.JobTitle,
	})
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	relay := contact.NewRelay(s.mailer)
	if err := relay.Send(r.Context(), contact.Message(req)); err != nil {
		respondJSON(w, http.StatusBadGateway, map[string]string{
			"error":  relay.Notice(),
			"notice": relay.Notice(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"state": string(relay.State())})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	default:
		return field + " is invalid"
	}
}
