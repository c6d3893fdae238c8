package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/rezoom/internal/agent"
	"github.com/jonathan/rezoom/internal/config"
	"github.com/jonathan/rezoom/internal/db"
	"github.com/jonathan/rezoom/internal/extraction"
	"github.com/jonathan/rezoom/internal/ingestion"
	"github.com/jonathan/rezoom/internal/pdfservice"
	"github.com/jonathan/rezoom/internal/rendering"
)

func TestErrorMessages(t *testing.T) {
	userID := uuid.New()
	assert.Equal(t, "email already registered: test@example.com", (&ErrEmailAlreadyExists{Email: "test@example.com"}).Error())
	assert.Equal(t, "invalid email or password", (&ErrInvalidCredentials{}).Error())
	assert.Equal(t, "user not found: "+userID.String(), (&ErrUserNotFound{UserID: userID}).Error())
	assert.Equal(t, "current password is incorrect", (&ErrPasswordMismatch{}).Error())
	assert.Equal(t, "validation error: email - invalid format", (&ErrValidation{Field: "email", Message: "invalid format"}).Error())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"email exists", &ErrEmailAlreadyExists{Email: "a@b.c"}, http.StatusConflict, "email_exists"},
		{"bad credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized, "invalid_credentials"},
		{"password mismatch", &ErrPasswordMismatch{}, http.StatusUnauthorized, "invalid_credentials"},
		{"user not found", &ErrUserNotFound{UserID: uuid.New()}, http.StatusNotFound, "not_found"},
		{"store not found", fmt.Errorf("get resume: %w", db.ErrNotFound), http.StatusNotFound, "not_found"},
		{"validation", &ErrValidation{Field: "password", Message: "too short"}, http.StatusBadRequest, "validation_error"},
		{"password too long", config.ErrPasswordTooLong, http.StatusBadRequest, "validation_error"},
		{"too large", ingestion.ErrTooLarge, http.StatusRequestEntityTooLarge, "file_too_large"},
		{"not pdf", ingestion.ErrNotPDF, http.StatusBadRequest, "invalid_file"},
		{"unreadable pdf", fmt.Errorf("extract: %w", ingestion.ErrUnreadablePDF), http.StatusBadRequest, "invalid_file"},
		{"empty", ingestion.ErrEmptyDocument, http.StatusBadRequest, "invalid_file"},
		{"no text", ingestion.ErrNoText, http.StatusBadRequest, "no_text"},
		{"parse", &extraction.ParseError{Message: "bad"}, http.StatusBadRequest, "extraction_parse_error"},
		{"extraction model", &extraction.ModelUnavailableError{Message: "down"}, http.StatusInternalServerError, "model_unavailable"},
		{"agent model", &agent.ModelUnavailableError{Message: "down"}, http.StatusInternalServerError, "model_unavailable"},
		{"agent input", &agent.InputError{Message: "no messages"}, http.StatusBadRequest, "invalid_request"},
		{"template", &rendering.TemplateError{Message: "unknown template"}, http.StatusBadRequest, "invalid_template"},
		{"render", &rendering.RenderError{Message: "nil profile"}, http.StatusInternalServerError, "render_failed"},
		{"pdf", &pdfservice.Error{Message: "status 500"}, http.StatusBadGateway, "pdf_generation_failed"},
		{"unknown", assert.AnError, http.StatusInternalServerError, "internal_error"},
		{"nil", nil, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.code, got.Code)
			assert.NotEmpty(t, got.Message)
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestClassify_HidesInternalDetail(t *testing.T) {
	err := fmt.Errorf("pgx: connection refused to 10.0.0.5: %w", assert.AnError)
	got := classify(err)
	assert.NotContains(t, got.Message, "10.0.0.5")

	pdfErr := &pdfservice.Error{Message: "status 500", Cause: fmt.Errorf("secret upstream detail")}
	assert.Equal(t, "PDF generation failed", classify(pdfErr).Message)
}
