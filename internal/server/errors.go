package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/rezoom/internal/agent"
	"github.com/jonathan/rezoom/internal/config"
	"github.com/jonathan/rezoom/internal/db"
	"github.com/jonathan/rezoom/internal/extraction"
	"github.com/jonathan/rezoom/internal/ingestion"
	"github.com/jonathan/rezoom/internal/pdfservice"
	"github.com/jonathan/rezoom/internal/rendering"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// apiError is the classification of an error at the HTTP boundary
type apiError struct {
	Status  int
	Code    string
	Message string
}

// classify maps internal errors onto a status, a stable code and a message that
// is safe to show. Server-side failures never expose the underlying error text.
func classify(err error) apiError {
	var (
		emailExists  *ErrEmailAlreadyExists
		badCreds     *ErrInvalidCredentials
		mismatch     *ErrPasswordMismatch
		userNotFound *ErrUserNotFound
		validation   *ErrValidation
		parseErr     *extraction.ParseError
		extractModel *extraction.ModelUnavailableError
		agentInput   *agent.InputError
		agentModel   *agent.ModelUnavailableError
		templateErr  *rendering.TemplateError
		renderErr    *rendering.RenderError
		pdfErr       *pdfservice.Error
	)

	switch {
	case errors.As(err, &emailExists):
		return apiError{http.StatusConflict, "email_exists", err.Error()}
	case errors.As(err, &badCreds), errors.As(err, &mismatch):
		return apiError{http.StatusUnauthorized, "invalid_credentials", err.Error()}
	case errors.As(err, &userNotFound), errors.Is(err, db.ErrNotFound):
		return apiError{http.StatusNotFound, "not_found", "Resource not found"}
	case errors.As(err, &validation):
		return apiError{http.StatusBadRequest, "validation_error", err.Error()}
	case errors.Is(err, config.ErrPasswordTooLong):
		return apiError{http.StatusBadRequest, "validation_error", "password is too long"}
	case errors.Is(err, ingestion.ErrTooLarge):
		return apiError{http.StatusRequestEntityTooLarge, "file_too_large", "The file exceeds the 10MB limit"}
	case errors.Is(err, ingestion.ErrNotPDF):
		return apiError{http.StatusBadRequest, "invalid_file", "Only PDF files are accepted"}
	case errors.Is(err, ingestion.ErrUnreadablePDF):
		return apiError{http.StatusBadRequest, "invalid_file", "The PDF could not be read"}
	case errors.Is(err, ingestion.ErrEmptyDocument):
		return apiError{http.StatusBadRequest, "invalid_file", "The uploaded file is empty"}
	case errors.Is(err, ingestion.ErrNoText):
		return apiError{http.StatusBadRequest, "no_text", "No text could be extracted from the PDF"}
	case errors.As(err, &parseErr):
		return apiError{http.StatusBadRequest, "extraction_parse_error", "The resume could not be read into profile fields"}
	case errors.As(err, &extractModel), errors.As(err, &agentModel):
		return apiError{http.StatusInternalServerError, "model_unavailable", "The assistant is temporarily unavailable"}
	case errors.As(err, &agentInput):
		return apiError{http.StatusBadRequest, "invalid_request", err.Error()}
	case errors.As(err, &templateErr):
		return apiError{http.StatusBadRequest, "invalid_template", err.Error()}
	case errors.As(err, &renderErr):
		return apiError{http.StatusInternalServerError, "render_failed", "The resume could not be rendered"}
	case errors.As(err, &pdfErr):
		return apiError{http.StatusBadGateway, "pdf_generation_failed", "PDF generation failed"}
	default:
		return apiError{http.StatusInternalServerError, "internal_error", "An unexpected error occurred"}
	}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	return classify(err).Status
}
