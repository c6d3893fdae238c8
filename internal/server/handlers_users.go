package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/rezoom/internal/types"
)

// UpdateUserRequest replaces the contact fields of the signed-in account.
// Absent fields are cleared, except name which must be present.
type UpdateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Phone    string `json:"phone" validate:"max=50"`
	Location string `json:"location" validate:"max=200"`
	Headline string `json:"headline" validate:"max=300"`
	LinkedIn string `json:"linkedin" validate:"omitempty,http_url"`
	GitHub   string `json:"github" validate:"omitempty,http_url"`
	Website  string `json:"website" validate:"omitempty,http_url"`
}

func (req *UpdateUserRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Location = strings.TrimSpace(req.Location)
	req.Headline = strings.TrimSpace(req.Headline)
	req.LinkedIn = strings.TrimSpace(req.LinkedIn)
	req.GitHub = strings.TrimSpace(req.GitHub)
	req.Website = strings.TrimSpace(req.Website)
}

func (req *UpdateUserRequest) apply(u *types.User) {
	u.Name = req.Name
	u.Phone = req.Phone
	u.Location = req.Location
	u.Headline = req.Headline
	u.LinkedIn = req.LinkedIn
	u.GitHub = req.GitHub
	u.Website = req.Website
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	user, err := s.userService.GetUser(r.Context(), userID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, user)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req UpdateUserRequest
	if err := decodeJSON(w, r, &req, maxAuthBody); err != nil {
		s.failure(w, r, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	req.normalize()
	if err := requestValidator.Struct(&req); err != nil {
		s.failure(w, r, validationError(err))
		return
	}

	user, err := s.userService.UpdateContact(r.Context(), userID, &req)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, user)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	profile, err := s.store.LoadProfile(r.Context(), userID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}
