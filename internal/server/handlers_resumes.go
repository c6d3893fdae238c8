package server

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/rezoom/internal/pdfservice"
	"github.com/jonathan/rezoom/internal/rendering"
	"github.com/jonathan/rezoom/internal/types"
)

// CreateResumeRequest is the body of POST /resumes. Both fields are optional.
type CreateResumeRequest struct {
	Title    string `json:"title" validate:"max=200"`
	Template string `json:"template"`
}

// ResumeListItem omits the document body
type ResumeListItem struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Template  string    `json:"template"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	resumes, err := s.store.ListResumes(r.Context(), userID)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	items := make([]ResumeListItem, 0, len(resumes))
	for _, res := range resumes {
		items = append(items, ResumeListItem{
			ID:        res.ID,
			Title:     res.Title,
			Template:  res.Template,
			CreatedAt: res.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			UpdatedAt: res.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resumes": items,
		"count":   len(items),
	})
}

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req CreateResumeRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req, maxAuthBody); err != nil {
			s.failure(w, r, &ErrValidation{Field: "body", Message: "invalid JSON"})
			return
		}
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := requestValidator.Struct(&req); err != nil {
		s.failure(w, r, validationError(err))
		return
	}

	templateID, err := rendering.ResolveTemplate(req.Template)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	profile, err := s.store.LoadProfile(r.Context(), userID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	content, err := rendering.RenderResume(profile, templateID)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	resume := &types.Resume{
		UserID:   userID,
		Title:    req.Title,
		Content:  content,
		Template: templateID,
	}
	if resume.Title == "" {
		resume.Title = "Resume"
		if name := strings.TrimSpace(profile.User.Name); name != "" {
			resume.Title = name + " Resume"
		}
	}
	if err := s.store.CreateResume(r.Context(), resume); err != nil {
		s.failure(w, r, err)
		return
	}

	s.logger.Info("resume created",
		zap.String("user_id", userID.String()),
		zap.String("resume_id", resume.ID.String()),
		zap.String("template", templateID))
	s.jsonResponse(w, http.StatusCreated, resume)
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	resume, ok := s.loadResume(w, r, userID)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, err := pathID(r, "id")
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if err := s.store.DeleteResume(r.Context(), userID, id); err != nil {
		s.failure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResumeTex(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	resume, ok := s.loadResume(w, r, userID)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/x-tex; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(resume.Title, "tex"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(resume.Content))
}

// handleResumePDF renders the resume's template as HTML from the current profile
// and has the PDF service print it
func (s *Server) handleResumePDF(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	resume, ok := s.loadResume(w, r, userID)
	if !ok {
		return
	}
	if s.pdf == nil {
		s.failure(w, r, &pdfservice.Error{Message: "no PDF service configured"})
		return
	}

	profile, err := s.store.LoadProfile(r.Context(), userID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	html, err := rendering.RenderHTML(profile, resume.Template)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	pdf, err := s.pdf.Render(r.Context(), html, pdfservice.DefaultPrintOptions())
	if err != nil {
		s.failure(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment(resume.Title, "pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (s *Server) loadResume(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*types.Resume, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		s.failure(w, r, err)
		return nil, false
	}
	resume, err := s.store.GetResume(r.Context(), userID, id)
	if err != nil {
		s.failure(w, r, err)
		return nil, false
	}
	return resume, true
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func attachment(title, ext string) string {
	name := strings.Trim(unsafeFilename.ReplaceAllString(title, "_"), "_.")
	if name == "" {
		name = "resume"
	}
	return fmt.Sprintf("attachment; filename=%q", name+"."+ext)
}
