package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/rezoom/internal/agent"
	"github.com/jonathan/rezoom/internal/ingestion"
	"github.com/jonathan/rezoom/internal/types"
)

// maxChatBody bounds a chat request including its transcript
const maxChatBody = 1 << 20

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Messages []types.Message          `json:"messages"`
	State    *types.ConversationState `json:"state,omitempty"`
}

// ChatResponse is the body of a POST /chat answer
type ChatResponse struct {
	Reply      types.Message           `json:"reply"`
	State      types.ConversationState `json:"state"`
	Operations []types.Operation       `json:"operations"`
	Error      string                  `json:"error,omitempty"`
	Message    string                  `json:"message,omitempty"`
}

// UploadResponse is the body of a successful resume upload. State is the update
// to merge into the conversation: the extracted data and the scraping step.
type UploadResponse struct {
	Message     string                  `json:"message"`
	Summary     types.ExtractionSummary `json:"summary"`
	ScrapedData *types.ExtractionResult `json:"scrapedData"`
	State       types.StateUpdate       `json:"state"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req ChatRequest
	if err := decodeJSON(w, r, &req, maxChatBody); err != nil {
		s.failure(w, r, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}

	var state types.ConversationState
	if req.State != nil {
		state = *req.State
	}
	state.Messages = req.Messages
	// Identity only ever comes from the token
	state.UserID = userID

	result, err := s.agent.Run(r.Context(), userID, state)
	if err != nil {
		var modelErr *agent.ModelUnavailableError
		if errors.As(err, &modelErr) && result != nil {
			e := classify(err)
			s.logger.Error("chat turn failed", zap.String("user_id", userID.String()), zap.Error(err))
			s.jsonResponse(w, e.Status, ChatResponse{
				Reply:      result.Reply,
				State:      result.State,
				Operations: deriveOperations(state, result),
				Error:      e.Code,
				Message:    e.Message,
			})
			return
		}
		s.failure(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ChatResponse{
		Reply:      result.Reply,
		State:      result.State,
		Operations: deriveOperations(state, result),
	})
}

// entityOps maps record-creating tools to the operation they announce
var entityOps = []struct {
	entity string
	tool   string
}{
	{"experience", "create_experience"},
	{"project", "create_project"},
	{"skill", "create_skill"},
}

// deriveOperations builds client notifications for a turn. Tool results are the
// primary source; reply keywords only fill in entity notices no tool reported.
func deriveOperations(before types.ConversationState, result *agent.Result) []types.Operation {
	ops := []types.Operation{}
	seen := map[string]bool{}
	add := func(op types.Operation) {
		if !seen[op.Type] {
			seen[op.Type] = true
			ops = append(ops, op)
		}
	}

	if id := result.State.ResumeID; id != nil && (before.ResumeID == nil || *before.ResumeID != *id) {
		add(types.Operation{
			Type:    "resume_created",
			Message: "Your resume is ready",
			Link:    "/resumes/" + id.String(),
		})
	}

	for _, inv := range result.Invocations {
		if !inv.OK {
			continue
		}
		for _, e := range entityOps {
			if inv.Name == e.tool {
				add(entityOperation(e.entity))
			}
		}
	}

	reply := strings.ToLower(result.Reply.Content)
	if strings.Contains(reply, "added") || strings.Contains(reply, "created") {
		for _, e := range entityOps {
			if strings.Contains(reply, e.entity) {
				add(entityOperation(e.entity))
			}
		}
	}
	return ops
}

func entityOperation(entity string) types.Operation {
	return types.Operation{
		Type:    entity + "_added",
		Message: fmt.Sprintf("%s%s added to your profile", strings.ToUpper(entity[:1]), entity[1:]),
	}
}

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	data, filename, err := readUpload(w, r, "resume")
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if !ingestion.IsPDF(filename, data) {
		s.failure(w, r, ingestion.ErrNotPDF)
		return
	}

	doc, err := ingestion.ExtractPDFText(data)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	log := s.logger.With(zap.String("user_id", userID.String()))
	log.Info("resume uploaded", ingestion.DescribeDocument(filename, doc, len(data)).LogFields()...)

	result, err := s.extractor.Extract(r.Context(), doc.Text)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	summary, err := s.persister.Persist(r.Context(), userID, result)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	log.Info("resume imported", zap.Int("records", summary.Total()))

	s.jsonResponse(w, http.StatusOK, UploadResponse{
		Message:     uploadMessage(summary),
		Summary:     summary,
		ScrapedData: result,
		State: types.StateUpdate{
			ScrapedData: result,
			CurrentStep: types.StepPtr(types.StepScraping),
		},
	})
}

// readUpload returns the bytes and name of a multipart file field
func readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, string, error) {
	// Leave room for the multipart envelope around the file
	r.Body = http.MaxBytesReader(w, r.Body, ingestion.MaxUploadBytes+64<<10)
	if err := r.ParseMultipartForm(ingestion.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", ingestion.ErrTooLarge
		}
		return nil, "", &ErrValidation{Field: field, Message: "expected a multipart form"}
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", &ErrValidation{Field: field, Message: "file is required"}
	}
	defer file.Close()

	if header.Size > ingestion.MaxUploadBytes {
		return nil, "", ingestion.ErrTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(file, ingestion.MaxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > ingestion.MaxUploadBytes {
		return nil, "", ingestion.ErrTooLarge
	}
	return data, header.Filename, nil
}

// uploadMessage renders the summary as a sentence for the chat transcript
func uploadMessage(s types.ExtractionSummary) string {
	if s.Total() == 0 {
		return "I read your resume but found nothing new to add to your profile."
	}

	var parts []string
	for _, c := range []struct {
		n              int
		single, plural string
	}{
		{s.Experiences, "experience", "experiences"},
		{s.Educations, "education entry", "education entries"},
		{s.Skills, "skill", "skills"},
		{s.Projects, "project", "projects"},
		{s.Certifications, "certification", "certifications"},
	} {
		switch {
		case c.n == 1:
			parts = append(parts, "1 "+c.single)
		case c.n > 1:
			parts = append(parts, fmt.Sprintf("%d %s", c.n, c.plural))
		}
	}

	list := parts[0]
	if n := len(parts); n > 1 {
		list = strings.Join(parts[:n-1], ", ") + " and " + parts[n-1]
	}
	return fmt.Sprintf("I imported %s from your resume into your profile.", list)
}
