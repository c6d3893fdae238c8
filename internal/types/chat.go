package types

import (
	"github.com/google/uuid"
)

// Role identifies the author of a chat message
type Role string

// Chat roles accepted from clients
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry of a conversation
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Step marks the multi-turn task in progress
type Step string

// Workflow steps
const (
	StepIdle       Step = "idle"
	StepScraping   Step = "scraping"
	StepGenerating Step = "generating"
	StepSaving     Step = "saving"
)

// Valid reports whether s is a known step
func (s Step) Valid() bool {
	switch s {
	case StepIdle, StepScraping, StepGenerating, StepSaving:
		return true
	}
	return false
}

// ConversationState is rebuilt from the request on every turn and returned with the reply.
// Custom fields follow last-write-wins: see Apply.
type ConversationState struct {
	Messages    []Message         `json:"messages"`
	UserID      uuid.UUID         `json:"userId"`
	ScrapedData *ExtractionResult `json:"scrapedData,omitempty"`
	ResumeID    *uuid.UUID        `json:"resumeId,omitempty"`
	CurrentStep Step              `json:"currentStep"`
}

// StateUpdate carries the fields a turn or an upload produced. Nil fields are
// untouched; clients merge it into their ConversationState the same way Apply does.
type StateUpdate struct {
	ScrapedData *ExtractionResult `json:"scrapedData,omitempty"`
	ResumeID    *uuid.UUID        `json:"resumeId,omitempty"`
	CurrentStep *Step             `json:"currentStep,omitempty"`
}

// IsEmpty reports whether the update changes nothing
func (u StateUpdate) IsEmpty() bool {
	return u.ScrapedData == nil && u.ResumeID == nil && u.CurrentStep == nil
}

// Merge layers next over u; fields set in next replace those in u
func (u StateUpdate) Merge(next StateUpdate) StateUpdate {
	if next.ScrapedData != nil {
		u.ScrapedData = next.ScrapedData
	}
	if next.ResumeID != nil {
		u.ResumeID = next.ResumeID
	}
	if next.CurrentStep != nil {
		u.CurrentStep = next.CurrentStep
	}
	return u
}

// Apply returns a copy of s with every non-nil field of u replacing the old value outright.
// Messages and UserID are never changed by an update.
func (s ConversationState) Apply(u StateUpdate) ConversationState {
	out := s
	out.Messages = append([]Message(nil), s.Messages...)
	if u.ScrapedData != nil {
		out.ScrapedData = u.ScrapedData
	}
	if u.ResumeID != nil {
		id := *u.ResumeID
		out.ResumeID = &id
	}
	if u.CurrentStep != nil {
		out.CurrentStep = *u.CurrentStep
	}
	if out.CurrentStep == "" {
		out.CurrentStep = StepIdle
	}
	return out
}

// StepPtr is a convenience for building updates
func StepPtr(s Step) *Step {
	return &s
}

// Operation is a best-effort UI notification derived from a chat turn
type Operation struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}
