// Package agent runs one chat turn: receive, plan, then act and observe through a closed
// set of profile tools until the model answers in plain text.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/rezoom/internal/db"
	"github.com/jonathan/rezoom/internal/llm"
	"github.com/jonathan/rezoom/internal/logging"
	"github.com/jonathan/rezoom/internal/prompts"
	"github.com/jonathan/rezoom/internal/types"
)

// DefaultMaxSteps bounds the planning iterations of one turn
const DefaultMaxSteps = 6

// Config tunes the planning loop
type Config struct {
	MaxSteps int
	Tier     llm.ModelTier
}

// DefaultConfig returns the standard loop settings
func DefaultConfig() *Config {
	return &Config{MaxSteps: DefaultMaxSteps, Tier: llm.TierStandard}
}

// ToolInvocation records one executed tool call
type ToolInvocation struct {
	Step   int            `json:"step"`
	Name   string         `json:"name"`
	Args   map[string]any `json:"args"`
	OK     bool           `json:"ok"`
	Kind   string         `json:"kind,omitempty"`
	Error  string         `json:"error,omitempty"`
	Result any            `json:"-"`
}

// Result is the outcome of one turn
type Result struct {
	Reply       types.Message           `json:"reply"`
	State       types.ConversationState `json:"state"`
	Invocations []ToolInvocation        `json:"invocations"`
	Steps       int                     `json:"steps"`
}

// Agent drives the planning model over the toolset
type Agent struct {
	client llm.Client
	tools  *Toolset
	store  db.UserStore
	config *Config
	logger *zap.Logger
	now    func() time.Time
}

// New creates an agent. A nil client is allowed; every turn then fails as model unavailable.
func New(client llm.Client, store db.Store, config *Config, logger *zap.Logger) *Agent {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxSteps <= 0 {
		config.MaxSteps = DefaultMaxSteps
	}
	if config.Tier == "" {
		config.Tier = llm.TierStandard
	}
	return &Agent{
		client: client,
		tools:  NewToolset(store),
		store:  store,
		config: config,
		logger: logging.OrNop(logger).Named("agent"),
		now:    time.Now,
	}
}

// Tools exposes the toolset
func (a *Agent) Tools() *Toolset {
	return a.tools
}

// Run executes one turn for the authenticated user. state.Messages must end with the new
// user message. On model failure Run returns an apologetic Result with the state left
// unchanged together with a *ModelUnavailableError.
func (a *Agent) Run(ctx context.Context, userID uuid.UUID, state types.ConversationState) (*Result, error) {
	if userID == uuid.Nil {
		return nil, &InputError{Message: "missing user identity"}
	}
	if err := checkMessages(state.Messages); err != nil {
		return nil, err
	}
	if state.CurrentStep == "" || !state.CurrentStep.Valid() {
		state.CurrentStep = types.StepIdle
	}

	session := NewSession(userID, state)
	log := a.logger.With(zap.String("user_id", userID.String()))

	if a.client == nil {
		return a.fail(session, nil, &ModelUnavailableError{Message: "no model client configured"}, log)
	}

	req := &llm.ChatRequest{
		System:    a.systemPrompt(ctx, session),
		Turns:     transcript(state.Messages),
		Functions: a.tools.Declarations(),
	}

	var invocations []ToolInvocation
	for step := 1; step <= a.config.MaxSteps; step++ {
		resp, err := a.client.Chat(ctx, req, a.config.Tier)
		if err != nil {
			return a.fail(session, invocations, &ModelUnavailableError{Message: "planning request failed", Cause: err}, log)
		}

		if !resp.HasCalls() {
			return a.finish(session, resp.Text, invocations, step), nil
		}

		req.Turns = append(req.Turns, llm.ChatTurn{Role: llm.ChatRoleModel, Text: resp.Text, Calls: resp.Calls})

		results := make([]llm.FunctionResult, 0, len(resp.Calls))
		for _, call := range resp.Calls {
			inv := a.invoke(ctx, session, step, call, log)
			invocations = append(invocations, inv)
			results = append(results, llm.FunctionResult{Name: call.Name, Response: observation(inv)})
		}
		req.Turns = append(req.Turns, llm.ChatTurn{Role: llm.ChatRoleUser, Results: results})
	}

	log.Warn("planning step limit reached", zap.Int("max_steps", a.config.MaxSteps))
	return a.finish(session, summarize(invocations), invocations, a.config.MaxSteps), nil
}

// invoke runs one tool call. Failures become part of the invocation, never a turn error.
func (a *Agent) invoke(ctx context.Context, s *Session, step int, call llm.FunctionCall, log *zap.Logger) ToolInvocation {
	inv := ToolInvocation{Step: step, Name: call.Name, Args: call.Args}

	result, err := a.tools.Execute(ctx, s, call)
	if err != nil {
		inv.Error = err.Error()
		var storeErr *StoreError
		if errors.As(err, &storeErr) {
			log.Error("tool failed", zap.String("tool", call.Name), zap.Error(err))
			inv.Error = "the profile store could not complete the request"
		} else {
			log.Debug("tool rejected", zap.String("tool", call.Name), zap.Error(err))
		}
		inv.Kind = errorKind(err)
		return inv
	}

	log.Debug("tool executed", zap.String("tool", call.Name))
	inv.OK = true
	inv.Result = result
	return inv
}

func (a *Agent) finish(s *Session, reply string, invocations []ToolInvocation, steps int) *Result {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = "Done."
	}
	state := s.State.Apply(s.Update())
	msg := types.Message{Role: types.RoleAssistant, Content: reply}
	state.Messages = append(state.Messages, msg)
	return &Result{Reply: msg, State: state, Invocations: invocations, Steps: steps}
}

// fail ends a turn on a model error. Conversation state is left as it was, but
// tools that already ran have written to the store, so the reply lists them.
func (a *Agent) fail(s *Session, invocations []ToolInvocation, err *ModelUnavailableError, log *zap.Logger) (*Result, error) {
	log.Warn("chat turn failed", zap.Error(err), zap.Int("tools_run", len(invocations)))
	state := s.State.Apply(types.StateUpdate{})

	content := prompts.Agent().MustRender("apology", nil)
	if saved := savedChanges(invocations); len(saved) > 0 {
		content = prompts.Agent().MustRender("apology-partial", map[string]string{
			"Results": strings.Join(saved, "\n"),
		})
	}
	msg := types.Message{Role: types.RoleAssistant, Content: content}
	state.Messages = append(state.Messages, msg)
	return &Result{Reply: msg, State: state, Invocations: invocations}, err
}

// savedChanges lists the successful invocations that wrote to the store
func savedChanges(invocations []ToolInvocation) []string {
	var lines []string
	for _, inv := range invocations {
		if inv.OK && !strings.HasPrefix(inv.Name, "list_") {
			lines = append(lines, "- "+inv.Name)
		}
	}
	return lines
}

func (a *Agent) systemPrompt(ctx context.Context, s *Session) string {
	name := "the user"
	if user, err := a.store.GetUser(ctx, s.UserID); err == nil && user != nil && user.Name != "" {
		name = user.Name
	}

	resumeID := "none"
	if s.State.ResumeID != nil {
		resumeID = s.State.ResumeID.String()
	}
	scraped := "none"
	if d := s.State.ScrapedData; d != nil {
		scraped = fmt.Sprintf("%d experiences, %d education entries, %d skills, %d projects, %d certifications",
			len(d.Experiences), len(d.Education), len(d.Skills), len(d.Projects), len(d.Certifications))
	}

	return prompts.Agent().MustRender("system", map[string]string{
		"UserName":    name,
		"Today":       a.now().Format(types.DateLayout),
		"CurrentStep": string(s.State.CurrentStep),
		"ResumeID":    resumeID,
		"ScrapedData": scraped,
	})
}

func checkMessages(messages []types.Message) error {
	if len(messages) == 0 {
		return &InputError{Message: "messages must not be empty"}
	}
	last := messages[len(messages)-1]
	if last.Role != types.RoleUser {
		return &InputError{Message: "the last message must come from the user"}
	}
	if strings.TrimSpace(last.Content) == "" {
		return &InputError{Message: "the last message must not be empty"}
	}
	for _, m := range messages {
		switch m.Role {
		case types.RoleUser, types.RoleAssistant, types.RoleSystem:
		default:
			return &InputError{Message: fmt.Sprintf("unknown message role %q", m.Role)}
		}
	}
	return nil
}

// transcript maps client history onto model turns. Client-supplied system messages are
// dropped: instructions only come from the server prompt. Leading assistant turns are
// skipped so the transcript starts with the user.
func transcript(messages []types.Message) []llm.ChatTurn {
	turns := make([]llm.ChatTurn, 0, len(messages))
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		switch m.Role {
		case types.RoleUser:
			turns = append(turns, llm.ChatTurn{Role: llm.ChatRoleUser, Text: content})
		case types.RoleAssistant:
			if len(turns) == 0 {
				continue
			}
			turns = append(turns, llm.ChatTurn{Role: llm.ChatRoleModel, Text: content})
		}
	}
	return turns
}

// observation is the machine-readable result fed back to the model
func observation(inv ToolInvocation) map[string]any {
	if !inv.OK {
		return map[string]any{"ok": false, "error": inv.Kind, "message": inv.Error}
	}
	obs := map[string]any{"ok": true}
	if inv.Result != nil {
		obs["result"] = toJSONValue(inv.Result)
	}
	return obs
}

// toJSONValue converts a result into plain maps, slices and scalars
func toJSONValue(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return string(data)
	}
	return out
}

func summarize(invocations []ToolInvocation) string {
	if len(invocations) == 0 {
		return "I could not finish that request. Could you rephrase it?"
	}
	var lines []string
	for _, inv := range invocations {
		if inv.OK {
			lines = append(lines, fmt.Sprintf("- %s: done", inv.Name))
		} else {
			lines = append(lines, fmt.Sprintf("- %s: failed (%s)", inv.Name, inv.Error))
		}
	}
	return prompts.Agent().MustRender("max-steps", map[string]string{
		"Results": strings.Join(lines, "\n"),
	})
}
