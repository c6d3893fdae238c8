package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/rezoom/internal/db"
	"github.com/jonathan/rezoom/internal/llm"
	"github.com/jonathan/rezoom/internal/schemas"
	"github.com/jonathan/rezoom/internal/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Session is the identity and state a turn runs under. UserID always comes from the
// verified token, never from model output.
type Session struct {
	UserID uuid.UUID
	State  types.ConversationState
	update types.StateUpdate
}

// NewSession starts a session for one turn
func NewSession(userID uuid.UUID, state types.ConversationState) *Session {
	state.UserID = userID
	return &Session{UserID: userID, State: state}
}

// Update returns the state changes produced so far
func (s *Session) Update() types.StateUpdate {
	return s.update
}

// ResumeID returns the resume being edited, preferring one created during this turn
func (s *Session) ResumeID() *uuid.UUID {
	if s.update.ResumeID != nil {
		return s.update.ResumeID
	}
	return s.State.ResumeID
}

func (s *Session) setStep(step types.Step) {
	s.update = s.update.Merge(types.StateUpdate{CurrentStep: types.StepPtr(step)})
}

func (s *Session) setResume(id uuid.UUID) {
	s.update = s.update.Merge(types.StateUpdate{ResumeID: &id})
}

// Tool is one entry of the closed tool set
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	schema      *schemas.Schema
	run         func(ctx context.Context, s *Session, args map[string]any) (any, error)
}

// Declaration describes the tool to the model
func (t *Tool) Declaration() llm.FunctionDeclaration {
	return llm.FunctionDeclaration{Name: t.Name, Description: t.Description, Parameters: t.Parameters}
}

// Execute checks args against the declared schema and runs the tool.
// Nothing reaches the store unless validation passes.
func (t *Tool) Execute(ctx context.Context, s *Session, args map[string]any) (any, error) {
	if args == nil {
		args = map[string]any{}
	}
	if err := t.schema.Validate(args); err != nil {
		var schemaErr *schemas.ValidationError
		if errors.As(err, &schemaErr) {
			return nil, &ValidationError{Tool: t.Name, Message: schemaErr.Summary()}
		}
		return nil, &ValidationError{Tool: t.Name, Message: "arguments could not be checked", Cause: err}
	}
	return t.run(ctx, s, args)
}

// newTool binds a typed argument struct to a tool. Arguments pass the JSON Schema,
// then decode into A, then struct validation, before run is called.
func newTool[A any](name, description string, params map[string]any, run func(ctx context.Context, s *Session, args *A, raw map[string]any) (any, error)) *Tool {
	return &Tool{
		Name:        name,
		Description: description,
		Parameters:  params,
		schema:      schemas.MustCompile(name, params),
		run: func(ctx context.Context, s *Session, raw map[string]any) (any, error) {
			args := new(A)
			if err := decodeArgs(raw, args); err != nil {
				return nil, &ValidationError{Tool: name, Message: "arguments do not match the declared types", Cause: err}
			}
			if err := validate.Struct(args); err != nil {
				return nil, &ValidationError{Tool: name, Message: describeValidation(err)}
			}
			return run(ctx, s, args, raw)
		},
	}
}

func decodeArgs(raw map[string]any, out any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "datetime":
			parts = append(parts, fmt.Sprintf("%s must be a date in %s format", fe.Field(), "YYYY-MM-DD"))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param()))
		case "http_url":
			parts = append(parts, fmt.Sprintf("%s must be an http(s) URL", fe.Field()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// rejectRecord turns a domain validation failure into a tool validation error
func rejectRecord(tool string, err error) error {
	return &ValidationError{Tool: tool, Message: "record rejected", Cause: err}
}

// storeFailure maps store errors for a resource; missing or foreign records are not found
func storeFailure(resource, id string, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return &StoreError{Message: fmt.Sprintf("failed to access %s", resource), Cause: err}
}

func has(raw map[string]any, key string) bool {
	_, ok := raw[key]
	return ok
}

func parseDate(value string) (types.Date, error) {
	return types.ParseDate(strings.TrimSpace(value))
}

func parseOptionalDate(value *string) (*types.Date, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	d, err := parseDate(*value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func optionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Toolset is the closed set of tools the agent may call
type Toolset struct {
	tools  []*Tool
	byName map[string]*Tool
}

// NewToolset builds every tool over the given store
func NewToolset(store db.Store) *Toolset {
	tools := []*Tool{listProfileTool(store)}
	tools = append(tools, experienceTools(store)...)
	tools = append(tools, educationTools(store)...)
	tools = append(tools, skillTools(store)...)
	tools = append(tools, projectTools(store)...)
	tools = append(tools, certificationTools(store)...)
	tools = append(tools, updateUserProfileTool(store), createResumeTool(store), regenerateResumeTool(store))

	ts := &Toolset{tools: tools, byName: make(map[string]*Tool, len(tools))}
	for _, t := range tools {
		ts.byName[t.Name] = t
	}
	return ts
}

// Lookup finds a tool by name
func (ts *Toolset) Lookup(name string) (*Tool, bool) {
	t, ok := ts.byName[name]
	return t, ok
}

// Names lists the tool names in declaration order
func (ts *Toolset) Names() []string {
	names := make([]string, len(ts.tools))
	for i, t := range ts.tools {
		names[i] = t.Name
	}
	return names
}

// Declarations describes every tool to the model
func (ts *Toolset) Declarations() []llm.FunctionDeclaration {
	decls := make([]llm.FunctionDeclaration, len(ts.tools))
	for i, t := range ts.tools {
		decls[i] = t.Declaration()
	}
	return decls
}

// Execute runs one call. Unknown tools are reported, never dispatched.
func (ts *Toolset) Execute(ctx context.Context, s *Session, call llm.FunctionCall) (any, error) {
	tool, ok := ts.Lookup(call.Name)
	if !ok {
		return nil, &UnknownToolError{Name: call.Name}
	}
	return tool.Execute(ctx, s, call.Args)
}
