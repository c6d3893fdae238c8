package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrMissingAPIKey is returned when no credentials are configured
var ErrMissingAPIKey = errors.New("API key is required")

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates JSON content using the specified model tier
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// Chat runs one planning step over a transcript with function declarations
	Chat(ctx context.Context, req *ChatRequest, tier ModelTier) (*ChatResponse, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier)
	if err != nil {
		return "", err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier)
	if err != nil {
		return "", err
	}
	model.ResponseMIMEType = "application/json"

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// Chat sends the transcript as chat history and returns the model's next move
func (c *GeminiClient) Chat(ctx context.Context, req *ChatRequest, tier ModelTier) (*ChatResponse, error) {
	if req == nil || len(req.Turns) == 0 {
		return nil, fmt.Errorf("chat request has no turns")
	}

	model, err := c.model(tier)
	if err != nil {
		return nil, err
	}
	if req.System != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	}
	if len(req.Functions) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: toFunctionDeclarations(req.Functions)}}
	}

	contents := toGenaiContents(req.Turns)
	last := contents[len(contents)-1]
	if last.Role != string(ChatRoleUser) {
		return nil, fmt.Errorf("last chat turn must come from the user side, got %q", last.Role)
	}

	session := model.StartChat()
	session.History = contents[:len(contents)-1]

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to send chat message: %w", err)
	}

	return parseChatResponse(resp)
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *GeminiClient) model(tier ModelTier) (*genai.GenerativeModel, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}
	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.Temperature)
	return model, nil
}

func (c *GeminiClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.config.Timeout)
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

func parseChatResponse(resp *genai.GenerateContentResponse) (*ChatResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return nil, fmt.Errorf("no content in response")
	}

	out := &ChatResponse{}
	var text []string
	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text = append(text, string(p))
		case genai.FunctionCall:
			out.Calls = append(out.Calls, FunctionCall{Name: p.Name, Args: p.Args})
		case *genai.FunctionCall:
			out.Calls = append(out.Calls, FunctionCall{Name: p.Name, Args: p.Args})
		}
	}
	out.Text = strings.TrimSpace(strings.Join(text, ""))

	if out.Text == "" && len(out.Calls) == 0 {
		return nil, fmt.Errorf("empty chat response")
	}
	return out, nil
}

func toGenaiContents(turns []ChatTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		var parts []genai.Part
		if turn.Text != "" {
			parts = append(parts, genai.Text(turn.Text))
		}
		for _, call := range turn.Calls {
			parts = append(parts, genai.FunctionCall{Name: call.Name, Args: call.Args})
		}
		for _, result := range turn.Results {
			parts = append(parts, genai.FunctionResponse{Name: result.Name, Response: result.Response})
		}
		if len(parts) == 0 {
			continue
		}
		// Consecutive turns from the same side are folded into one content
		if n := len(contents); n > 0 && contents[n-1].Role == string(turn.Role) {
			contents[n-1].Parts = append(contents[n-1].Parts, parts...)
			continue
		}
		contents = append(contents, &genai.Content{Role: string(turn.Role), Parts: parts})
	}
	return contents
}

// toFunctionDeclarations converts tool declarations. Gemini rejects an OBJECT
// schema without properties, so parameterless tools are declared with no
// parameters at all.
func toFunctionDeclarations(fns []FunctionDeclaration) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(fns))
	for _, fn := range fns {
		decl := &genai.FunctionDeclaration{Name: fn.Name, Description: fn.Description}
		if props, _ := fn.Parameters["properties"].(map[string]any); len(props) > 0 {
			decl.Parameters = toGenaiSchema(fn.Parameters)
		}
		decls = append(decls, decl)
	}
	return decls
}

// toGenaiSchema converts the JSON Schema subset used by tool declarations
func toGenaiSchema(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}
	out := &genai.Schema{}

	switch t := schema["type"].(type) {
	case string:
		out.Type = genaiType(t)
	case []string:
		out.Type, out.Nullable = firstNonNullType(t)
	case []any:
		names := make([]string, 0, len(t))
		for _, v := range t {
			if s, ok := v.(string); ok {
				names = append(names, s)
			}
		}
		out.Type, out.Nullable = firstNonNullType(names)
	}

	if desc, ok := schema["description"].(string); ok {
		out.Description = desc
	}
	if format, ok := schema["format"].(string); ok && format == "date-time" {
		out.Format = format
	}
	out.Enum = stringSlice(schema["enum"])
	out.Required = stringSlice(schema["required"])

	if items, ok := schema["items"].(map[string]any); ok {
		out.Items = toGenaiSchema(items)
	}
	if props, ok := schema["properties"].(map[string]any); ok && len(props) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(props))
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if sub, ok := props[name].(map[string]any); ok {
				out.Properties[name] = toGenaiSchema(sub)
			}
		}
	}
	return out
}

func genaiType(name string) genai.Type {
	switch name {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

func firstNonNullType(names []string) (genai.Type, bool) {
	nullable := false
	chosen := ""
	for _, n := range names {
		if n == "null" {
			nullable = true
			continue
		}
		if chosen == "" {
			chosen = n
		}
	}
	return genaiType(chosen), nullable
}

func stringSlice(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
