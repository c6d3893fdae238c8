package llm

// ChatRole identifies who produced a chat turn in provider terms
type ChatRole string

// Chat roles. Function results are sent back on the user side of the conversation.
const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// FunctionDeclaration describes a callable tool. Parameters is a JSON Schema object.
type FunctionDeclaration struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// FunctionCall is a tool invocation proposed by the model
type FunctionCall struct {
	Name string
	Args map[string]any
}

// FunctionResult is the observation returned to the model for one call
type FunctionResult struct {
	Name     string
	Response map[string]any
}

// ChatTurn is one entry of the provider-facing transcript
type ChatTurn struct {
	Role    ChatRole
	Text    string
	Calls   []FunctionCall
	Results []FunctionResult
}

// ChatRequest is a full planning request: instructions, transcript and available tools
type ChatRequest struct {
	System    string
	Turns     []ChatTurn
	Functions []FunctionDeclaration
}

// ChatResponse is either a final text reply, a set of tool calls, or both
type ChatResponse struct {
	Text  string
	Calls []FunctionCall
}

// HasCalls reports whether the model asked for tools
func (r *ChatResponse) HasCalls() bool {
	return r != nil && len(r.Calls) > 0
}
