// Package llm abstracts the cloud (Gemini) and local (Ollama) chat models
// behind one contract, plus a separate embedding-provider contract with
// ordered model fallback. Grounded on the teacher's
// internal/services/ai_recommendations.go request/response/plain-net/http
// shape and pkg/gemini/client.go's REST-call style, generalized from a
// single-shot prompt-completion call to a tool-calling chat loop.
package llm

import "context"

// Role mirrors the wire roles every provider accepts.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is one function invocation the model requested.
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// Message is one turn in the conversation sent to a provider. ToolCallID
// is set on RoleTool messages to correlate with the ToolCall that produced
// them. Content on a RoleTool message MUST already be a JSON string (spec's
// tool-call normalization rule; see internal/tools.Registry.Invoke).
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCallID string     `json:"toolCallId,omitempty"`
	ToolCalls  []ToolCall `json:"toolCalls,omitempty"`
}

// ToolSpec describes one callable tool to the model.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

// ToolChoice requests the vendor-specific hint that forces a tool call.
// Local providers ignore ToolChoiceAny (spec: "accepts tools list; ignores
// tool_choice=any").
type ToolChoice string

const (
	ToolChoiceNone ToolChoice = ""
	ToolChoiceAuto ToolChoice = "auto"
	ToolChoiceAny  ToolChoice = "any"
)

// CompletionRequest is one chat-completion call.
type CompletionRequest struct {
	Messages    []Message
	Tools       []ToolSpec
	ToolChoice  ToolChoice
	JSONMode    bool
	Temperature float64
}

// CompletionResponse is a provider's answer: either free text, or one or
// more tool calls the orchestrator must execute before continuing.
type CompletionResponse struct {
	Content   string
	ToolCalls []ToolCall
	Model     string
}

// Provider is the single contract both the cloud and local chat models
// satisfy (spec "LLM providers. Abstracted behind a single contract").
type Provider interface {
	// Name identifies the provider for the x-fanvise-ai-provider response
	// header: "gemini" or "ollama".
	Name() string
	Model() string
	// SupportsToolChoiceAny reports the capability flag gating whether the
	// orchestrator forwards ToolChoiceAny at all (spec "Abstract behind a
	// capability flag supportsToolChoiceAny").
	SupportsToolChoiceAny() bool
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
