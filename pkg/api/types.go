package api

import "encoding/json"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolTypeFunction is the only tool call type vendors currently emit.
const ToolTypeFunction = "function"

// ChatMessage is a single conversation turn.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ToolSpec advertises a function the model may call. Parameters holds a
// JSON schema describing the function arguments.
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ChatRequest is the vendor-neutral completion request. Messages are in
// conversation order. Model, Temperature and MaxTokens are optional; unset
// values are resolved by the adapter or left to the vendor.
type ChatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Tools       []ToolSpec    `json:"tools,omitempty"`
	Model       string        `json:"model,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

// FunctionCall is the function portion of a tool call. Arguments is the
// parsed argument object, never the raw vendor string.
type FunctionCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolCall is a vendor-reported request to invoke a caller-defined function.
// ID is an opaque correlation token assigned by the vendor.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// ChatResponse is the vendor-neutral completion result.
//
// ToolCalls is always non-nil so callers can range over it without a
// presence check. Usage is the vendor's token accounting, passed through
// unchanged.
type ChatResponse struct {
	ID        string         `json:"id"`
	Model     string         `json:"model"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []ToolCall     `json:"tool_calls"`
	Usage     map[string]any `json:"usage"`
}

// Float64 returns a pointer to v. Useful for optional request fields.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
