package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationConfig holds configurable limits for request validation.
type ValidationConfig struct {
	MaxMessages    int
	MaxContentSize int
	MaxTools       int
}

// DefaultValidationConfig returns a ValidationConfig with sensible defaults.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxMessages:    1000,
		MaxContentSize: 10 * 1024 * 1024, // 10MB
		MaxTools:       128,
	}
}

// ValidateChatRequest checks a ChatRequest for validity. It returns an
// *APIError describing the first validation failure, or nil if the request
// is valid.
//
// Adapters do not call this; they forward whatever the caller built. The
// gateway validates untrusted input before dispatching it.
func ValidateChatRequest(req *ChatRequest, cfg ValidationConfig) *APIError {
	if req == nil {
		return NewInvalidRequestError("", "request body is required")
	}

	if len(req.Messages) == 0 {
		return NewInvalidRequestError("messages", "messages must contain at least one message")
	}

	if cfg.MaxMessages > 0 && len(req.Messages) > cfg.MaxMessages {
		return NewInvalidRequestError("messages",
			fmt.Sprintf("messages exceeds maximum of %d", cfg.MaxMessages))
	}

	for i, msg := range req.Messages {
		if !validRole(msg.Role) {
			return NewInvalidRequestError(fmt.Sprintf("messages[%d].role", i),
				fmt.Sprintf("unknown role %q", msg.Role))
		}
		if cfg.MaxContentSize > 0 && len(msg.Content) > cfg.MaxContentSize {
			return NewInvalidRequestError(fmt.Sprintf("messages[%d].content", i),
				fmt.Sprintf("content exceeds maximum size of %d bytes", cfg.MaxContentSize))
		}
	}

	if cfg.MaxTools > 0 && len(req.Tools) > cfg.MaxTools {
		return NewInvalidRequestError("tools",
			fmt.Sprintf("tools exceeds maximum of %d", cfg.MaxTools))
	}

	names := make(map[string]bool, len(req.Tools))
	for i, tool := range req.Tools {
		param := fmt.Sprintf("tools[%d].name", i)
		if strings.TrimSpace(tool.Name) == "" {
			return NewInvalidRequestError(param, "tool name is required")
		}
		if names[tool.Name] {
			return NewInvalidRequestError(param, fmt.Sprintf("duplicate tool name %q", tool.Name))
		}
		names[tool.Name] = true

		if len(tool.Parameters) > 0 && !json.Valid(tool.Parameters) {
			return NewInvalidRequestError(fmt.Sprintf("tools[%d].parameters", i), "parameters must be valid JSON")
		}
	}

	if req.MaxTokens != nil && *req.MaxTokens <= 0 {
		return NewInvalidRequestError("max_tokens", "max_tokens must be positive")
	}

	if req.Temperature != nil {
		if *req.Temperature < 0.0 || *req.Temperature > 2.0 {
			return NewInvalidRequestError("temperature", "temperature must be between 0.0 and 2.0")
		}
	}

	return nil
}

func validRole(r Role) bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	default:
		return false
	}
}
