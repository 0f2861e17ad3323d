package openaicompat

import (
	"encoding/json"
	"fmt"

	"github.com/rhuss/vendorchat/pkg/api"
	"github.com/rhuss/vendorchat/pkg/debug"
)

// DecodeBody parses a raw 2xx vendor body and decodes it. A body that is
// not a JSON object is reported as a server error.
func DecodeBody(body []byte, model string) (*api.ChatResponse, error) {
	var resp ChatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to parse vendor response: %s", err.Error()))
	}
	return DecodeResponse(&resp, model)
}

// DecodeResponse converts a vendor envelope into the neutral ChatResponse.
// Only choices[0] is used. model is the resolved model name sent with the
// request; the vendor's echo is ignored.
func DecodeResponse(resp *ChatCompletionResponse, model string) (*api.ChatResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, api.NewEmptyResponseError("vendor returned no choices")
	}
	msg := resp.Choices[0].Message

	out := &api.ChatResponse{
		Model:     model,
		Role:      api.RoleAssistant,
		ToolCalls: make([]api.ToolCall, 0, len(msg.ToolCalls)),
		Usage:     resp.Usage,
	}
	if resp.ID != nil {
		out.ID = *resp.ID
	}
	if msg.Role != nil && *msg.Role != "" {
		out.Role = api.Role(*msg.Role)
	}
	if msg.Content != nil {
		out.Content = *msg.Content
	}
	if out.Usage == nil {
		out.Usage = map[string]any{}
	}

	for _, tc := range msg.ToolCalls {
		typ := tc.Type
		if typ == "" {
			typ = api.ToolTypeFunction
		}
		out.ToolCalls = append(out.ToolCalls, api.ToolCall{
			ID:   tc.ID,
			Type: typ,
			Function: api.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: parseArguments(tc.Function.Name, tc.Function.Arguments),
			},
		})
	}

	return out, nil
}

// parseArguments decodes a tool call arguments value, either a JSON string
// holding an object or an object. Anything else yields an empty map.
func parseArguments(name string, raw json.RawMessage) map[string]any {
	data := []byte(raw)
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		data = []byte(encoded)
	}

	var args map[string]any
	if err := json.Unmarshal(data, &args); err != nil {
		debug.Log(debug.Providers, "discarding unparsable tool arguments",
			"function", name, "error", err, "arguments", debug.Truncate(string(raw), 200))
		return map[string]any{}
	}
	if args == nil {
		return map[string]any{}
	}
	return args
}
