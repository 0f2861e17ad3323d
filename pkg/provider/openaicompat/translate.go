package openaicompat

import (
	"encoding/json"

	"github.com/rhuss/vendorchat/pkg/api"
)

// emptyParameters is sent for tools declared without a schema.
var emptyParameters = json.RawMessage(`{"type":"object","properties":{}}`)

// EncodeRequest builds the vendor payload for req. model is the already
// resolved model name; temperature and maxTokens are the resolved sampling
// settings, nil when unset.
//
// Messages map 1:1 to {role, content}. Tools are wrapped as
// {type: "function", function: {name, description, parameters}} and dropped
// entirely when empty.
func EncodeRequest(req *api.ChatRequest, model string, temperature *float64, maxTokens *int) *ChatCompletionRequest {
	out := &ChatCompletionRequest{
		Model:       model,
		Messages:    make([]ChatMessage, 0, len(req.Messages)),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	for _, m := range req.Messages {
		out.Messages = append(out.Messages, ChatMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	if len(req.Tools) > 0 {
		out.Tools = make([]ChatTool, 0, len(req.Tools))
		for _, t := range req.Tools {
			params := t.Parameters
			if len(params) == 0 {
				params = emptyParameters
			}
			out.Tools = append(out.Tools, ChatTool{
				Type: api.ToolTypeFunction,
				Function: ChatFunctionDef{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  params,
				},
			})
		}
	}

	return out
}
