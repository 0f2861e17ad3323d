// Command mock-backend runs a deterministic OpenAI-style chat completion
// server for exercising the vendor adapters without real credentials.
//
// Behavior is selected by the last user message:
//
//	[empty]     reply with zero choices
//	[bad-args]  reply with a tool call whose arguments are not JSON
//	[fail]      reply with HTTP 503 and an error body
//
// Requests that carry tools are answered with a call to the first tool.
// Anything else is echoed back.
//
// Configuration:
//
//	MOCK_PORT    - Listen port (default: 9090)
//	MOCK_API_KEY - When set, requests must carry "Authorization: Bearer <key>"
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           newMux(os.Getenv("MOCK_API_KEY")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// newMux serves the chat endpoint under every base path the builtin
// vendors use, so any of them can point its base URL at the mock.
func newMux(apiKey string) *http.ServeMux {
	h := &handler{apiKey: apiKey}
	mux := http.NewServeMux()
	for _, prefix := range []string{"", "/v1", "/api/v3"} {
		mux.HandleFunc("POST "+prefix+"/chat/completions", h.chatCompletions)
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return mux
}

// --- Wire types ---

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Tools    []chatTool    `json:"tools,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type chatResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Model   string         `json:"model"`
	Choices []chatChoice   `json:"choices"`
	Usage   map[string]int `json:"usage"`
}

type chatChoice struct {
	Index        int     `json:"index"`
	Message      chatMsg `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type chatMsg struct {
	Role      string     `json:"role"`
	Content   *string    `json:"content"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

type toolCall struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Function funcCall `json:"function"`
}

type funcCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// --- Handler ---

type handler struct {
	apiKey string
}

func (h *handler) chatCompletions(w http.ResponseWriter, r *http.Request) {
	if h.apiKey != "" && r.Header.Get("Authorization") != "Bearer "+h.apiKey {
		writeError(w, http.StatusUnauthorized, "invalid api key")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	last := lastUserMessage(&req)
	model := req.Model
	if model == "" {
		model = "mock-model"
	}

	var resp chatResponse
	switch {
	case strings.Contains(last, "[fail]"):
		writeError(w, http.StatusServiceUnavailable, "mock backend overloaded")
		return
	case strings.Contains(last, "[empty]"):
		resp = chatResponse{Choices: []chatChoice{}}
	case strings.Contains(last, "[bad-args]"):
		resp = toolCallResponse("broken_tool", `{"unterminated": `)
	case len(req.Tools) > 0:
		args, _ := json.Marshal(map[string]string{"query": last})
		resp = toolCallResponse(req.Tools[0].Function.Name, string(args))
	default:
		resp = textResponse("echo: " + last)
	}

	resp.ID = "chatcmpl-mock"
	resp.Object = "chat.completion"
	resp.Model = model
	resp.Usage = map[string]int{
		"prompt_tokens":     len(strings.Fields(last)),
		"completion_tokens": 5,
		"total_tokens":      len(strings.Fields(last)) + 5,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func textResponse(text string) chatResponse {
	return chatResponse{Choices: []chatChoice{{
		Message:      chatMsg{Role: "assistant", Content: &text},
		FinishReason: "stop",
	}}}
}

func toolCallResponse(name, arguments string) chatResponse {
	return chatResponse{Choices: []chatChoice{{
		Message: chatMsg{
			Role: "assistant",
			ToolCalls: []toolCall{{
				ID:       "call_mock_1",
				Type:     "function",
				Function: funcCall{Name: name, Arguments: arguments},
			}},
		},
		FinishReason: "tool_calls",
	}}}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"message": msg, "type": "mock_error"},
	})
}

func lastUserMessage(req *chatRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			return req.Messages[i].Content
		}
	}
	return ""
}
