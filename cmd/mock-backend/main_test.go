package main

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/rhuss/vendorchat/pkg/api"
	"github.com/rhuss/vendorchat/pkg/provider"
	"github.com/rhuss/vendorchat/pkg/provider/builtin"
)

// The mock must be usable as the base URL of every builtin vendor.
func TestBuiltinVendorsAgainstMock(t *testing.T) {
	srv := httptest.NewServer(newMux("secret"))
	defer srv.Close()

	reg := builtin.NewRegistry()
	for _, m := range reg.Modules() {
		t.Run(m.ProviderID, func(t *testing.T) {
			p, err := reg.New(m.ProviderID, provider.Config{APIKey: "secret", BaseURL: srv.URL})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer p.Close()

			resp, err := p.Complete(context.Background(), chat("hello"), provider.Overrides{})
			if err != nil {
				t.Fatalf("Complete: %v", err)
			}
			if resp.Content != "echo: hello" {
				t.Errorf("Content = %q", resp.Content)
			}
		})
	}
}

func TestMockTriggers(t *testing.T) {
	srv := httptest.NewServer(newMux(""))
	defer srv.Close()

	p, err := builtin.NewRegistry().New("deepseek", provider.Config{APIKey: "k", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()
	ctx := context.Background()

	if _, err := p.Complete(ctx, chat("[empty]"), provider.Overrides{}); !api.IsType(err, api.ErrorTypeEmptyResponse) {
		t.Errorf("[empty]: err = %v", err)
	}

	if _, err := p.Complete(ctx, chat("[fail]"), provider.Overrides{}); !api.IsType(err, api.ErrorTypeTransport) {
		t.Errorf("[fail]: err = %v", err)
	}

	resp, err := p.Complete(ctx, chat("[bad-args]"), provider.Overrides{})
	if err != nil {
		t.Fatalf("[bad-args]: %v", err)
	}
	if len(resp.ToolCalls) != 1 || len(resp.ToolCalls[0].Function.Arguments) != 0 {
		t.Errorf("[bad-args]: tool calls = %+v", resp.ToolCalls)
	}

	req := chat("weather in Paris")
	req.Tools = []api.ToolSpec{{Name: "get_weather"}}
	resp, err = p.Complete(ctx, req, provider.Overrides{})
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	calls := p.ExtractToolCalls(resp)
	if len(calls) != 1 || calls[0].Function.Name != "get_weather" || calls[0].Function.Arguments["query"] != "weather in Paris" {
		t.Errorf("tool calls = %+v", calls)
	}
}

func TestMockRejectsWrongKey(t *testing.T) {
	srv := httptest.NewServer(newMux("secret"))
	defer srv.Close()

	p, err := builtin.NewRegistry().New("qwen", provider.Config{APIKey: "wrong", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	_, err = p.Complete(context.Background(), chat("hi"), provider.Overrides{})
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 401 {
		t.Errorf("err = %v, want HTTP 401 transport error", err)
	}
}

func chat(text string) *api.ChatRequest {
	return &api.ChatRequest{Messages: []api.ChatMessage{{Role: api.RoleUser, Content: text}}}
}
