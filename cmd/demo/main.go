// Command demo sends one prompt to a builtin vendor and prints the neutral
// ChatResponse as JSON.
//
//	DEEPSEEK_API_KEY=... demo -provider deepseek -prompt "What is 2+2?"
//
// -tool adds a sample get_weather tool so tool call decoding can be seen.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rhuss/vendorchat/pkg/api"
	"github.com/rhuss/vendorchat/pkg/debug"
	"github.com/rhuss/vendorchat/pkg/provider"
	"github.com/rhuss/vendorchat/pkg/provider/builtin"
)

type weatherArgs struct {
	Location string `json:"location" jsonschema:"required,description=City name"`
	Unit     string `json:"unit,omitempty" jsonschema:"enum=celsius,enum=fahrenheit"`
}

func main() {
	debug.Init("", "", "text")
	os.Exit(run(context.Background(), builtin.NewRegistry(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the demo and returns the process exit code: 0 on success,
// 1 when the vendor call fails, 2 on usage errors.
func run(ctx context.Context, reg *provider.Registry, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		providerID  = fs.String("provider", "deepseek", "vendor id")
		prompt      = fs.String("prompt", "", "user message (required)")
		system      = fs.String("system", "", "optional system message")
		model       = fs.String("model", "", "model override")
		baseURL     = fs.String("base-url", "", "override the vendor endpoint (e.g. a mock backend)")
		temperature = fs.Float64("temperature", -1, "sampling temperature; negative leaves it unset")
		maxTokens   = fs.Int("max-tokens", 0, "completion token cap; 0 leaves it unset")
		withTool    = fs.Bool("tool", false, "offer a sample get_weather tool")
		timeout     = fs.Duration("timeout", 30*time.Second, "request timeout")
		list        = fs.Bool("list", false, "list providers and models, then exit")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *list {
		listProviders(ctx, reg, stdout)
		return 0
	}
	if *prompt == "" {
		fmt.Fprintln(stderr, "demo: -prompt is required")
		fs.Usage()
		return 2
	}

	p, err := reg.New(*providerID, provider.Config{BaseURL: *baseURL, Timeout: *timeout})
	if err != nil {
		return fail(stderr, err)
	}
	defer p.Close()

	req := &api.ChatRequest{Model: *model}
	if *system != "" {
		req.Messages = append(req.Messages, api.ChatMessage{Role: api.RoleSystem, Content: *system})
	}
	req.Messages = append(req.Messages, api.ChatMessage{Role: api.RoleUser, Content: *prompt})
	if *temperature >= 0 {
		req.Temperature = api.Float64(*temperature)
	}
	if *maxTokens > 0 {
		req.MaxTokens = api.Int(*maxTokens)
	}
	if *withTool {
		req.Tools = []api.ToolSpec{api.MustToolSpec[weatherArgs]("get_weather", "Current weather for a city")}
	}

	resp, err := p.Complete(ctx, req, provider.Overrides{})
	if err != nil {
		return fail(stderr, err)
	}

	out, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Fprintln(stdout, string(out))
	for _, call := range p.ExtractToolCalls(resp) {
		args, _ := json.Marshal(call.Function.Arguments)
		fmt.Fprintf(stderr, "tool call %s: %s(%s)\n", call.ID, call.Function.Name, args)
	}
	return 0
}

func listProviders(ctx context.Context, reg *provider.Registry, w io.Writer) {
	for _, m := range reg.Modules() {
		fmt.Fprintf(w, "%s (%s): %s\n", m.ProviderID, m.DisplayName, m.Description)
		p, err := m.New(provider.Config{APIKey: "unused"})
		if err != nil {
			continue
		}
		models, _ := p.ListModels(ctx)
		for _, mi := range models {
			fmt.Fprintf(w, "  %-28s ctx=%-7d %s\n", mi.ID, mi.ContextWindow, strings.Join(mi.Capabilities, ","))
		}
		p.Close()
	}
}

func fail(w io.Writer, err error) int {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Body != "" {
		fmt.Fprintf(w, "demo: %v\nvendor body: %s\n", err, apiErr.Body)
	} else {
		fmt.Fprintf(w, "demo: %v\n", err)
	}
	return 1
}
