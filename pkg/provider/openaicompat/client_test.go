package openaicompat

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rhuss/vendorchat/pkg/api"
)

func TestClientPost_RequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/v3/chat/completions" {
			t.Errorf("path = %s, want /api/v3/chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"ping":true}` {
			t.Errorf("body = %s", body)
		}
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`raw reply`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/v3/", "sk-test", 0, nil)
	defer c.Close()

	raw, err := c.Post(context.Background(), []byte(`{"ping":true}`))
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if raw.StatusCode != http.StatusAccepted || !raw.OK() {
		t.Errorf("status = %d", raw.StatusCode)
	}
	if string(raw.Body) != "raw reply" {
		t.Errorf("body = %q", raw.Body)
	}
}

func TestClientPost_NonSuccessIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	raw, err := NewClient(srv.URL, "k", 0, nil).Post(context.Background(), []byte(`{}`))
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if raw.OK() || raw.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d", raw.StatusCode)
	}
}

func TestClientPost_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, "k", 50*time.Millisecond, nil)
	_, err := c.Post(context.Background(), []byte(`{}`))

	apiErr, ok := err.(*api.APIError)
	if !ok {
		t.Fatalf("expected *api.APIError, got %T (%v)", err, err)
	}
	if apiErr.Type != api.ErrorTypeTransport || apiErr.Code != api.CodeTimeout {
		t.Errorf("got %s/%s, want transport_error/timeout", apiErr.Type, apiErr.Code)
	}
}

func TestClientPost_Canceled(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		close(started)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := NewClient(srv.URL, "k", 5*time.Second, nil).Post(ctx, []byte(`{}`))
	apiErr, ok := err.(*api.APIError)
	if !ok {
		t.Fatalf("expected *api.APIError, got %T (%v)", err, err)
	}
	if apiErr.Code != api.CodeCanceled {
		t.Errorf("code = %s, want canceled", apiErr.Code)
	}
}

func TestClientPost_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "k", time.Second, nil).Post(context.Background(), []byte(`{}`))
	if !api.IsType(err, api.ErrorTypeTransport) {
		t.Fatalf("expected transport_error, got %v", err)
	}
	if err.(*api.APIError).Code != api.CodeNetwork {
		t.Errorf("code = %s, want network", err.(*api.APIError).Code)
	}
}
