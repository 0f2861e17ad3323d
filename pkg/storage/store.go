package storage

import (
	"context"
	"time"

	"github.com/rhuss/vendorchat/pkg/api"
)

// CompletionRecord is one persisted chat completion.
type CompletionRecord struct {
	ID        string            `json:"id"`
	TenantID  string            `json:"tenant_id,omitempty"`
	Provider  string            `json:"provider"`
	Model     string            `json:"model"`
	Request   *api.ChatRequest  `json:"request"`
	Response  *api.ChatResponse `json:"response"`
	CreatedAt time.Time         `json:"created_at"`
}

// ListOptions filters and bounds List results. Records are returned newest
// first.
type ListOptions struct {
	Provider string
	Limit    int
}

// Limit bounds.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// EffectiveLimit clamps o.Limit into [1, MaxListLimit].
func (o ListOptions) EffectiveLimit() int {
	switch {
	case o.Limit <= 0:
		return DefaultListLimit
	case o.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return o.Limit
	}
}

// Store persists completion records. The tenant is taken from the context
// (see WithTenant); Save stamps it on the record and every read is scoped
// to it.
type Store interface {
	Save(ctx context.Context, rec *CompletionRecord) error
	Get(ctx context.Context, id string) (*CompletionRecord, error)
	List(ctx context.Context, opts ListOptions) ([]*CompletionRecord, error)
	Delete(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) error
	Close() error
}
