// Package storage defines the completion record store used by the gateway
// to keep an audit trail of chat completions, plus sentinel errors and
// tenant context helpers shared by the memory and postgres backends.
package storage
