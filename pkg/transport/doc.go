// Package transport defines the completion handler contract and the
// middleware chain shared by the vendorchat gateway.
//
// A Completer executes one chat completion against a named provider. The
// Dispatcher is the production Completer: it validates the request, picks
// the provider from a provider.Set and records provider metrics through
// the adapter. Middleware wraps a Completer with cross-cutting behavior
// (panic recovery, request IDs, structured logging via log/slog), and
// errors.go maps *api.APIError values onto HTTP status codes.
//
// The HTTP surface lives in the transport/http subpackage.
package transport
