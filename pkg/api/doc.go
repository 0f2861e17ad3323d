// Package api defines the vendor-neutral chat completion types shared by
// every provider adapter in vendorchat.
//
// Callers build a [ChatRequest] (conversation-ordered [ChatMessage] values
// plus optional [ToolSpec] definitions) and receive a [ChatResponse] whose
// [ToolCall] entries carry already-parsed arguments. Vendor wire formats
// never leak through these types.
//
// The package performs no I/O. Errors surfaced by adapters and the gateway
// are [APIError] values classified by [ErrorType].
package api
