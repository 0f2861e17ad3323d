// Package doubao provides the adapter for ByteDance Doubao models served
// through the Volcengine Ark OpenAI-compatible endpoint.
package doubao
