// Package openaicompat implements the one generic adapter shared by every
// vendor that speaks the OpenAI-style Chat Completions dialect.
//
// A vendor is described by a provider.Descriptor (base URL, default model,
// credential variable and catalog). New turns a Descriptor plus a
// provider.Config into a provider.Provider. The package is split into the
// wire codec (EncodeRequest, DecodeResponse), the transport invoker
// (Client) and the Adapter that ties them together.
package openaicompat
