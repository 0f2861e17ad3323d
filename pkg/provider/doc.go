// Package provider defines the vendor-agnostic adapter contract. Every
// vendor adapter exposes the same capability surface (metadata, static
// model catalog, completion, tool-call extraction) and differs only in the
// immutable Descriptor it was built from.
//
// The Registry models the external module registration surface: each
// vendor package exports a Module carrying its id, display name,
// description and constructor.
package provider
