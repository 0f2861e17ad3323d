// Package auth authenticates gateway callers.
//
// Authenticators vote Yes (identity found), No (credentials present but
// invalid) or Abstain (not their credential type). A Chain asks each in
// turn and falls back to a default decision when all abstain. Middleware
// runs the chain, stores the Identity on the request context and scopes
// completion storage to the caller's tenant.
package auth
