package storage

import "context"

type tenantCtxKey struct{}

// WithTenant scopes ctx to tenantID. Stores only see records of that
// tenant.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantCtxKey{}, tenantID)
}

// TenantFrom returns the tenant carried by ctx, or "" in single-tenant
// deployments.
func TenantFrom(ctx context.Context) string {
	tenant, _ := ctx.Value(tenantCtxKey{}).(string)
	return tenant
}

// Visible reports whether a record owned by owner may be read in ctx.
func Visible(ctx context.Context, owner string) bool {
	tenant := TenantFrom(ctx)
	return tenant == "" || tenant == owner
}
