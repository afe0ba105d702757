package mfaGuard

import "context"

type sourceAddressContextKey struct{}

// WithSourceAddress attaches an origin identifier (typically the client IP)
// to ctx. It is informational only: the Guard records it on attempt history
// and audit events but never keys any limit on it.
func WithSourceAddress(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, sourceAddressContextKey{}, addr)
}

func sourceAddressFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	addr, _ := ctx.Value(sourceAddressContextKey{}).(string)
	return addr
}
