package auditlog

import "context"

type ipKey struct{}

// WithIP stores the client IP so LogAction can read it without it being
// threaded through every service signature.
func WithIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipKey{}, ip)
}

func IPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(ipKey{}).(string)
	return ip
}
