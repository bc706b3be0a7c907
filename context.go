package goShop

import "context"

type originPathContextKey struct{}

// WithOriginPath attaches the path the navigation originated from to ctx.
// The engine records it as audit metadata on authorization decisions; it
// never influences the decision itself.
func WithOriginPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, originPathContextKey{}, path)
}

func originPathFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	path, _ := ctx.Value(originPathContextKey{}).(string)
	return path
}
