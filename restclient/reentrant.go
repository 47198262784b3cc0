package restclient

import "context"

type reentrantKey struct{}

// Reentrant marks ctx so the client skips its request editors. Operations
// that an editor itself calls (an auth editor minting a token, for example)
// use it to avoid invoking the editor recursively.
func Reentrant(ctx context.Context) context.Context {
	return context.WithValue(ctx, reentrantKey{}, true)
}

// IsReentrant reports whether ctx was marked by Reentrant.
func IsReentrant(ctx context.Context) bool {
	v, _ := ctx.Value(reentrantKey{}).(bool)
	return v
}
