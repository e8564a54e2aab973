package internal

import "context"

// Identity is the resolved "current user" for one request. It is built once
// by the session middleware and carried in the request context; handlers and
// services never re-query the user row.
type Identity struct {
	UserID       int64
	Username     string
	Email        string
	Role         Role
	SessionToken string
}

func (i *Identity) HasCapability(capability Capability) bool {
	if i == nil {
		return false
	}
	return HasCapability(i.Role, capability)
}

type ctxKey string

const contextIdentityKey ctxKey = "identity"

func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, contextIdentityKey, identity)
}

// IdentityFromContext returns the identity resolved for this request, or
// (nil, false) for anonymous requests.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	identity, ok := ctx.Value(contextIdentityKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

func IsLoggedIn(ctx context.Context) bool {
	_, ok := IdentityFromContext(ctx)
	return ok
}

func CurrentRole(ctx context.Context) (Role, bool) {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return 0, false
	}
	return identity.Role, true
}
