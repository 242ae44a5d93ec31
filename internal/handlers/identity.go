package handlers

import "context"

type identityKind int

const (
	identityGuest identityKind = iota
	identityUser
)

// Identity is the per-request authentication outcome. It has exactly two
// cases: guest (no credential supplied) and authenticated (a valid token
// resolved to a user id).
type Identity struct {
	kind   identityKind
	userID int
}

// GuestIdentity is the no-credential outcome.
func GuestIdentity() Identity {
	return Identity{kind: identityGuest}
}

// AuthenticatedIdentity carries the user id resolved from a valid token.
func AuthenticatedIdentity(userID int) Identity {
	return Identity{kind: identityUser, userID: userID}
}

// Authenticated reports whether the identity carries a user.
func (i Identity) Authenticated() bool {
	return i.kind == identityUser
}

// UserID returns the authenticated user's id, or zero for a guest.
func (i Identity) UserID() int {
	return i.userID
}

type contextKey string

const contextIdentityKey contextKey = "identity"

func withIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextIdentityKey, id)
}

// identityFromContext returns the request identity; a request that never
// passed through the authenticator is a guest.
func identityFromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(contextIdentityKey).(Identity); ok {
		return id
	}
	return GuestIdentity()
}
