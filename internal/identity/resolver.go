// Package identity resolves the owner of an incoming request. The
// interview engine treats identity as a collaborator: a resolved owner
// enables persisting the closing analysis, an unresolved one simply skips
// the write. Resolution failures are never request errors here.
package identity

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Resolver maps a request to its owner id. The second return value
// reports whether the owner could be resolved.
type Resolver interface {
	Resolve(r *http.Request) (uuid.UUID, bool)
}

// Unresolved is a Resolver that never resolves anyone. It is used when no
// JWT secret is configured.
type Unresolved struct{}

// Resolve always reports an unresolved owner.
func (Unresolved) Resolve(*http.Request) (uuid.UUID, bool) {
	return uuid.Nil, false
}

// bearerToken extracts the token from an Authorization header with a
// case-insensitive Bearer scheme. Empty string means no usable token.
func bearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
