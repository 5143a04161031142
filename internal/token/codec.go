// Package token decodes the backend's bearer credential into an Identity.
//
// The client never verifies signatures; the backend rejects tampered or
// expired tokens on every request. Decoding here is a pure parsing step.
package token

import (
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/jlasky/marquee/internal/domain"
)

// Claim names observed across backend versions, in priority order.
// Upstream naming drift stops at this boundary.
var claimAliases = map[string][]string{
	"id":    {"UserId", "user_id", "id", "sub"},
	"name":  {"FirstName", "first_name", "name"},
	"email": {"Email", "email"},
	"role":  {"Role", "role"},
}

// Decode parses a bearer credential's claim payload into an Identity.
// Returns domain.ErrMalformedCredential when the payload cannot be parsed
// as the expected claim structure; callers treat that as "no identity".
func Decode(bearer string) (domain.Identity, error) {
	unverified, _, err := jwtlib.NewParser().ParseUnverified(bearer, jwtlib.MapClaims{})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrMalformedCredential, err)
	}

	claims, ok := unverified.Claims.(jwtlib.MapClaims)
	if !ok {
		return domain.Identity{}, domain.ErrMalformedCredential
	}

	id := domain.Identity{
		ID:          claimString(claims, "id"),
		DisplayName: claimString(claims, "name"),
		Email:       claimString(claims, "email"),
		Role:        claimString(claims, "role"),
	}
	if id.ID == "" {
		return domain.Identity{}, fmt.Errorf("%w: no user id claim", domain.ErrMalformedCredential)
	}
	return id, nil
}

// claimString resolves a canonical field through its known aliases
func claimString(claims jwtlib.MapClaims, field string) string {
	for _, alias := range claimAliases[field] {
		if v, ok := claims[alias].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
