package adapters

import "github.com/folioengine/folio/internal/limits"

// AuthorityLimiter is the default limits capability, backed by the platform
// limits authority.
type AuthorityLimiter struct {
	authority *limits.Authority
}

// NewAuthorityLimiter creates the authority-backed limiter.
func NewAuthorityLimiter(authority *limits.Authority) *AuthorityLimiter {
	return &AuthorityLimiter{authority: authority}
}

// Effective clamps user ceilings per the deployment mode.
func (l *AuthorityLimiter) Effective(user limits.Limits) limits.Limits {
	return l.authority.Effective(user)
}

// Mode returns the deployment mode.
func (l *AuthorityLimiter) Mode() limits.Mode {
	return l.authority.Mode()
}
