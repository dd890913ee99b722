package domain

import "time"

// TokenLength is the fixed length of public share tokens: 16 random bytes
// in unpadded URL-safe base64.
const TokenLength = 22

// ShareGrant permits a target user, or any holder of a public token, to
// access a plan at a permission level. Exactly one of TargetUserID and
// IsPublic is set.
type ShareGrant struct {
	ID           string
	PlanID       string
	TargetUserID *string
	IsPublic     bool
	Token        string // set only for public grants
	Permission   SharePermission

	Active         bool
	ExpiresAt      *time.Time
	LastAccessedAt *time.Time
	AccessCount    int

	CreatedBy string
	CreatedAt time.Time
}

// CanAccess reports whether the grant currently permits access. The check
// is computed fresh on every call: the grant must be active and, when an
// expiry is set, the expiry must lie in the future.
func (g *ShareGrant) CanAccess(now time.Time) bool {
	if !g.Active {
		return false
	}
	if g.ExpiresAt != nil && !g.ExpiresAt.After(now) {
		return false
	}
	return true
}
