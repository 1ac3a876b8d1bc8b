package users

import "strings"

// Subscription tier labels (single source of truth). Plan names are
// constrained to these values; FREE is the no-subscription default.
const (
	TierFree     = "FREE"
	TierLite     = "LITE"
	TierBasic    = "BASIC"
	TierStudent  = "STUDENT"
	TierStandard = "STANDARD"
	TierPremium  = "PREMIUM"
	TierFamily   = "FAMILY"
)

// Roles
const (
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

// ValidTier reports whether s names a known tier.
func ValidTier(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case TierFree, TierLite, TierBasic, TierStudent, TierStandard, TierPremium, TierFamily:
		return true
	}
	return false
}

// NormalizeTier upper-cases and trims a tier name, falling back to FREE
// for anything unknown.
func NormalizeTier(s string) string {
	t := strings.ToUpper(strings.TrimSpace(s))
	if ValidTier(t) {
		return t
	}
	return TierFree
}
