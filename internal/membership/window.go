package membership

import (
	"time"

	membershipmodel "github.com/tuannda/membership-payments/internal/core/datamodel/membership"
)

// NextWindow computes the membership window a purchase produces. Pure
// function of (current membership, purchased tier, duration, now).
//
// Buying the plan already held while it is still active stacks: the new
// window keeps the current start and extends the expiry from the current
// expiry, not from now, so the holder loses nothing by paying early. Any
// other case (no membership, expired, different tier) opens a fresh window
// starting now.
func NextWindow(current *membershipmodel.Membership, tier string, durationDays int, now time.Time) (start, expiry time.Time) {
	duration := time.Duration(durationDays) * 24 * time.Hour

	if current != nil && current.Tier == tier && current.ActiveAt(now) {
		return current.StartedAt, current.ExpiresAt.Add(duration)
	}

	return now, now.Add(duration)
}
