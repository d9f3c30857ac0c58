package domain

import "time"

// Challenge is a pending OTP challenge. At most one exists per email;
// issuing a new one silently replaces it.
type Challenge struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the challenge is past its expiry at the given time.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// ClaimStatus is the outcome of an atomic challenge claim.
type ClaimStatus int

const (
	// ClaimOK - code matched, challenge consumed.
	ClaimOK ClaimStatus = iota
	// ClaimNotFound - no live challenge for this email.
	ClaimNotFound
	// ClaimExpired - challenge was past expiry and has been deleted.
	ClaimExpired
	// ClaimMismatch - wrong code, challenge left intact for retry.
	ClaimMismatch
)
