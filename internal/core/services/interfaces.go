package services

import (
	"context"
	"time"

	"schoolrec/internal/core/domain"
)

// Note: AuthService implementation is in auth_service.go
// Note: OTPService implementation is in otp_service.go

// ChallengeStore persists at most one live OTP challenge per email.
// Claim must perform the read-check-delete as one atomic step so two
// concurrent verifiers cannot both consume the same challenge.
type ChallengeStore interface {
	// Put stores a challenge, replacing any existing one for the email.
	Put(ctx context.Context, email string, challenge *domain.Challenge) error

	// Claim resolves a submitted code against the stored challenge.
	// ClaimOK and ClaimExpired delete the challenge; ClaimMismatch keeps it.
	Claim(ctx context.Context, email, code string, now time.Time) (domain.ClaimStatus, error)

	// Delete removes the challenge for an email, if any.
	Delete(ctx context.Context, email string) error

	// PurgeExpired removes challenges past expiry. Backends that expire
	// entries on their own may report zero.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// Mailer delivers OTP codes to principals
type Mailer interface {
	SendCode(ctx context.Context, email, code string) error
}
