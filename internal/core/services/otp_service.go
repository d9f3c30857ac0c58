package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"schoolrec/internal/core/domain"
)

// OTPCodeTTL is how long an issued code stays valid
const OTPCodeTTL = 5 * time.Minute

// OTPService manages one-time passcode challenges: generation, delivery,
// expiry and single-use consumption. Challenge state lives in the injected
// store so the service itself holds no mutable state.
type OTPService struct {
	store  ChallengeStore
	mailer Mailer
	ttl    time.Duration
	now    func() time.Time
}

// NewOTPService creates a new OTP service
func NewOTPService(store ChallengeStore, mailer Mailer) *OTPService {
	return &OTPService{
		store:  store,
		mailer: mailer,
		ttl:    OTPCodeTTL,
		now:    time.Now,
	}
}

// Issue generates a fresh 6-digit code for the email, stores it and
// delivers it. Any prior challenge for the email is overwritten. If
// delivery fails the stored challenge is rolled back and the issue fails.
func (s *OTPService) Issue(ctx context.Context, email string) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	challenge := &domain.Challenge{
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.store.Put(ctx, email, challenge); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if err := s.mailer.SendCode(ctx, email, code); err != nil {
		// Delivery failed: the challenge must not stay live.
		if delErr := s.store.Delete(ctx, email); delErr != nil {
			log.Printf("⚠️ Failed to roll back undelivered OTP for %s: %v", email, delErr)
		}
		return fmt.Errorf("%w: %v", domain.ErrOTPDelivery, err)
	}

	return nil
}

// Verify resolves a submitted code against the live challenge.
// Success consumes the challenge; an expired challenge is deleted; a
// mismatch leaves it intact so the caller may retry until expiry.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	status, err := s.store.Claim(ctx, email, code, s.now())
	if err != nil {
		return fmt.Errorf("claim otp: %w", err)
	}

	switch status {
	case domain.ClaimOK:
		return nil
	case domain.ClaimExpired:
		return domain.ErrOTPExpired
	case domain.ClaimMismatch:
		return domain.ErrOTPMismatch
	default:
		return domain.ErrOTPNotFound
	}
}

// PurgeExpired sweeps expired challenges out of the store
func (s *OTPService) PurgeExpired(ctx context.Context) (int, error) {
	return s.store.PurgeExpired(ctx, s.now())
}

// generateCode returns a uniformly random 6-digit code in 100000-999999
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
