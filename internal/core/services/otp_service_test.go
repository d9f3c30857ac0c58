package services

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"schoolrec/internal/adapters/cache"
	"schoolrec/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMailer records the last delivered code
type stubMailer struct {
	lastEmail string
	lastCode  string
	err       error
}

func (m *stubMailer) SendCode(ctx context.Context, email, code string) error {
	m.lastEmail = email
	m.lastCode = code
	return m.err
}

func newTestOTPService() (*OTPService, *stubMailer) {
	mailer := &stubMailer{}
	svc := NewOTPService(cache.NewMemoryChallengeStore(), mailer)
	return svc, mailer
}

func TestOTPService_RoundTrip(t *testing.T) {
	svc, mailer := newTestOTPService()
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "a@x.com"))
	require.Equal(t, "a@x.com", mailer.lastEmail)
	require.Len(t, mailer.lastCode, 6)

	require.NoError(t, svc.Verify(ctx, "a@x.com", mailer.lastCode))

	// Single use: a replay with the same code finds nothing
	err := svc.Verify(ctx, "a@x.com", mailer.lastCode)
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestOTPService_VerifyUnknownEmail(t *testing.T) {
	svc, _ := newTestOTPService()

	err := svc.Verify(context.Background(), "nobody@x.com", "123456")
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestOTPService_Expiry(t *testing.T) {
	svc, mailer := newTestOTPService()
	ctx := context.Background()

	issuedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }
	require.NoError(t, svc.Issue(ctx, "a@x.com"))

	// 6 minutes later the correct code is rejected and the challenge is gone
	svc.now = func() time.Time { return issuedAt.Add(6 * time.Minute) }
	err := svc.Verify(ctx, "a@x.com", mailer.lastCode)
	assert.ErrorIs(t, err, domain.ErrOTPExpired)

	err = svc.Verify(ctx, "a@x.com", mailer.lastCode)
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestOTPService_MismatchKeepsChallenge(t *testing.T) {
	svc, mailer := newTestOTPService()
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "s@s.com"))

	wrong := "000000"
	if mailer.lastCode == wrong {
		wrong = "000001"
	}
	err := svc.Verify(ctx, "s@s.com", wrong)
	assert.ErrorIs(t, err, domain.ErrOTPMismatch)

	// The caller may retry with the correct code until expiry
	assert.NoError(t, svc.Verify(ctx, "s@s.com", mailer.lastCode))
}

func TestOTPService_ReissueOverwrites(t *testing.T) {
	svc, mailer := newTestOTPService()
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "a@x.com"))
	first := mailer.lastCode

	require.NoError(t, svc.Issue(ctx, "a@x.com"))
	second := mailer.lastCode

	if first != second {
		err := svc.Verify(ctx, "a@x.com", first)
		assert.ErrorIs(t, err, domain.ErrOTPMismatch)
	}
	assert.NoError(t, svc.Verify(ctx, "a@x.com", second))
}

func TestOTPService_DeliveryFailureRollsBack(t *testing.T) {
	svc, mailer := newTestOTPService()
	ctx := context.Background()

	mailer.err = errors.New("smtp unreachable")
	err := svc.Issue(ctx, "a@x.com")
	require.ErrorIs(t, err, domain.ErrOTPDelivery)

	// The undelivered challenge must not stay live
	err = svc.Verify(ctx, "a@x.com", mailer.lastCode)
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestOTPService_PurgeExpired(t *testing.T) {
	svc, _ := newTestOTPService()
	ctx := context.Background()

	issuedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }
	require.NoError(t, svc.Issue(ctx, "old@x.com"))

	svc.now = func() time.Time { return issuedAt.Add(4 * time.Minute) }
	require.NoError(t, svc.Issue(ctx, "fresh@x.com"))

	svc.now = func() time.Time { return issuedAt.Add(6 * time.Minute) }
	purged, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
}

func TestGenerateCode_Range(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}
