package services

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron       *cron.Cron
	otpService *OTPService
}

// NewCronService creates a new cron service
func NewCronService(otpService *OTPService) *CronService {
	return &CronService{
		cron:       cron.New(),
		otpService: otpService,
	}
}

// Start registers jobs and starts the scheduler
func (s *CronService) Start() {
	// Sweep expired OTP challenges every 5 minutes
	_, err := s.cron.AddFunc("@every 5m", s.sweepExpiredChallenges)
	if err != nil {
		log.Printf("⚠️ Failed to register OTP sweep job: %v", err)
		return
	}

	s.cron.Start()
	log.Println("✅ Cron service started (OTP sweep every 5m)")
}

// Stop stops the scheduler
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("🛑 Cron service stopped")
}

func (s *CronService) sweepExpiredChallenges() {
	purged, err := s.otpService.PurgeExpired(context.Background())
	if err != nil {
		log.Printf("⚠️ OTP sweep failed: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("🧹 OTP sweep removed %d expired challenge(s)", purged)
	}
}
