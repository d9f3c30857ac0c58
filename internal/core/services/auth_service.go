package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"schoolrec/internal/adapters/persistence/repositories"
	"schoolrec/internal/config"
	"schoolrec/internal/core/domain"
	"schoolrec/internal/pkg/jwt"
	"schoolrec/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService coordinates principal resolution, password verification,
// OTP challenges and session-token issuance.
type AuthService struct {
	teacherRepo repositories.TeacherRepository
	studentRepo repositories.StudentRepository
	otpService  *OTPService
	cfg         *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	teacherRepo repositories.TeacherRepository,
	studentRepo repositories.StudentRepository,
	otpService *OTPService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		teacherRepo: teacherRepo,
		studentRepo: studentRepo,
		otpService:  otpService,
		cfg:         cfg,
	}
}

// LoginInput represents password login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents a successful authentication
type AuthResponse struct {
	Principal *domain.PrincipalSummary `json:"data"`
	Token     string                   `json:"token"`
}

// Login authenticates a principal with email and password.
// Unknown email and wrong password return the same error so callers
// cannot probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	principal, err := s.resolvePrincipal(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, principal.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	resp, err := s.issueSession(principal)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ %s logged in: #%d", principal.Role, principal.ID)
	return resp, nil
}

// RequestOTP issues a one-time passcode for the principal's email and
// delivers it. The code itself is never returned to the caller.
func (s *AuthService) RequestOTP(ctx context.Context, email string) error {
	if _, err := s.resolvePrincipal(ctx, email); err != nil {
		return err
	}

	if err := s.otpService.Issue(ctx, email); err != nil {
		return err
	}

	log.Printf("✅ OTP issued for %s", email)
	return nil
}

// VerifyOTP confirms a passcode and, on success, authenticates the
// principal exactly as a password login would.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*AuthResponse, error) {
	if err := s.otpService.Verify(ctx, email, code); err != nil {
		return nil, err
	}

	// Re-resolve: the record may have been deleted between request and
	// confirm.
	principal, err := s.resolvePrincipal(ctx, email)
	if err != nil {
		return nil, err
	}

	resp, err := s.issueSession(principal)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ %s logged in via OTP: #%d", principal.Role, principal.ID)
	return resp, nil
}

// GetPrincipal loads a principal by id and role for session introspection
func (s *AuthService) GetPrincipal(ctx context.Context, id uint, role string) (*domain.Principal, error) {
	switch role {
	case domain.RoleTeacher:
		teacher, err := s.teacherRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrPrincipalNotFound
			}
			return nil, err
		}
		return teacher.ToPrincipal(), nil
	case domain.RoleStudent:
		student, err := s.studentRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrPrincipalNotFound
			}
			return nil, err
		}
		return student.ToPrincipal(), nil
	default:
		return nil, domain.ErrPrincipalNotFound
	}
}

// resolvePrincipal looks up an email across both identity tables, teacher
// table first. A teacher record shadows a student record with the same
// email; the tables carry no cross-uniqueness constraint.
func (s *AuthService) resolvePrincipal(ctx context.Context, email string) (*domain.Principal, error) {
	teacher, err := s.teacherRepo.GetByEmail(ctx, email)
	if err == nil {
		return teacher.ToPrincipal(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup teacher: %w", err)
	}

	student, err := s.studentRepo.GetByEmail(ctx, email)
	if err == nil {
		return student.ToPrincipal(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup student: %w", err)
	}

	return nil, domain.ErrPrincipalNotFound
}

// issueSession builds the summary + signed session token pair
func (s *AuthService) issueSession(principal *domain.Principal) (*AuthResponse, error) {
	token, err := jwt.GenerateSessionToken(
		principal.ID,
		principal.Role,
		principal.IsAdmin,
		s.cfg.JWT.Secret,
		s.cfg.JWT.SessionHours,
	)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return &AuthResponse{
		Principal: principal.Summary(),
		Token:     token,
	}, nil
}
