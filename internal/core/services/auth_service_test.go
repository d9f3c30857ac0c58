package services

import (
	"context"
	"testing"

	"schoolrec/internal/adapters/cache"
	"schoolrec/internal/adapters/persistence/models"
	"schoolrec/internal/config"
	"schoolrec/internal/core/domain"
	"schoolrec/internal/pkg/jwt"
	"schoolrec/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubTeacherRepo serves teachers from a map keyed by email
type stubTeacherRepo struct {
	teachers map[string]*models.Teacher
}

func (r *stubTeacherRepo) GetByID(ctx context.Context, id uint) (*models.Teacher, error) {
	for _, t := range r.teachers {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTeacherRepo) GetByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	if t, ok := r.teachers[email]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTeacherRepo) ExistsAdmin(ctx context.Context) (bool, error) {
	for _, t := range r.teachers {
		if t.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	r.teachers[teacher.Email] = teacher
	return nil
}

// stubStudentRepo serves students from a map keyed by email
type stubStudentRepo struct {
	students map[string]*models.Student
}

func (r *stubStudentRepo) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	for _, s := range r.students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubStudentRepo) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	if s, ok := r.students[email]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	hash, err := password.Hash(plain)
	require.NoError(t, err)
	return hash
}

type authFixture struct {
	svc         *AuthService
	teacherRepo *stubTeacherRepo
	studentRepo *stubStudentRepo
	mailer      *stubMailer
	cfg         *config.Config
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	teacherRepo := &stubTeacherRepo{teachers: map[string]*models.Teacher{
		"t@s.com": {
			ID:            7,
			Name:          "Tessa Staff",
			Email:         "t@s.com",
			ContactNumber: "0812345678",
			Password:      mustHash(t, "pw123"),
			IsAdmin:       true,
		},
	}}
	studentRepo := &stubStudentRepo{students: map[string]*models.Student{
		"s@s.com": {
			ID:            3,
			Name:          "Sam Learner",
			Email:         "s@s.com",
			ContactNumber: "0898765432",
			Password:      mustHash(t, "studentpw"),
		},
	}}

	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", SessionHours: 24},
	}
	mailer := &stubMailer{}
	otpService := NewOTPService(cache.NewMemoryChallengeStore(), mailer)

	return &authFixture{
		svc:         NewAuthService(teacherRepo, studentRepo, otpService, cfg),
		teacherRepo: teacherRepo,
		studentRepo: studentRepo,
		mailer:      mailer,
		cfg:         cfg,
	}
}

func TestLogin_TeacherAdmin(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.Login(context.Background(), &LoginInput{Email: "t@s.com", Password: "pw123"})
	require.NoError(t, err)

	assert.Equal(t, uint(7), resp.Principal.ID)
	assert.Equal(t, "t@s.com", resp.Principal.Email)
	assert.Equal(t, "0812345678", resp.Principal.ContactNumber)
	assert.Equal(t, domain.RoleTeacher, resp.Principal.Role)
	assert.True(t, resp.Principal.IsAdmin)

	// Decoded token claims mirror the record
	claims, err := jwt.ValidateSessionToken(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, domain.RoleTeacher, claims.Role)
	assert.True(t, claims.IsAdmin)
}

func TestLogin_Student(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.Login(context.Background(), &LoginInput{Email: "s@s.com", Password: "studentpw"})
	require.NoError(t, err)

	assert.Equal(t, uint(3), resp.Principal.ID)
	assert.Equal(t, domain.RoleStudent, resp.Principal.Role)
	assert.False(t, resp.Principal.IsAdmin)

	claims, err := jwt.ValidateSessionToken(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, claims.Role)
	assert.False(t, claims.IsAdmin)
}

// Wrong password and unknown account must be indistinguishable.
func TestLogin_NoEnumeration(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, errWrongPassword := f.svc.Login(ctx, &LoginInput{Email: "t@s.com", Password: "wrong"})
	_, errUnknownEmail := f.svc.Login(ctx, &LoginInput{Email: "nouser@s.com", Password: "x"})

	require.ErrorIs(t, errWrongPassword, domain.ErrInvalidCredentials)
	require.ErrorIs(t, errUnknownEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword, errUnknownEmail)
}

// An email present in both tables always resolves to the teacher record.
func TestLogin_TeacherShadowsStudent(t *testing.T) {
	f := newAuthFixture(t)

	f.teacherRepo.teachers["both@s.com"] = &models.Teacher{
		ID:       11,
		Name:     "Shadow Teacher",
		Email:    "both@s.com",
		Password: mustHash(t, "teacherpw"),
	}
	f.studentRepo.students["both@s.com"] = &models.Student{
		ID:       12,
		Name:     "Shadowed Student",
		Email:    "both@s.com",
		Password: mustHash(t, "studentpw"),
	}

	resp, err := f.svc.Login(context.Background(), &LoginInput{Email: "both@s.com", Password: "teacherpw"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTeacher, resp.Principal.Role)
	assert.Equal(t, uint(11), resp.Principal.ID)

	// The student record is unreachable, even with its own password
	_, err = f.svc.Login(context.Background(), &LoginInput{Email: "both@s.com", Password: "studentpw"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRequestOTP_UnknownPrincipal(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.RequestOTP(context.Background(), "nobody@s.com")
	assert.ErrorIs(t, err, domain.ErrPrincipalNotFound)
	assert.Empty(t, f.mailer.lastCode)
}

func TestOTPLogin_RoundTrip(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestOTP(ctx, "s@s.com"))
	require.Equal(t, "s@s.com", f.mailer.lastEmail)

	resp, err := f.svc.VerifyOTP(ctx, "s@s.com", f.mailer.lastCode)
	require.NoError(t, err)
	assert.Equal(t, uint(3), resp.Principal.ID)
	assert.Equal(t, domain.RoleStudent, resp.Principal.Role)
	assert.NotEmpty(t, resp.Token)

	// Consumed: the same code cannot log in twice
	_, err = f.svc.VerifyOTP(ctx, "s@s.com", f.mailer.lastCode)
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestOTPLogin_PrincipalVanished(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestOTP(ctx, "s@s.com"))
	delete(f.studentRepo.students, "s@s.com")

	_, err := f.svc.VerifyOTP(ctx, "s@s.com", f.mailer.lastCode)
	assert.ErrorIs(t, err, domain.ErrPrincipalNotFound)
}

func TestGetPrincipal(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	teacher, err := f.svc.GetPrincipal(ctx, 7, domain.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, "t@s.com", teacher.Email)

	student, err := f.svc.GetPrincipal(ctx, 3, domain.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "s@s.com", student.Email)

	_, err = f.svc.GetPrincipal(ctx, 99, domain.RoleTeacher)
	assert.ErrorIs(t, err, domain.ErrPrincipalNotFound)

	_, err = f.svc.GetPrincipal(ctx, 7, "janitor")
	assert.ErrorIs(t, err, domain.ErrPrincipalNotFound)
}
