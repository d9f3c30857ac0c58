package domain

// Principal roles
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Principal is the unified view of an authenticated identity.
// Teachers and students live in separate tables; resolution always tries
// the teacher table first, so a teacher record shadows a student record
// that carries the same email.
type Principal struct {
	ID            uint
	Name          string
	Email         string
	ContactNumber string
	PasswordHash  string
	IsAdmin       bool // only ever true for teachers
	Role          string
}

// PrincipalSummary is the login response DTO.
type PrincipalSummary struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contact_number"`
	IsAdmin       bool   `json:"isAdmin"`
	Role          string `json:"role"`
}

// Summary strips credential material for the response body.
func (p *Principal) Summary() *PrincipalSummary {
	return &PrincipalSummary{
		ID:            p.ID,
		Name:          p.Name,
		Email:         p.Email,
		ContactNumber: p.ContactNumber,
		IsAdmin:       p.IsAdmin,
		Role:          p.Role,
	}
}
