package models

import (
	"time"

	"schoolrec/internal/core/domain"

	"gorm.io/gorm"
)

// Teacher represents teachers table (staff principals).
// Email is unique within this table only; the student table is not
// cross-checked against it.
type Teacher struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:100;not null" json:"name"`
	Email         string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	ContactNumber string         `gorm:"size:20" json:"contact_number"`
	Password      string         `gorm:"size:255;not null" json:"-"`
	IsAdmin       bool           `gorm:"default:false" json:"is_admin"`
	ProfilePhoto  *string        `gorm:"size:255" json:"profile_photo"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Teacher) TableName() string {
	return "teachers"
}

// ToPrincipal converts a teacher record to the unified principal view
func (t *Teacher) ToPrincipal() *domain.Principal {
	return &domain.Principal{
		ID:            t.ID,
		Name:          t.Name,
		Email:         t.Email,
		ContactNumber: t.ContactNumber,
		PasswordHash:  t.Password,
		IsAdmin:       t.IsAdmin,
		Role:          domain.RoleTeacher,
	}
}

// Student represents students table (enrolled member principals).
// Students never carry the admin flag.
type Student struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:100;not null" json:"name"`
	Email         string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	ContactNumber string         `gorm:"size:20" json:"contact_number"`
	Password      string         `gorm:"size:255;not null" json:"-"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Student) TableName() string {
	return "students"
}

// ToPrincipal converts a student record to the unified principal view
func (s *Student) ToPrincipal() *domain.Principal {
	return &domain.Principal{
		ID:            s.ID,
		Name:          s.Name,
		Email:         s.Email,
		ContactNumber: s.ContactNumber,
		PasswordHash:  s.Password,
		IsAdmin:       false,
		Role:          domain.RoleStudent,
	}
}

// AutoMigrate runs migrations for auth tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Teacher{},
		&Student{},
	)
}
