package repositories

import (
	"context"

	"schoolrec/internal/adapters/persistence/models"
)

// TeacherRepository defines teacher repository interface.
// The auth core only reads; records are managed by the record-store side
// of the API.
type TeacherRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Teacher, error)
	GetByEmail(ctx context.Context, email string) (*models.Teacher, error)
	ExistsAdmin(ctx context.Context) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
}

// StudentRepository defines student repository interface
type StudentRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
}
