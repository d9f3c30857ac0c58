package repositories

import (
	"context"

	"schoolrec/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// teacherRepository implements TeacherRepository interface
type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository creates a new teacher repository
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

// GetByID gets a teacher by ID
func (r *teacherRepository) GetByID(ctx context.Context, id uint) (*models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

// GetByEmail gets a teacher by email (exact match)
func (r *teacherRepository) GetByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

// ExistsAdmin checks if any admin teacher exists
func (r *teacherRepository) ExistsAdmin(ctx context.Context) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Teacher{}).Where("is_admin = ?", true).Count(&count).Error
	return count > 0, err
}

// Create creates a teacher record (used by the admin seeder only)
func (r *teacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	return r.db.WithContext(ctx).Create(teacher).Error
}
