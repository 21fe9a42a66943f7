package medical

import (
	"context"
	"time"

	"gorm.io/gorm"

	"petcare-clinic-server/internal/models"
)

// GormRepository implements Repository on the shared MySQL store.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GormRepository.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// WithTx runs fn inside a database transaction.
func (r *GormRepository) WithTx(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

// PetExists reports whether the pet exists.
func (r *GormRepository) PetExists(ctx context.Context, petID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Where("id = ?", petID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateVaccination inserts a vaccination entry.
func (r *GormRepository) CreateVaccination(ctx context.Context, v *models.Vaccination) error {
	return r.db.WithContext(ctx).Create(v).Error
}

// CreateMedication inserts a medication entry.
func (r *GormRepository) CreateMedication(ctx context.Context, m *models.Medication) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// CompleteAppointmentsOn marks the (pet, vet) pair's non-cancelled
// appointments dated on day as completed. Date comparison happens
// server-side so it agrees with the store's clock handling.
func (r *GormRepository) CompleteAppointmentsOn(ctx context.Context, petID, vetID string, day time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("pet_id = ? AND vet_id = ? AND DATE(appointment_at) = DATE(?) AND status <> ?",
			petID, vetID, day, models.StatusCancelled).
		Update("status", models.StatusCompleted)
	return res.RowsAffected, res.Error
}
