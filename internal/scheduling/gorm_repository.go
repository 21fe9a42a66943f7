package scheduling

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

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

// WithVetLock opens a transaction and takes SELECT ... FOR UPDATE on the
// veterinarian row before running fn, so the conflict check and the
// insert evaluate as one serialized unit per vet.
func (r *GormRepository) WithVetLock(ctx context.Context, vetID string, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vet models.Veterinarian
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").Where("id = ?", vetID).First(&vet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVetNotFound
		}
		if err != nil {
			return err
		}
		return fn(&GormRepository{db: tx})
	})
}

// VetDisplayName returns the full name of the user behind a vet profile.
func (r *GormRepository) VetDisplayName(ctx context.Context, vetID string) (string, error) {
	var name string
	err := r.db.WithContext(ctx).
		Model(&models.Veterinarian{}).
		Select("users.full_name").
		Joins("JOIN users ON users.id = veterinarians.user_id").
		Where("veterinarians.id = ?", vetID).
		Scan(&name).Error
	if err != nil {
		return "", err
	}
	return name, nil
}

// PetOwnedBy reports whether the pet exists and belongs to the owner.
func (r *GormRepository) PetOwnedBy(ctx context.Context, petID, ownerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Where("id = ? AND owner_id = ?", petID, ownerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountOverlapping counts non-cancelled appointments for the vet in the
// closed interval [from, to]. BETWEEN keeps both bounds inclusive, which
// makes appointments exactly 30 minutes apart conflict.
func (r *GormRepository) CountOverlapping(ctx context.Context, vetID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("vet_id = ? AND appointment_at BETWEEN ? AND ? AND status <> ?",
			vetID, from, to, models.StatusCancelled).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CreateAppointment inserts a new appointment.
func (r *GormRepository) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

// AppointmentForVet loads an appointment assigned to the given vet.
func (r *GormRepository) AppointmentForVet(ctx context.Context, apptID, vetID string) (*models.Appointment, error) {
	return r.appointmentWhere(ctx, "id = ? AND vet_id = ?", apptID, vetID)
}

// AppointmentForOwner loads an appointment belonging to the given owner.
func (r *GormRepository) AppointmentForOwner(ctx context.Context, apptID, ownerID string) (*models.Appointment, error) {
	return r.appointmentWhere(ctx, "id = ? AND owner_id = ?", apptID, ownerID)
}

func (r *GormRepository) appointmentWhere(ctx context.Context, query string, args ...interface{}) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).Where(query, args...).First(&appt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// UpdateStatus changes the appointment status only when the current
// status still equals from, reporting how many rows changed.
func (r *GormRepository) UpdateStatus(ctx context.Context, apptID string, from, to models.AppointmentStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", apptID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}
