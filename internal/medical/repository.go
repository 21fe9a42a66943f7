package medical

import (
	"context"
	"errors"
	"time"

	"petcare-clinic-server/internal/models"
)

var ErrPetNotFound = errors.New("pet not found")

// Repository is the persistence boundary of the medical record core.
type Repository interface {
	// WithTx runs fn inside one transaction. The entry insert and the
	// same-day appointment completion commit or roll back together, so
	// a medical entry is never visible without its side effect having
	// been attempted, and vice versa.
	WithTx(ctx context.Context, fn func(tx Repository) error) error

	// PetExists reports whether the pet exists.
	PetExists(ctx context.Context, petID string) (bool, error)

	// CreateVaccination inserts an immutable vaccination entry.
	CreateVaccination(ctx context.Context, v *models.Vaccination) error

	// CreateMedication inserts an immutable medication entry.
	CreateMedication(ctx context.Context, m *models.Medication) error

	// CompleteAppointmentsOn marks every non-cancelled appointment for
	// the (pet, vet) pair dated on day as completed, returning how many
	// rows changed. Zero matches is not an error.
	CompleteAppointmentsOn(ctx context.Context, petID, vetID string, day time.Time) (int64, error)
}
