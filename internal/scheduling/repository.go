package scheduling

import (
	"context"
	"errors"
	"time"

	"petcare-clinic-server/internal/models"
)

var (
	ErrVetNotFound         = errors.New("veterinarian not found")
	ErrPetNotFound         = errors.New("pet not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository is the persistence boundary of the scheduling core.
type Repository interface {
	// WithVetLock runs fn inside a transaction that holds an exclusive
	// lock on the veterinarian row, so concurrent bookings for the same
	// vet are serialized: two requests cannot both observe a free window
	// and both insert into it. Returns ErrVetNotFound if the vet does
	// not exist. fn receives a Repository bound to the transaction.
	WithVetLock(ctx context.Context, vetID string, fn func(tx Repository) error) error

	// VetDisplayName returns the veterinarian's user display name.
	VetDisplayName(ctx context.Context, vetID string) (string, error)

	// PetOwnedBy reports whether the pet exists and belongs to the owner.
	PetOwnedBy(ctx context.Context, petID, ownerID string) (bool, error)

	// CountOverlapping counts non-cancelled appointments for the vet
	// whose timestamp lies in [from, to], both bounds inclusive.
	CountOverlapping(ctx context.Context, vetID string, from, to time.Time) (int64, error)

	// CreateAppointment inserts a new appointment.
	CreateAppointment(ctx context.Context, appt *models.Appointment) error

	// AppointmentForVet loads an appointment only if it is assigned to
	// the vet; otherwise ErrAppointmentNotFound. Not finding a row and
	// not owning it are deliberately indistinguishable.
	AppointmentForVet(ctx context.Context, apptID, vetID string) (*models.Appointment, error)

	// AppointmentForOwner is the owner-side counterpart of
	// AppointmentForVet.
	AppointmentForOwner(ctx context.Context, apptID, ownerID string) (*models.Appointment, error)

	// UpdateStatus performs a guarded status change: the row is updated
	// only if its current status equals from. Returns the number of rows
	// changed, so a lost race surfaces as zero.
	UpdateStatus(ctx context.Context, apptID string, from, to models.AppointmentStatus) (int64, error)
}
