package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petcare-clinic-server/internal/models"
	"petcare-clinic-server/internal/scope"
)

// SlotWindow is the exclusion buffer around an appointment: a booking
// occupies [t - SlotWindow, t + SlotWindow] and no second non-cancelled
// appointment for the same vet may fall inside it.
const SlotWindow = 30 * time.Minute

var (
	ErrOwnerProfileMissing = errors.New("owner profile not set up")
	ErrInvalidTransition   = errors.New("invalid appointment status transition")
)

// ConflictError reports a booking attempt into an occupied slot. It
// carries the conflicting veterinarian's display name for UI feedback.
type ConflictError struct {
	VetName string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time slot not available for %s", e.VetName)
}

// Service implements appointment booking and the status state machine.
// It is request-scoped and stateless between calls; every operation is a
// single unit of work against the store.
type Service struct {
	repo     Repository
	profiles scope.ProfileDirectory
	now      func() time.Time
}

// NewService creates a new scheduling Service.
func NewService(repo Repository, profiles scope.ProfileDirectory) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		now:      time.Now,
	}
}

// Book creates a pending appointment for one of the caller's pets,
// rejecting it with a ConflictError when any existing non-cancelled
// appointment for the vet lies within SlotWindow of the requested time.
// The boundary is inclusive: exactly 30 minutes apart still conflicts.
func (s *Service) Book(ctx context.Context, ident scope.Identity, petID, vetID string, at time.Time) (*models.Appointment, error) {
	ownerID, err := s.profiles.OwnerIDForUser(ctx, ident.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve owner profile: %w", err)
	}
	if ownerID == "" {
		return nil, ErrOwnerProfileMissing
	}

	owned, err := s.repo.PetOwnedBy(ctx, petID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("check pet ownership: %w", err)
	}
	if !owned {
		// A pet that exists but belongs to someone else reads the same
		// as one that does not exist.
		return nil, ErrPetNotFound
	}

	var created *models.Appointment

	err = s.repo.WithVetLock(ctx, vetID, func(tx Repository) error {
		overlapping, err := tx.CountOverlapping(ctx, vetID, at.Add(-SlotWindow), at.Add(SlotWindow))
		if err != nil {
			return fmt.Errorf("check slot conflicts: %w", err)
		}
		if overlapping > 0 {
			name, err := tx.VetDisplayName(ctx, vetID)
			if err != nil {
				return fmt.Errorf("load vet name: %w", err)
			}
			return &ConflictError{VetName: name}
		}

		appt := &models.Appointment{
			PetID:         petID,
			OwnerID:       ownerID,
			VetID:         vetID,
			AppointmentAt: at,
			Status:        models.StatusPending,
		}
		if err := tx.CreateAppointment(ctx, appt); err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		created = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateStatus moves an appointment to confirmed or completed. Only the
// assigned veterinarian may do this; an appointment assigned to another
// vet reports ErrAppointmentNotFound rather than a permission error, so
// existence never leaks across tenants.
func (s *Service) UpdateStatus(ctx context.Context, ident scope.Identity, apptID string, to models.AppointmentStatus) (*models.Appointment, error) {
	vetID, err := s.profiles.VetIDForUser(ctx, ident.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve vet profile: %w", err)
	}
	if vetID == "" {
		return nil, ErrAppointmentNotFound
	}

	appt, err := s.repo.AppointmentForVet(ctx, apptID, vetID)
	if err != nil {
		return nil, err
	}

	if to != models.StatusConfirmed && to != models.StatusCompleted {
		return nil, ErrInvalidTransition
	}
	if !canTransition(appt.Status, to) {
		return nil, ErrInvalidTransition
	}

	changed, err := s.repo.UpdateStatus(ctx, apptID, appt.Status, to)
	if err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	if changed == 0 {
		// Someone else transitioned the appointment between our read and
		// the guarded write.
		return nil, ErrInvalidTransition
	}

	appt.Status = to
	return appt, nil
}

// Cancel moves a pending appointment to cancelled. Only the owning pet
// owner may cancel, and only while the appointment is still pending;
// cancelling frees the slot immediately for re-booking.
func (s *Service) Cancel(ctx context.Context, ident scope.Identity, apptID string) (*models.Appointment, error) {
	ownerID, err := s.profiles.OwnerIDForUser(ctx, ident.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve owner profile: %w", err)
	}
	if ownerID == "" {
		return nil, ErrAppointmentNotFound
	}

	appt, err := s.repo.AppointmentForOwner(ctx, apptID, ownerID)
	if err != nil {
		return nil, err
	}

	if appt.Status != models.StatusPending {
		return nil, ErrInvalidTransition
	}

	changed, err := s.repo.UpdateStatus(ctx, apptID, models.StatusPending, models.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	if changed == 0 {
		return nil, ErrInvalidTransition
	}

	appt.Status = models.StatusCancelled
	return appt, nil
}

// canTransition encodes the status machine: pending -> confirmed ->
// completed, with cancelled reachable from pending only. Completed and
// cancelled are terminal.
func canTransition(from, to models.AppointmentStatus) bool {
	switch to {
	case models.StatusConfirmed:
		return from == models.StatusPending
	case models.StatusCompleted:
		return from == models.StatusPending || from == models.StatusConfirmed
	case models.StatusCancelled:
		return from == models.StatusPending
	default:
		return false
	}
}
