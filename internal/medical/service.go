package medical

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petcare-clinic-server/internal/models"
	"petcare-clinic-server/internal/scope"
)

var ErrVetProfileMissing = errors.New("veterinarian profile not set up")

// VaccinationInput carries the fields of a new vaccination entry.
type VaccinationInput struct {
	PetID       string
	VaccineName string
	DateGiven   time.Time
	NextDueDate *time.Time
	Notes       string
}

// MedicationInput carries the fields of a new medication entry.
type MedicationInput struct {
	PetID        string
	MedicineName string
	Dosage       string
	StartDate    time.Time
	EndDate      *time.Time
	Notes        string
}

// Service records vaccinations and medications on behalf of the calling
// veterinarian. Recording an entry also marks the pair's appointments
// for the current date as completed: a same-day medical entry is taken
// as evidence the visit happened. This is a heuristic, not a business
// rule — it may complete zero, one or several appointments, and finding
// none never fails the write.
type Service struct {
	repo     Repository
	profiles scope.ProfileDirectory
	now      func() time.Time
}

// NewService creates a new medical Service.
func NewService(repo Repository, profiles scope.ProfileDirectory) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		now:      time.Now,
	}
}

// RecordVaccination inserts a vaccination entry and completes today's
// matching appointments in one atomic unit.
func (s *Service) RecordVaccination(ctx context.Context, ident scope.Identity, in VaccinationInput) (*models.Vaccination, error) {
	vetID, err := s.vetID(ctx, ident)
	if err != nil {
		return nil, err
	}
	if err := s.checkPet(ctx, in.PetID); err != nil {
		return nil, err
	}

	rec := &models.Vaccination{
		PetID:       in.PetID,
		VetID:       vetID,
		VaccineName: in.VaccineName,
		DateGiven:   in.DateGiven,
		NextDueDate: in.NextDueDate,
		Notes:       in.Notes,
	}

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		if err := tx.CreateVaccination(ctx, rec); err != nil {
			return fmt.Errorf("create vaccination: %w", err)
		}
		if _, err := tx.CompleteAppointmentsOn(ctx, in.PetID, vetID, s.now()); err != nil {
			return fmt.Errorf("complete today's appointments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// RecordMedication inserts a medication entry and completes today's
// matching appointments in one atomic unit.
func (s *Service) RecordMedication(ctx context.Context, ident scope.Identity, in MedicationInput) (*models.Medication, error) {
	vetID, err := s.vetID(ctx, ident)
	if err != nil {
		return nil, err
	}
	if err := s.checkPet(ctx, in.PetID); err != nil {
		return nil, err
	}

	rec := &models.Medication{
		PetID:        in.PetID,
		VetID:        vetID,
		MedicineName: in.MedicineName,
		Dosage:       in.Dosage,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Notes:        in.Notes,
	}

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		if err := tx.CreateMedication(ctx, rec); err != nil {
			return fmt.Errorf("create medication: %w", err)
		}
		if _, err := tx.CompleteAppointmentsOn(ctx, in.PetID, vetID, s.now()); err != nil {
			return fmt.Errorf("complete today's appointments: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *Service) vetID(ctx context.Context, ident scope.Identity) (string, error) {
	vetID, err := s.profiles.VetIDForUser(ctx, ident.UserID)
	if err != nil {
		return "", fmt.Errorf("resolve vet profile: %w", err)
	}
	if vetID == "" {
		return "", ErrVetProfileMissing
	}
	return vetID, nil
}

func (s *Service) checkPet(ctx context.Context, petID string) error {
	exists, err := s.repo.PetExists(ctx, petID)
	if err != nil {
		return fmt.Errorf("check pet: %w", err)
	}
	if !exists {
		return ErrPetNotFound
	}
	return nil
}
