package scheduling

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"petcare-clinic-server/internal/models"
	"petcare-clinic-server/internal/scope"
)

// fakeDirectory maps user ids to profile ids without a database.
type fakeDirectory struct {
	owners map[string]string
	vets   map[string]string
}

func (d *fakeDirectory) OwnerIDForUser(_ context.Context, userID string) (string, error) {
	return d.owners[userID], nil
}

func (d *fakeDirectory) VetIDForUser(_ context.Context, userID string) (string, error) {
	return d.vets[userID], nil
}

// fakeRepo is an in-memory Repository. A single mutex stands in for the
// per-vet row lock; it serializes WithVetLock callbacks the same way the
// database lock does.
type fakeRepo struct {
	mu           sync.Mutex
	vets         map[string]string // vet id -> display name
	pets         map[string]string // pet id -> owner id
	appointments map[string]*models.Appointment
	nextID       int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		vets:         make(map[string]string),
		pets:         make(map[string]string),
		appointments: make(map[string]*models.Appointment),
	}
}

func (r *fakeRepo) WithVetLock(ctx context.Context, vetID string, fn func(tx Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vets[vetID]; !ok {
		return ErrVetNotFound
	}
	return fn(r)
}

func (r *fakeRepo) VetDisplayName(_ context.Context, vetID string) (string, error) {
	name, ok := r.vets[vetID]
	if !ok {
		return "", ErrVetNotFound
	}
	return name, nil
}

func (r *fakeRepo) PetOwnedBy(_ context.Context, petID, ownerID string) (bool, error) {
	return r.pets[petID] == ownerID, nil
}

func (r *fakeRepo) CountOverlapping(_ context.Context, vetID string, from, to time.Time) (int64, error) {
	var n int64
	for _, a := range r.appointments {
		if a.VetID != vetID || a.Status == models.StatusCancelled {
			continue
		}
		if !a.AppointmentAt.Before(from) && !a.AppointmentAt.After(to) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, appt *models.Appointment) error {
	r.nextID++
	appt.ID = "appt-" + strconv.Itoa(r.nextID)
	copied := *appt
	r.appointments[appt.ID] = &copied
	return nil
}

func (r *fakeRepo) AppointmentForVet(_ context.Context, apptID, vetID string) (*models.Appointment, error) {
	a, ok := r.appointments[apptID]
	if !ok || a.VetID != vetID {
		return nil, ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeRepo) AppointmentForOwner(_ context.Context, apptID, ownerID string) (*models.Appointment, error) {
	a, ok := r.appointments[apptID]
	if !ok || a.OwnerID != ownerID {
		return nil, ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, apptID string, from, to models.AppointmentStatus) (int64, error) {
	a, ok := r.appointments[apptID]
	if !ok || a.Status != from {
		return 0, nil
	}
	a.Status = to
	return 1, nil
}

// seedAppointment inserts an existing appointment directly into the store.
func (r *fakeRepo) seedAppointment(id, petID, ownerID, vetID string, at time.Time, status models.AppointmentStatus) {
	r.appointments[id] = &models.Appointment{
		BaseModel:     models.BaseModel{ID: id},
		PetID:         petID,
		OwnerID:       ownerID,
		VetID:         vetID,
		AppointmentAt: at,
		Status:        status,
	}
}

func newTestService() (*Service, *fakeRepo, *fakeDirectory) {
	repo := newFakeRepo()
	repo.vets["vet-1"] = "Dr. Adams"
	repo.vets["vet-2"] = "Dr. Brown"
	repo.pets["pet-1"] = "owner-1"
	repo.pets["pet-2"] = "owner-2"

	dir := &fakeDirectory{
		owners: map[string]string{"user-owner-1": "owner-1", "user-owner-2": "owner-2"},
		vets:   map[string]string{"user-vet-1": "vet-1", "user-vet-2": "vet-2"},
	}
	return NewService(repo, dir), repo, dir
}

func ownerIdent(userID string) scope.Identity {
	return scope.Identity{UserID: userID, Role: models.RolePetOwner}
}

func vetIdent(userID string) scope.Identity {
	return scope.Identity{UserID: userID, Role: models.RoleVeterinarian}
}

func TestBookConflictWindow(t *testing.T) {
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		existingAt   time.Time
		existing     models.AppointmentStatus
		attemptAt    time.Time
		wantConflict bool
	}{
		{
			name:         "same time conflicts",
			existingAt:   base,
			existing:     models.StatusPending,
			attemptAt:    base,
			wantConflict: true,
		},
		{
			name:         "15 minutes later conflicts",
			existingAt:   base,
			existing:     models.StatusPending,
			attemptAt:    base.Add(15 * time.Minute),
			wantConflict: true,
		},
		{
			name:         "exactly 30 minutes later still conflicts",
			existingAt:   base,
			existing:     models.StatusConfirmed,
			attemptAt:    base.Add(30 * time.Minute),
			wantConflict: true,
		},
		{
			name:         "exactly 30 minutes earlier still conflicts",
			existingAt:   base,
			existing:     models.StatusPending,
			attemptAt:    base.Add(-30 * time.Minute),
			wantConflict: true,
		},
		{
			name:         "35 minutes later is free",
			existingAt:   base,
			existing:     models.StatusPending,
			attemptAt:    base.Add(35 * time.Minute),
			wantConflict: false,
		},
		{
			name:         "cancelled appointment frees the slot",
			existingAt:   base,
			existing:     models.StatusCancelled,
			attemptAt:    base,
			wantConflict: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			repo.seedAppointment("existing", "pet-2", "owner-2", "vet-1", tt.existingAt, tt.existing)

			appt, err := svc.Book(context.Background(), ownerIdent("user-owner-1"), "pet-1", "vet-1", tt.attemptAt)

			if tt.wantConflict {
				var conflict *ConflictError
				if !errors.As(err, &conflict) {
					t.Fatalf("Book() error = %v, want ConflictError", err)
				}
				if conflict.VetName != "Dr. Adams" {
					t.Errorf("ConflictError.VetName = %q, want %q", conflict.VetName, "Dr. Adams")
				}
				return
			}

			if err != nil {
				t.Fatalf("Book() unexpected error: %v", err)
			}
			if appt.Status != models.StatusPending {
				t.Errorf("new appointment status = %q, want %q", appt.Status, models.StatusPending)
			}
			if appt.OwnerID != "owner-1" || appt.VetID != "vet-1" {
				t.Errorf("appointment bound to (%s, %s), want (owner-1, vet-1)", appt.OwnerID, appt.VetID)
			}
		})
	}
}

func TestBookOtherVetUnaffected(t *testing.T) {
	svc, repo, _ := newTestService()
	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	repo.seedAppointment("existing", "pet-2", "owner-2", "vet-2", at, models.StatusPending)

	if _, err := svc.Book(context.Background(), ownerIdent("user-owner-1"), "pet-1", "vet-1", at); err != nil {
		t.Fatalf("Book() with a different vet should succeed, got %v", err)
	}
}

func TestBookGuards(t *testing.T) {
	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		ident   scope.Identity
		petID   string
		vetID   string
		wantErr error
	}{
		{
			name:    "owner without profile",
			ident:   ownerIdent("user-unknown"),
			petID:   "pet-1",
			vetID:   "vet-1",
			wantErr: ErrOwnerProfileMissing,
		},
		{
			name:    "pet owned by someone else reads as missing",
			ident:   ownerIdent("user-owner-1"),
			petID:   "pet-2",
			vetID:   "vet-1",
			wantErr: ErrPetNotFound,
		},
		{
			name:    "nonexistent pet",
			ident:   ownerIdent("user-owner-1"),
			petID:   "pet-404",
			vetID:   "vet-1",
			wantErr: ErrPetNotFound,
		},
		{
			name:    "nonexistent vet",
			ident:   ownerIdent("user-owner-1"),
			petID:   "pet-1",
			vetID:   "vet-404",
			wantErr: ErrVetNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService()
			_, err := svc.Book(context.Background(), tt.ident, tt.petID, tt.vetID, at)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Book() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Two bookings racing into the same window must serialize under the vet
// lock: exactly one inserts, the other observes the conflict.
func TestBookConcurrentSameWindow(t *testing.T) {
	svc, repo, _ := newTestService()
	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	attempts := []struct {
		ident scope.Identity
		petID string
	}{
		{ident: ownerIdent("user-owner-1"), petID: "pet-1"},
		{ident: ownerIdent("user-owner-2"), petID: "pet-2"},
	}

	errs := make(chan error, len(attempts))
	var wg sync.WaitGroup
	for _, a := range attempts {
		wg.Add(1)
		go func(ident scope.Identity, petID string) {
			defer wg.Done()
			_, err := svc.Book(context.Background(), ident, petID, "vet-1", at.Add(10*time.Minute))
			errs <- err
		}(a.ident, a.petID)
	}
	wg.Wait()
	close(errs)

	var booked, conflicted int
	for err := range errs {
		var conflict *ConflictError
		switch {
		case err == nil:
			booked++
		case errors.As(err, &conflict):
			conflicted++
		default:
			t.Fatalf("Book() unexpected error: %v", err)
		}
	}

	if booked != 1 || conflicted != 1 {
		t.Errorf("concurrent bookings: %d succeeded and %d conflicted, want exactly 1 of each", booked, conflicted)
	}
	if got := len(repo.appointments); got != 1 {
		t.Errorf("store holds %d appointments, want 1", got)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.AppointmentStatus
		to      models.AppointmentStatus
		wantErr error
	}{
		{name: "confirm pending", from: models.StatusPending, to: models.StatusConfirmed},
		{name: "complete pending", from: models.StatusPending, to: models.StatusCompleted},
		{name: "complete confirmed", from: models.StatusConfirmed, to: models.StatusCompleted},
		{name: "confirm confirmed", from: models.StatusConfirmed, to: models.StatusConfirmed, wantErr: ErrInvalidTransition},
		{name: "confirm completed", from: models.StatusCompleted, to: models.StatusConfirmed, wantErr: ErrInvalidTransition},
		{name: "confirm cancelled", from: models.StatusCancelled, to: models.StatusConfirmed, wantErr: ErrInvalidTransition},
		{name: "vet cannot cancel", from: models.StatusPending, to: models.StatusCancelled, wantErr: ErrInvalidTransition},
		{name: "vet cannot reset to pending", from: models.StatusConfirmed, to: models.StatusPending, wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
			repo.seedAppointment("a1", "pet-1", "owner-1", "vet-1", at, tt.from)

			appt, err := svc.UpdateStatus(context.Background(), vetIdent("user-vet-1"), "a1", tt.to)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UpdateStatus() error = %v, want %v", err, tt.wantErr)
				}
				if got := repo.appointments["a1"].Status; got != tt.from {
					t.Errorf("stored status mutated to %q on rejected transition", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("UpdateStatus() unexpected error: %v", err)
			}
			if appt.Status != tt.to {
				t.Errorf("returned status = %q, want %q", appt.Status, tt.to)
			}
			if got := repo.appointments["a1"].Status; got != tt.to {
				t.Errorf("stored status = %q, want %q", got, tt.to)
			}
		})
	}
}

func TestUpdateStatusMasksOtherVets(t *testing.T) {
	svc, repo, _ := newTestService()
	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	repo.seedAppointment("a1", "pet-1", "owner-1", "vet-1", at, models.StatusPending)

	// Another vet's appointment must be indistinguishable from a missing one.
	_, err := svc.UpdateStatus(context.Background(), vetIdent("user-vet-2"), "a1", models.StatusConfirmed)
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("UpdateStatus() by wrong vet: error = %v, want %v", err, ErrAppointmentNotFound)
	}

	// Same for a vet account that never set up its profile.
	_, err = svc.UpdateStatus(context.Background(), vetIdent("user-unknown"), "a1", models.StatusConfirmed)
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("UpdateStatus() with no vet profile: error = %v, want %v", err, ErrAppointmentNotFound)
	}
}

func TestCancel(t *testing.T) {
	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  models.AppointmentStatus
		ident   scope.Identity
		wantErr error
	}{
		{name: "cancel pending", status: models.StatusPending, ident: ownerIdent("user-owner-1")},
		{name: "cannot cancel confirmed", status: models.StatusConfirmed, ident: ownerIdent("user-owner-1"), wantErr: ErrInvalidTransition},
		{name: "cannot cancel completed", status: models.StatusCompleted, ident: ownerIdent("user-owner-1"), wantErr: ErrInvalidTransition},
		{name: "other owner sees not found", status: models.StatusPending, ident: ownerIdent("user-owner-2"), wantErr: ErrAppointmentNotFound},
		{name: "missing owner profile sees not found", status: models.StatusPending, ident: ownerIdent("user-unknown"), wantErr: ErrAppointmentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			repo.seedAppointment("a1", "pet-1", "owner-1", "vet-1", at, tt.status)

			appt, err := svc.Cancel(context.Background(), tt.ident, "a1")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Cancel() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Cancel() unexpected error: %v", err)
			}
			if appt.Status != models.StatusCancelled {
				t.Errorf("returned status = %q, want %q", appt.Status, models.StatusCancelled)
			}
		})
	}
}

// TestBookingLifecycle walks one appointment through the full flow:
// book, collide, re-book in a free slot, confirm, then fail to cancel.
func TestBookingLifecycle(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	booked, err := svc.Book(ctx, ownerIdent("user-owner-1"), "pet-1", "vet-1", at)
	if err != nil {
		t.Fatalf("initial Book() failed: %v", err)
	}

	// A second owner 15 minutes later hits the occupied window.
	_, err = svc.Book(ctx, ownerIdent("user-owner-2"), "pet-2", "vet-1", at.Add(15*time.Minute))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("overlapping Book() error = %v, want ConflictError", err)
	}

	// 35 minutes later is outside the window.
	if _, err := svc.Book(ctx, ownerIdent("user-owner-2"), "pet-2", "vet-1", at.Add(35*time.Minute)); err != nil {
		t.Fatalf("Book() outside window failed: %v", err)
	}

	// The assigned vet confirms; another vet cannot even see it.
	if _, err := svc.UpdateStatus(ctx, vetIdent("user-vet-2"), booked.ID, models.StatusConfirmed); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("wrong vet confirm: error = %v, want %v", err, ErrAppointmentNotFound)
	}
	confirmed, err := svc.UpdateStatus(ctx, vetIdent("user-vet-1"), booked.ID, models.StatusConfirmed)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != models.StatusConfirmed {
		t.Fatalf("status after confirm = %q", confirmed.Status)
	}

	// Once confirmed the owner can no longer cancel.
	if _, err := svc.Cancel(ctx, ownerIdent("user-owner-1"), booked.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancel after confirm: error = %v, want %v", err, ErrInvalidTransition)
	}
}
