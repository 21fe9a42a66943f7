package scope

import (
	"gorm.io/gorm"
)

// Kind discriminates visibility scopes.
type Kind int

const (
	// KindAll places no restriction on rows (admin).
	KindAll Kind = iota
	// KindVet restricts rows to one veterinarian profile.
	KindVet
	// KindOwner restricts rows to one owner profile.
	KindOwner
	// KindNone matches no rows at all. It models an authenticated vet or
	// owner account that never completed profile setup: a valid transient
	// state that yields empty listings, never an error.
	KindNone
)

// emptySet is a predicate no row satisfies.
const emptySet = "1 = 0"

// Scope is the resolved visibility of one request. It is computed once
// from the caller's identity and threaded into every listing and detail
// query, so that dashboards, management lists and autocomplete all answer
// "who can see what" the same way.
type Scope struct {
	kind      Kind
	profileID string
}

// All returns the unrestricted scope.
func All() Scope { return Scope{kind: KindAll} }

// ForVet returns a scope limited to the given veterinarian profile.
func ForVet(vetID string) Scope { return Scope{kind: KindVet, profileID: vetID} }

// ForOwner returns a scope limited to the given owner profile.
func ForOwner(ownerID string) Scope { return Scope{kind: KindOwner, profileID: ownerID} }

// None returns the scope that sees nothing.
func None() Scope { return Scope{kind: KindNone} }

// Kind returns the scope discriminator.
func (s Scope) Kind() Kind { return s.kind }

// ProfileID returns the vet or owner profile id the scope is bound to,
// or "" for All and None.
func (s Scope) ProfileID() string { return s.profileID }

// AppointmentClause returns the SQL predicate restricting appointment rows
// to this scope. An empty clause means no restriction.
func (s Scope) AppointmentClause() (string, []interface{}) {
	switch s.kind {
	case KindAll:
		return "", nil
	case KindVet:
		return "appointments.vet_id = ?", []interface{}{s.profileID}
	case KindOwner:
		return "appointments.owner_id = ?", []interface{}{s.profileID}
	default:
		return emptySet, nil
	}
}

// PetClause returns the SQL predicate restricting pet rows to this scope.
// Veterinarians do not browse the pet register, so a vet scope sees none.
func (s Scope) PetClause() (string, []interface{}) {
	switch s.kind {
	case KindAll:
		return "", nil
	case KindOwner:
		return "pets.owner_id = ?", []interface{}{s.profileID}
	default:
		return emptySet, nil
	}
}

// MedicalClause returns the SQL predicate restricting vaccination or
// medication rows to this scope. The table name qualifies the vet_id
// column so the clause survives joins.
func (s Scope) MedicalClause(table string) (string, []interface{}) {
	switch s.kind {
	case KindAll:
		return "", nil
	case KindVet:
		return table + ".vet_id = ?", []interface{}{s.profileID}
	default:
		return emptySet, nil
	}
}

// ApplyAppointments narrows an appointment query to this scope.
func (s Scope) ApplyAppointments(db *gorm.DB) *gorm.DB {
	clause, args := s.AppointmentClause()
	return apply(db, clause, args)
}

// ApplyPets narrows a pet query to this scope.
func (s Scope) ApplyPets(db *gorm.DB) *gorm.DB {
	clause, args := s.PetClause()
	return apply(db, clause, args)
}

// ApplyMedical narrows a vaccination or medication query to this scope.
func (s Scope) ApplyMedical(db *gorm.DB, table string) *gorm.DB {
	clause, args := s.MedicalClause(table)
	return apply(db, clause, args)
}

func apply(db *gorm.DB, clause string, args []interface{}) *gorm.DB {
	if clause == "" {
		return db
	}
	return db.Where(clause, args...)
}
