package scope

import (
	"context"
	"reflect"
	"testing"

	"petcare-clinic-server/internal/models"
)

func TestAppointmentClause(t *testing.T) {
	tests := []struct {
		name     string
		scope    Scope
		wantSQL  string
		wantArgs []interface{}
	}{
		{name: "admin sees all", scope: All(), wantSQL: "", wantArgs: nil},
		{name: "vet sees own", scope: ForVet("vet-1"), wantSQL: "appointments.vet_id = ?", wantArgs: []interface{}{"vet-1"}},
		{name: "owner sees own", scope: ForOwner("owner-1"), wantSQL: "appointments.owner_id = ?", wantArgs: []interface{}{"owner-1"}},
		{name: "no profile sees nothing", scope: None(), wantSQL: "1 = 0", wantArgs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.scope.AppointmentClause()
			if sql != tt.wantSQL {
				t.Errorf("clause = %q, want %q", sql, tt.wantSQL)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestPetClause(t *testing.T) {
	tests := []struct {
		name    string
		scope   Scope
		wantSQL string
	}{
		{name: "admin sees all", scope: All(), wantSQL: ""},
		{name: "owner sees own", scope: ForOwner("owner-1"), wantSQL: "pets.owner_id = ?"},
		{name: "vets do not browse pets", scope: ForVet("vet-1"), wantSQL: "1 = 0"},
		{name: "no profile sees nothing", scope: None(), wantSQL: "1 = 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _ := tt.scope.PetClause()
			if sql != tt.wantSQL {
				t.Errorf("clause = %q, want %q", sql, tt.wantSQL)
			}
		})
	}
}

func TestMedicalClause(t *testing.T) {
	tests := []struct {
		name    string
		scope   Scope
		table   string
		wantSQL string
	}{
		{name: "admin sees all", scope: All(), table: "vaccinations", wantSQL: ""},
		{name: "vet sees own vaccinations", scope: ForVet("vet-1"), table: "vaccinations", wantSQL: "vaccinations.vet_id = ?"},
		{name: "vet sees own medications", scope: ForVet("vet-1"), table: "medications", wantSQL: "medications.vet_id = ?"},
		{name: "owner does not list the register", scope: ForOwner("owner-1"), table: "vaccinations", wantSQL: "1 = 0"},
		{name: "no profile sees nothing", scope: None(), table: "medications", wantSQL: "1 = 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _ := tt.scope.MedicalClause(tt.table)
			if sql != tt.wantSQL {
				t.Errorf("clause = %q, want %q", sql, tt.wantSQL)
			}
		})
	}
}

type stubDirectory struct {
	vets   map[string]string
	owners map[string]string
}

func (d *stubDirectory) VetIDForUser(_ context.Context, userID string) (string, error) {
	return d.vets[userID], nil
}

func (d *stubDirectory) OwnerIDForUser(_ context.Context, userID string) (string, error) {
	return d.owners[userID], nil
}

func TestResolve(t *testing.T) {
	dir := &stubDirectory{
		vets:   map[string]string{"user-vet": "vet-1"},
		owners: map[string]string{"user-owner": "owner-1"},
	}
	resolver := NewResolver(dir)

	tests := []struct {
		name          string
		ident         Identity
		wantKind      Kind
		wantProfileID string
	}{
		{name: "admin", ident: Identity{UserID: "user-admin", Role: models.RoleAdmin}, wantKind: KindAll},
		{name: "vet with profile", ident: Identity{UserID: "user-vet", Role: models.RoleVeterinarian}, wantKind: KindVet, wantProfileID: "vet-1"},
		{name: "owner with profile", ident: Identity{UserID: "user-owner", Role: models.RolePetOwner}, wantKind: KindOwner, wantProfileID: "owner-1"},
		{name: "vet without profile", ident: Identity{UserID: "user-new", Role: models.RoleVeterinarian}, wantKind: KindNone},
		{name: "owner without profile", ident: Identity{UserID: "user-new", Role: models.RolePetOwner}, wantKind: KindNone},
		{name: "unknown role", ident: Identity{UserID: "user-x", Role: "ghost"}, wantKind: KindNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := resolver.Resolve(context.Background(), tt.ident)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if sc.Kind() != tt.wantKind {
				t.Errorf("kind = %v, want %v", sc.Kind(), tt.wantKind)
			}
			if sc.ProfileID() != tt.wantProfileID {
				t.Errorf("profile id = %q, want %q", sc.ProfileID(), tt.wantProfileID)
			}
		})
	}
}
