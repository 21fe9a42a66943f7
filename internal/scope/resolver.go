package scope

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"petcare-clinic-server/internal/models"
)

// Identity is the resolved caller of a request: who they are and what
// role they hold. It is produced once by the auth middleware and passed
// explicitly into every core operation; nothing downstream re-derives it
// from raw credentials.
type Identity struct {
	UserID string
	Role   models.Role
}

// ProfileDirectory looks up role-profile ids for a user. Lookups return
// "" without error when the profile row does not exist yet.
type ProfileDirectory interface {
	VetIDForUser(ctx context.Context, userID string) (string, error)
	OwnerIDForUser(ctx context.Context, userID string) (string, error)
}

// Resolver turns an Identity into the visibility Scope for a request.
type Resolver struct {
	profiles ProfileDirectory
}

// NewResolver creates a new Resolver.
func NewResolver(profiles ProfileDirectory) *Resolver {
	return &Resolver{profiles: profiles}
}

// Resolve computes the caller's scope. Admins see everything; vets and
// owners see rows bound to their profile; a vet or owner without a
// profile row resolves to the empty scope, not an error.
func (r *Resolver) Resolve(ctx context.Context, ident Identity) (Scope, error) {
	switch ident.Role {
	case models.RoleAdmin:
		return All(), nil
	case models.RoleVeterinarian:
		vetID, err := r.profiles.VetIDForUser(ctx, ident.UserID)
		if err != nil {
			return None(), err
		}
		if vetID == "" {
			return None(), nil
		}
		return ForVet(vetID), nil
	case models.RolePetOwner:
		ownerID, err := r.profiles.OwnerIDForUser(ctx, ident.UserID)
		if err != nil {
			return None(), err
		}
		if ownerID == "" {
			return None(), nil
		}
		return ForOwner(ownerID), nil
	default:
		return None(), nil
	}
}

// GormDirectory implements ProfileDirectory against the relational store.
type GormDirectory struct {
	DB *gorm.DB
}

// NewGormDirectory creates a new GormDirectory.
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{DB: db}
}

// VetIDForUser returns the veterinarian profile id for a user, or "" if
// the user has no veterinarian profile.
func (d *GormDirectory) VetIDForUser(ctx context.Context, userID string) (string, error) {
	var vet models.Veterinarian
	err := d.DB.WithContext(ctx).Select("id").Where("user_id = ?", userID).First(&vet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return vet.ID, nil
}

// OwnerIDForUser returns the owner profile id for a user, or "" if the
// user has no owner profile.
func (d *GormDirectory) OwnerIDForUser(ctx context.Context, userID string) (string, error) {
	var owner models.Owner
	err := d.DB.WithContext(ctx).Select("id").Where("user_id = ?", userID).First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return owner.ID, nil
}
