package handlers

import (
	"petcare-clinic-server/internal/models"
	"petcare-clinic-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler handles user-related requests (typically admin operations).
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// ManagedUser is one row of the admin user list: account fields joined
// with whichever role profile the user carries.
type ManagedUser struct {
	UserID         string            `json:"userId"`
	FullName       string            `json:"fullName"`
	Email          string            `json:"email"`
	Role           models.Role       `json:"role"`
	Status         models.UserStatus `json:"status"`
	RelatedID      string            `json:"relatedId,omitempty"` // owner or vet profile id
	Specialization string            `json:"specialization,omitempty"`
	Phone          string            `json:"phone,omitempty"`
	Address        string            `json:"address,omitempty"`
}

// GetUsers handles fetching all active users with their role-specific
// profile fields (admin). Soft-deleted users never appear.
func (h *UserHandler) GetUsers(c *gin.Context) {
	var users []ManagedUser
	err := h.DB.Raw(`
		SELECT
			usr.id AS user_id,
			usr.full_name AS full_name,
			usr.email AS email,
			usr.role AS role,
			usr.status AS status,
			COALESCE(owr.id, vet.id, '') AS related_id,
			COALESCE(vet.specialization, '') AS specialization,
			CASE
				WHEN usr.role = 'pet_owner' THEN COALESCE(owr.phone, '')
				WHEN usr.role = 'veterinarian' THEN COALESCE(vet.phone, '')
				ELSE ''
			END AS phone,
			CASE
				WHEN usr.role = 'pet_owner' THEN COALESCE(owr.address, '')
				WHEN usr.role = 'veterinarian' THEN COALESCE(vet.clinic_address, '')
				ELSE ''
			END AS address
		FROM users AS usr
		LEFT JOIN owners AS owr ON usr.id = owr.user_id
		LEFT JOIN veterinarians AS vet ON usr.id = vet.user_id
		WHERE usr.status = ?`, models.UserActive).Scan(&users).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch users: "+err.Error())
		return
	}

	utils.Success(c, "Users fetched successfully", users)
}

// CreateUserRequest represents the request body for creating a user by an admin.
type CreateUserRequest struct {
	FullName       string `json:"fullName" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	Role           string `json:"role" binding:"required,oneof=admin veterinarian pet_owner"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Specialization string `json:"specialization"`
}

// CreateUser handles creating a new user (admin).
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existingUser models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		utils.BadRequest(c, "User with this email already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	user := models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Role:     models.Role(req.Role),
		Status:   models.UserActive,
	}
	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return upsertRoleProfile(tx, &user, req.Phone, req.Address, req.Specialization)
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to create user: "+err.Error())
		return
	}

	utils.Created(c, "User created successfully", user.Sanitize())
}

// GetUserByID handles fetching a single user by ID (admin).
func (h *UserHandler) GetUserByID(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "User fetched successfully", user.Sanitize())
}

// UpdateUserRequest represents the request body for updating a user by an admin.
type UpdateUserRequest struct {
	FullName       string `json:"fullName"`
	Role           string `json:"role,omitempty" binding:"omitempty,oneof=admin veterinarian pet_owner"`
	Status         string `json:"status,omitempty" binding:"omitempty,oneof=active deleted"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Specialization string `json:"specialization"`
	Password       string `json:"password,omitempty"` // set only when provided
}

// UpdateUser handles updating a user by ID (admin). The role-specific
// profile row is upserted alongside the account row.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID := c.Param("id")

	var req UpdateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Role != "" {
		user.Role = models.Role(req.Role)
	}
	if req.Status != "" {
		user.Status = models.UserStatus(req.Status)
	}
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			utils.InternalServerError(c, "Failed to hash password: "+err.Error())
			return
		}
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return upsertRoleProfile(tx, &user, req.Phone, req.Address, req.Specialization)
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to update user: "+err.Error())
		return
	}

	utils.Success(c, "User updated successfully", user.Sanitize())
}

// DeleteUser handles soft-deleting a user by ID (admin). The row is kept
// for referential integrity; only the status flag changes.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("id")

	res := h.DB.Model(&models.User{}).
		Where("id = ? AND status = ?", userID, models.UserActive).
		Update("status", models.UserDeleted)
	if res.Error != nil {
		utils.InternalServerError(c, "Failed to delete user: "+res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "User not found")
		return
	}

	utils.Success(c, "User deleted successfully", nil)
}

// VetListEntry is one veterinarian in the booking picker.
type VetListEntry struct {
	VetID          string `json:"vetId"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
}

// GetVeterinarians handles fetching all active veterinarians with a
// profile. Accessible to all authenticated users for booking.
func (h *UserHandler) GetVeterinarians(c *gin.Context) {
	var vets []VetListEntry
	err := h.DB.Model(&models.Veterinarian{}).
		Select("veterinarians.id AS vet_id, users.full_name, users.email, veterinarians.specialization").
		Joins("JOIN users ON users.id = veterinarians.user_id").
		Where("users.status = ?", models.UserActive).
		Scan(&vets).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch veterinarians: "+err.Error())
		return
	}

	utils.Success(c, "Veterinarians fetched successfully", vets)
}

// AutocompleteEntry is one suggestion row for user pickers.
type AutocompleteEntry struct {
	UserID         string `json:"userId"`
	ProfileID      string `json:"profileId"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Specialization string `json:"specialization,omitempty"`
}

// AutocompleteUsers suggests active users matching a name fragment, for
// owner and vet pickers. Suggestions carry the role profile id, which is
// what appointments and pets actually reference.
func (h *UserHandler) AutocompleteUsers(c *gin.Context) {
	role := c.Query("role")
	query := c.Query("q")

	var results []AutocompleteEntry
	var err error

	switch models.Role(role) {
	case models.RolePetOwner:
		err = h.DB.Model(&models.Owner{}).
			Select("users.id AS user_id, owners.id AS profile_id, users.full_name, users.email").
			Joins("JOIN users ON users.id = owners.user_id").
			Where("users.role = ? AND users.status = ? AND users.full_name LIKE ?",
				models.RolePetOwner, models.UserActive, "%"+query+"%").
			Limit(10).
			Scan(&results).Error
	case models.RoleVeterinarian:
		err = h.DB.Model(&models.Veterinarian{}).
			Select("users.id AS user_id, veterinarians.id AS profile_id, users.full_name, users.email, veterinarians.specialization").
			Joins("JOIN users ON users.id = veterinarians.user_id").
			Where("users.role = ? AND users.status = ? AND users.full_name LIKE ?",
				models.RoleVeterinarian, models.UserActive, "%"+query+"%").
			Limit(10).
			Scan(&results).Error
	default:
		err = h.DB.Model(&models.User{}).
			Select("users.id AS user_id, '' AS profile_id, users.full_name, users.email").
			Where("users.status = ? AND users.full_name LIKE ?",
				models.UserActive, "%"+query+"%").
			Limit(10).
			Scan(&results).Error
	}

	if err != nil {
		utils.InternalServerError(c, "Failed to fetch suggestions: "+err.Error())
		return
	}

	utils.Success(c, "Suggestions fetched successfully", results)
}
