package handlers

import (
	"errors"
	"strconv"

	"petcare-clinic-server/internal/middleware"
	"petcare-clinic-server/internal/models"
	"petcare-clinic-server/internal/scope"
	"petcare-clinic-server/internal/uploads"
	"petcare-clinic-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PetHandler handles pet management requests.
type PetHandler struct {
	DB       *gorm.DB
	Resolver *scope.Resolver
	Uploads  *uploads.Store
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(db *gorm.DB, resolver *scope.Resolver, store *uploads.Store) *PetHandler {
	return &PetHandler{DB: db, Resolver: resolver, Uploads: store}
}

// PetListEntry is one row of the pet register with the owner's name.
type PetListEntry struct {
	models.Pet
	OwnerName string `json:"ownerName"`
}

// GetPets handles fetching pets. Admins see all pets, owners see only
// their own; an owner account without a profile sees an empty list.
func (h *PetHandler) GetPets(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	sc, err := h.Resolver.Resolve(c.Request.Context(), ident)
	if err != nil {
		utils.InternalServerError(c, "Failed to resolve visibility: "+err.Error())
		return
	}

	query := h.DB.Model(&models.Pet{}).
		Select("pets.*, users.full_name AS owner_name").
		Joins("LEFT JOIN owners ON pets.owner_id = owners.id").
		Joins("LEFT JOIN users ON users.id = owners.user_id")

	var pets []PetListEntry
	if err := sc.ApplyPets(query).Scan(&pets).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch pets: "+err.Error())
		return
	}

	utils.Success(c, "Pets fetched successfully", pets)
}

// GetPetByID handles fetching a single pet, subject to the caller's
// visibility scope.
func (h *PetHandler) GetPetByID(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	sc, err := h.Resolver.Resolve(c.Request.Context(), ident)
	if err != nil {
		utils.InternalServerError(c, "Failed to resolve visibility: "+err.Error())
		return
	}

	var pet models.Pet
	err = sc.ApplyPets(h.DB.Where("pets.id = ?", c.Param("id"))).First(&pet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Pet not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Pet fetched successfully", pet)
}

// CreatePet handles adding a new pet from a multipart form with an
// optional photo. Owners always create pets under their own profile;
// admins name the owner explicitly.
func (h *PetHandler) CreatePet(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	ownerID, ok := h.resolveOwnerID(c, ident)
	if !ok {
		return
	}

	name := c.PostForm("name")
	if name == "" {
		utils.BadRequest(c, "Pet name is required")
		return
	}
	age, _ := strconv.Atoi(c.PostForm("age"))

	pet := models.Pet{
		OwnerID:        ownerID,
		Name:           name,
		Breed:          c.PostForm("breed"),
		Age:            age,
		Gender:         c.PostForm("gender"),
		MedicalHistory: c.PostForm("medical_history"),
	}

	imagePath, ok := h.savePetImage(c)
	if !ok {
		return
	}
	pet.Image = imagePath

	if err := h.DB.Create(&pet).Error; err != nil {
		utils.InternalServerError(c, "Failed to create pet: "+err.Error())
		return
	}

	utils.Created(c, "Pet added successfully", pet)
}

// UpdatePet handles editing a pet, with an optional replacement photo.
func (h *PetHandler) UpdatePet(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	sc, err := h.Resolver.Resolve(c.Request.Context(), ident)
	if err != nil {
		utils.InternalServerError(c, "Failed to resolve visibility: "+err.Error())
		return
	}

	var pet models.Pet
	err = sc.ApplyPets(h.DB.Where("pets.id = ?", c.Param("id"))).First(&pet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Pet not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if v := c.PostForm("name"); v != "" {
		pet.Name = v
	}
	if v := c.PostForm("breed"); v != "" {
		pet.Breed = v
	}
	if v := c.PostForm("age"); v != "" {
		if age, err := strconv.Atoi(v); err == nil {
			pet.Age = age
		}
	}
	if v := c.PostForm("gender"); v != "" {
		pet.Gender = v
	}
	if v := c.PostForm("medical_history"); v != "" {
		pet.MedicalHistory = v
	}
	// Admins may move a pet to another owner
	if v := c.PostForm("owner_id"); v != "" && ident.Role == models.RoleAdmin {
		pet.OwnerID = v
	}

	imagePath, ok := h.savePetImage(c)
	if !ok {
		return
	}
	if imagePath != "" {
		pet.Image = imagePath
	}

	if err := h.DB.Save(&pet).Error; err != nil {
		utils.InternalServerError(c, "Failed to update pet: "+err.Error())
		return
	}

	utils.Success(c, "Pet updated successfully", pet)
}

// DeletePet handles permanently removing a pet (admin). Unlike users,
// pets are hard-deleted.
func (h *PetHandler) DeletePet(c *gin.Context) {
	res := h.DB.Delete(&models.Pet{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		utils.InternalServerError(c, "Failed to delete pet: "+res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Pet not found")
		return
	}

	utils.Success(c, "Pet deleted successfully", nil)
}

// resolveOwnerID decides which owner a pet write applies to. It writes
// the error response itself when returning false.
func (h *PetHandler) resolveOwnerID(c *gin.Context, ident scope.Identity) (string, bool) {
	if ident.Role == models.RoleAdmin {
		ownerID := c.PostForm("owner_id")
		if ownerID == "" {
			utils.BadRequest(c, "owner_id is required")
			return "", false
		}
		return ownerID, true
	}

	sc, err := h.Resolver.Resolve(c.Request.Context(), ident)
	if err != nil {
		utils.InternalServerError(c, "Failed to resolve visibility: "+err.Error())
		return "", false
	}
	if sc.Kind() != scope.KindOwner {
		utils.BadRequest(c, "Complete your owner profile before adding pets")
		return "", false
	}
	return sc.ProfileID(), true
}

// savePetImage stores an uploaded photo if one was attached, returning
// its relative reference. It writes the error response itself when
// returning false.
func (h *PetHandler) savePetImage(c *gin.Context) (string, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		// No file attached is fine.
		return "", true
	}
	if file.Size > uploads.MaxFileSize {
		utils.BadRequest(c, uploads.ErrFileTooLarge.Error())
		return "", false
	}

	src, err := file.Open()
	if err != nil {
		utils.InternalServerError(c, "Failed to read upload: "+err.Error())
		return "", false
	}
	defer src.Close()

	ref, err := h.Uploads.SavePetImage(file.Filename, src)
	if err != nil {
		if errors.Is(err, uploads.ErrUnsupportedType) || errors.Is(err, uploads.ErrFileTooLarge) {
			utils.BadRequest(c, err.Error())
		} else {
			utils.InternalServerError(c, "Failed to store upload: "+err.Error())
		}
		return "", false
	}
	return ref, true
}
