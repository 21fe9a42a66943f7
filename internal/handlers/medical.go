package handlers

import (
	"errors"
	"time"

	"petcare-clinic-server/internal/medical"
	"petcare-clinic-server/internal/middleware"
	"petcare-clinic-server/internal/models"
	"petcare-clinic-server/internal/scope"
	"petcare-clinic-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MedicalHandler handles vaccination and medication requests.
type MedicalHandler struct {
	DB       *gorm.DB
	Recorder *medical.Service
	Resolver *scope.Resolver
}

// NewMedicalHandler creates a new MedicalHandler.
func NewMedicalHandler(db *gorm.DB, recorder *medical.Service, resolver *scope.Resolver) *MedicalHandler {
	return &MedicalHandler{DB: db, Recorder: recorder, Resolver: resolver}
}

// AddVaccinationRequest represents the request body for recording a vaccination.
type AddVaccinationRequest struct {
	PetID       string     `json:"petId" binding:"required,uuid"`
	VaccineName string     `json:"vaccineName" binding:"required"`
	DateGiven   time.Time  `json:"dateGiven" binding:"required"`
	NextDueDate *time.Time `json:"nextDueDate"`
	Notes       string     `json:"notes"`
}

// AddVaccination handles a veterinarian recording a vaccination. The
// entry insert and the same-day appointment completion commit together.
func (h *MedicalHandler) AddVaccination(c *gin.Context) {
	var req AddVaccinationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ident, ok := middleware.GetIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	rec, err := h.Recorder.RecordVaccination(c.Request.Context(), ident, medical.VaccinationInput{
		PetID:       req.PetID,
		VaccineName: req.VaccineName,
		DateGiven:   req.DateGiven,
		NextDueDate: req.NextDueDate,
		Notes:       req.Notes,
	})
	if err != nil {
		h.writeRecordError(c, err, "vaccination")
		return
	}

	utils.Created(c, "Vaccination record added successfully", rec)
}

// AddMedicationRequest represents the request body for recording a medication.
type AddMedicationRequest struct {
	PetID        string     `json:"petId" binding:"required,uuid"`
	MedicineName string     `json:"medicineName" binding:"required"`
	Dosage       string     `json:"dosage" binding:"required"`
	StartDate    time.Time  `json:"startDate" binding:"required"`
	EndDate      *time.Time `json:"endDate"`
	Notes        string     `json:"notes"`
}

// AddMedication handles a veterinarian recording a prescribed medication.
func (h *MedicalHandler) AddMedication(c *gin.Context) {
	var req AddMedicationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ident, ok := middleware.GetIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	rec, err := h.Recorder.RecordMedication(c.Request.Context(), ident, medical.MedicationInput{
		PetID:        req.PetID,
		MedicineName: req.MedicineName,
		Dosage:       req.Dosage,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Notes:        req.Notes,
	})
	if err != nil {
		h.writeRecordError(c, err, "medication")
		return
	}

	utils.Created(c, "Medication record added successfully", rec)
}

// PetMedicalResponse bundles a pet with its full medical history.
type PetMedicalResponse struct {
	Pet          models.Pet           `json:"pet"`
	Vaccinations []models.Vaccination `json:"vaccinations"`
	Medications  []models.Medication  `json:"medications"`
}

// GetPetMedical handles a veterinarian fetching a pet's complete
// medical history.
func (h *MedicalHandler) GetPetMedical(c *gin.Context) {
	petID := c.Param("id")

	var pet models.Pet
	if err := h.DB.First(&pet, "id = ?", petID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Pet not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	resp := PetMedicalResponse{Pet: pet}

	if err := h.DB.Where("pet_id = ?", petID).Order("date_given DESC").Find(&resp.Vaccinations).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch vaccinations: "+err.Error())
		return
	}
	if err := h.DB.Where("pet_id = ?", petID).Order("start_date DESC").Find(&resp.Medications).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch medications: "+err.Error())
		return
	}

	utils.Success(c, "Medical history fetched successfully", resp)
}

// VaccinationListEntry is one vaccination row with display names.
type VaccinationListEntry struct {
	models.Vaccination
	PetName   string `json:"petName"`
	VetName   string `json:"vetName"`
	OwnerName string `json:"ownerName"`
}

// GetVaccinations handles listing vaccination records. Admins see all,
// vets only the ones they administered.
func (h *MedicalHandler) GetVaccinations(c *gin.Context) {
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

	query := h.DB.Model(&models.Vaccination{}).
		Select(`vaccinations.*,
			pets.name AS pet_name,
			vet_users.full_name AS vet_name,
			owner_users.full_name AS owner_name`).
		Joins("JOIN pets ON pets.id = vaccinations.pet_id").
		Joins("JOIN veterinarians ON veterinarians.id = vaccinations.vet_id").
		Joins("JOIN users AS vet_users ON vet_users.id = veterinarians.user_id").
		Joins("JOIN owners ON owners.id = pets.owner_id").
		Joins("JOIN users AS owner_users ON owner_users.id = owners.user_id").
		Order("vaccinations.date_given DESC")

	var records []VaccinationListEntry
	if err := sc.ApplyMedical(query, "vaccinations").Scan(&records).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch vaccinations: "+err.Error())
		return
	}

	utils.Success(c, "Vaccinations fetched successfully", records)
}

// MedicationListEntry is one medication row with display names.
type MedicationListEntry struct {
	models.Medication
	PetName   string `json:"petName"`
	VetName   string `json:"vetName"`
	OwnerName string `json:"ownerName"`
}

// GetMedications handles listing medication records. Admins see all,
// vets only the ones they prescribed.
func (h *MedicalHandler) GetMedications(c *gin.Context) {
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

	query := h.DB.Model(&models.Medication{}).
		Select(`medications.*,
			pets.name AS pet_name,
			vet_users.full_name AS vet_name,
			owner_users.full_name AS owner_name`).
		Joins("JOIN pets ON pets.id = medications.pet_id").
		Joins("JOIN veterinarians ON veterinarians.id = medications.vet_id").
		Joins("JOIN users AS vet_users ON vet_users.id = veterinarians.user_id").
		Joins("JOIN owners ON owners.id = pets.owner_id").
		Joins("JOIN users AS owner_users ON owner_users.id = owners.user_id").
		Order("medications.start_date DESC")

	var records []MedicationListEntry
	if err := sc.ApplyMedical(query, "medications").Scan(&records).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch medications: "+err.Error())
		return
	}

	utils.Success(c, "Medications fetched successfully", records)
}

func (h *MedicalHandler) writeRecordError(c *gin.Context, err error, kind string) {
	switch {
	case errors.Is(err, medical.ErrVetProfileMissing):
		utils.BadRequest(c, "Complete your veterinarian profile before adding records")
	case errors.Is(err, medical.ErrPetNotFound):
		utils.NotFound(c, "Pet not found")
	default:
		utils.InternalServerError(c, "Failed to add "+kind+" record: "+err.Error())
	}
}
