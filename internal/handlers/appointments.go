package handlers

import (
	"errors"
	"time"

	"petcare-clinic-server/internal/middleware"
	"petcare-clinic-server/internal/models"
	"petcare-clinic-server/internal/scheduling"
	"petcare-clinic-server/internal/scope"
	"petcare-clinic-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB        *gorm.DB
	Scheduler *scheduling.Service
	Resolver  *scope.Resolver
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, scheduler *scheduling.Service, resolver *scope.Resolver) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Scheduler: scheduler, Resolver: resolver}
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	PetID         string    `json:"petId" binding:"required,uuid"`
	VetID         string    `json:"vetId" binding:"required,uuid"`
	AppointmentAt time.Time `json:"appointmentAt" binding:"required"`
}

// CreateAppointment handles booking a new appointment. Initiated by a
// pet owner for one of their own pets.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ident, ok := middleware.GetIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	if req.AppointmentAt.Before(time.Now()) {
		utils.BadRequest(c, "Appointment date must be in the future.")
		return
	}

	appt, err := h.Scheduler.Book(c.Request.Context(), ident, req.PetID, req.VetID, req.AppointmentAt)
	if err != nil {
		var conflict *scheduling.ConflictError
		switch {
		case errors.As(err, &conflict):
			utils.Conflict(c, "Time slot not available for "+conflict.VetName+". Please choose another time.")
		case errors.Is(err, scheduling.ErrOwnerProfileMissing):
			utils.BadRequest(c, "Complete your owner profile before booking")
		case errors.Is(err, scheduling.ErrPetNotFound):
			utils.NotFound(c, "Pet not found")
		case errors.Is(err, scheduling.ErrVetNotFound):
			utils.NotFound(c, "Veterinarian not found")
		default:
			utils.InternalServerError(c, "Failed to book appointment: "+err.Error())
		}
		return
	}

	utils.Created(c, "Appointment booked successfully", appt)
}

// AppointmentListEntry is one appointment row joined with the display
// names a listing needs.
type AppointmentListEntry struct {
	models.Appointment
	PetName   string `json:"petName"`
	OwnerName string `json:"ownerName"`
	VetName   string `json:"vetName"`
}

// GetAppointments handles fetching appointments for the caller. The
// visibility scope decides the rows: admins all, vets and owners their
// own, profile-less accounts none.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
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

	query := h.DB.Model(&models.Appointment{}).
		Select(`appointments.*,
			pets.name AS pet_name,
			owner_users.full_name AS owner_name,
			vet_users.full_name AS vet_name`).
		Joins("JOIN pets ON pets.id = appointments.pet_id").
		Joins("JOIN owners ON owners.id = appointments.owner_id").
		Joins("JOIN users AS owner_users ON owner_users.id = owners.user_id").
		Joins("JOIN veterinarians ON veterinarians.id = appointments.vet_id").
		Joins("JOIN users AS vet_users ON vet_users.id = veterinarians.user_id").
		Order("appointments.appointment_at DESC")

	var appointments []AppointmentListEntry
	if err := sc.ApplyAppointments(query).Scan(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// UpdateAppointmentStatusRequest represents the request body for a vet's
// status update.
type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=confirmed completed"`
}

// UpdateAppointmentStatus handles a veterinarian moving an appointment
// forward (confirm or complete). An appointment assigned to a different
// vet reads as not found.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ident, ok := middleware.GetIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appt, err := h.Scheduler.UpdateStatus(c.Request.Context(), ident, c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrAppointmentNotFound):
			utils.NotFound(c, "Appointment not found")
		case errors.Is(err, scheduling.ErrInvalidTransition):
			utils.BadRequest(c, "Invalid status transition")
		default:
			utils.InternalServerError(c, "Failed to update appointment status: "+err.Error())
		}
		return
	}

	utils.Success(c, "Appointment marked as "+string(appt.Status), appt)
}

// CancelAppointment handles a pet owner cancelling their own pending
// appointment. Cancelling frees the slot immediately.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appt, err := h.Scheduler.Cancel(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrAppointmentNotFound):
			utils.NotFound(c, "Appointment not found")
		case errors.Is(err, scheduling.ErrInvalidTransition):
			utils.BadRequest(c, "Can only cancel pending appointments")
		default:
			utils.InternalServerError(c, "Failed to cancel appointment: "+err.Error())
		}
		return
	}

	utils.Success(c, "Appointment cancelled successfully", appt)
}
