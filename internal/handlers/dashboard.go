package handlers

import (
	"time"

	"petcare-clinic-server/internal/middleware"
	"petcare-clinic-server/internal/models"
	"petcare-clinic-server/internal/scope"
	"petcare-clinic-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DashboardHandler serves the role-specific dashboard data.
type DashboardHandler struct {
	DB       *gorm.DB
	Resolver *scope.Resolver
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(db *gorm.DB, resolver *scope.Resolver) *DashboardHandler {
	return &DashboardHandler{DB: db, Resolver: resolver}
}

// GetDashboard dispatches to the dashboard matching the caller's role.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	switch ident.Role {
	case models.RoleAdmin:
		h.adminDashboard(c)
	case models.RoleVeterinarian:
		h.vetDashboard(c, ident)
	case models.RolePetOwner:
		h.ownerDashboard(c, ident)
	default:
		utils.Forbidden(c, "Unknown role")
	}
}

// ActivityEntry is one row of a recent-activity or reminder feed.
type ActivityEntry struct {
	ActivityType string    `json:"activityType"`
	Details      string    `json:"details"`
	PetName      string    `json:"petName,omitempty"`
	ActivityDate time.Time `json:"activityDate"`
}

// AdminDashboard carries system-wide counters and recent activity.
type AdminDashboard struct {
	TotalUsers        int64           `json:"totalUsers"`
	TotalPets         int64           `json:"totalPets"`
	TotalAppointments int64           `json:"totalAppointments"`
	TotalRecords      int64           `json:"totalRecords"`
	RecentActivities  []ActivityEntry `json:"recentActivities"`
}

func (h *DashboardHandler) adminDashboard(c *gin.Context) {
	var dash AdminDashboard

	if err := h.DB.Model(&models.User{}).Where("status = ?", models.UserActive).Count(&dash.TotalUsers).Error; err != nil {
		utils.InternalServerError(c, "Failed to load dashboard: "+err.Error())
		return
	}
	if err := h.DB.Model(&models.Pet{}).Count(&dash.TotalPets).Error; err != nil {
		utils.InternalServerError(c, "Failed to load dashboard: "+err.Error())
		return
	}
	// Upcoming appointments: today and future
	if err := h.DB.Model(&models.Appointment{}).
		Where("DATE(appointment_at) >= CURDATE()").
		Count(&dash.TotalAppointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to load dashboard: "+err.Error())
		return
	}

	var vaccinations, medications int64
	if err := h.DB.Model(&models.Vaccination{}).Count(&vaccinations).Error; err != nil {
		utils.InternalServerError(c, "Failed to load dashboard: "+err.Error())
		return
	}
	if err := h.DB.Model(&models.Medication{}).Count(&medications).Error; err != nil {
		utils.InternalServerError(c, "Failed to load dashboard: "+err.Error())
		return
	}
	dash.TotalRecords = vaccinations + medications

	err := h.DB.Raw(`
		(SELECT 'User Registration' AS activity_type, CONCAT('New user: ', u.full_name) AS details,
		        '' AS pet_name, u.created_at AS activity_date
		 FROM users u WHERE u.status = ? ORDER BY u.created_at DESC LIMIT 3)
		UNION ALL
		(SELECT 'Pet Added' AS activity_type, CONCAT('New pet: ', p.name, ' (', p.breed, ')') AS details,
		        p.name AS pet_name, p.created_at AS activity_date
		 FROM pets p ORDER BY p.created_at DESC LIMIT 3)
		UNION ALL
		(SELECT 'Appointment' AS activity_type, CONCAT('Appointment booked for ', p.name) AS details,
		        p.name AS pet_name, a.created_at AS activity_date
		 FROM appointments a JOIN pets p ON a.pet_id = p.id ORDER BY a.created_at DESC LIMIT 3)
		ORDER BY activity_date DESC LIMIT 10`, models.UserActive).
		Scan(&dash.RecentActivities).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to load dashboard: "+err.Error())
		return
	}

	utils.Success(c, "Dashboard fetched successfully", dash)
}

// VetDashboard carries today's schedule and recent medical activity.
type VetDashboard struct {
	TodayAppointments []AppointmentListEntry `json:"todayAppointments"`
	RecentActivities  []ActivityEntry        `json:"recentActivities"`
}

func (h *DashboardHandler) vetDashboard(c *gin.Context, ident scope.Identity) {
	sc, err := h.Resolver.Resolve(c.Request.Context(), ident)
	if err != nil {
		utils.InternalServerError(c, "Failed to resolve visibility: "+err.Error())
		return
	}

	dash := VetDashboard{
		TodayAppointments: []AppointmentListEntry{},
		RecentActivities:  []ActivityEntry{},
	}

	// A vet that never completed profile setup has an empty dashboard.
	if sc.Kind() == scope.KindVet {
		vetID := sc.ProfileID()

		err = h.DB.Model(&models.Appointment{}).
			Select(`appointments.*, pets.name AS pet_name, owner_users.full_name AS owner_name, '' AS vet_name`).
			Joins("JOIN pets ON pets.id = appointments.pet_id").
			Joins("JOIN owners ON owners.id = appointments.owner_id").
			Joins("JOIN users AS owner_users ON owner_users.id = owners.user_id").
			Where("appointments.vet_id = ? AND DATE(appointments.appointment_at) = CURDATE() AND appointments.status <> ?",
				vetID, models.StatusCancelled).
			Order("appointments.appointment_at ASC").
			Scan(&dash.TodayAppointments).Error
		if err != nil {
			utils.InternalServerError(c, "Failed to load dashboard: "+err.Error())
			return
		}

		err = h.DB.Raw(`
			(SELECT 'Vaccination' AS activity_type, v.vaccine_name AS details,
			        p.name AS pet_name, v.date_given AS activity_date
			 FROM vaccinations v JOIN pets p ON v.pet_id = p.id
			 WHERE v.vet_id = ?)
			UNION ALL
			(SELECT 'Medication' AS activity_type, m.medicine_name AS details,
			        p.name AS pet_name, m.start_date AS activity_date
			 FROM medications m JOIN pets p ON m.pet_id = p.id
			 WHERE m.vet_id = ?)
			ORDER BY activity_date DESC LIMIT 10`, vetID, vetID).
			Scan(&dash.RecentActivities).Error
		if err != nil {
			utils.InternalServerError(c, "Failed to load dashboard: "+err.Error())
			return
		}
	}

	utils.Success(c, "Dashboard fetched successfully", dash)
}

// OwnerDashboard carries the owner's pets and upcoming care reminders.
type OwnerDashboard struct {
	Pets              []models.Pet    `json:"pets"`
	UpcomingReminders []ActivityEntry `json:"upcomingReminders"`
}

func (h *DashboardHandler) ownerDashboard(c *gin.Context, ident scope.Identity) {
	sc, err := h.Resolver.Resolve(c.Request.Context(), ident)
	if err != nil {
		utils.InternalServerError(c, "Failed to resolve visibility: "+err.Error())
		return
	}

	dash := OwnerDashboard{
		Pets:              []models.Pet{},
		UpcomingReminders: []ActivityEntry{},
	}

	if sc.Kind() == scope.KindOwner {
		ownerID := sc.ProfileID()

		if err := h.DB.Where("owner_id = ?", ownerID).Find(&dash.Pets).Error; err != nil {
			utils.InternalServerError(c, "Failed to load dashboard: "+err.Error())
			return
		}

		// Vaccination reminders assume a yearly booster cycle.
		err = h.DB.Raw(`
			(SELECT 'Medication' AS activity_type, m.medicine_name AS details,
			        p.name AS pet_name, m.end_date AS activity_date
			 FROM medications m JOIN pets p ON m.pet_id = p.id
			 WHERE p.owner_id = ? AND m.end_date >= CURDATE())
			UNION ALL
			(SELECT 'Vaccination' AS activity_type, v.vaccine_name AS details,
			        p.name AS pet_name, DATE_ADD(v.date_given, INTERVAL 365 DAY) AS activity_date
			 FROM vaccinations v JOIN pets p ON v.pet_id = p.id
			 WHERE p.owner_id = ? AND DATE_ADD(v.date_given, INTERVAL 365 DAY) >= CURDATE())
			ORDER BY activity_date ASC LIMIT 5`, ownerID, ownerID).
			Scan(&dash.UpcomingReminders).Error
		if err != nil {
			utils.InternalServerError(c, "Failed to load dashboard: "+err.Error())
			return
		}
	}

	utils.Success(c, "Dashboard fetched successfully", dash)
}
