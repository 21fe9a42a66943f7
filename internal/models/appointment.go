package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// IsTerminal reports whether no further transition may leave the status.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment represents a scheduled visit of a pet to a veterinarian.
// Only Status mutates after creation; appointments are never deleted,
// only cancelled.
type Appointment struct {
	BaseModel
	PetID         string            `gorm:"size:36;index;not null" json:"petId"`
	OwnerID       string            `gorm:"size:36;index;not null" json:"ownerId"`
	VetID         string            `gorm:"size:36;index;not null" json:"vetId"`
	AppointmentAt time.Time         `gorm:"index" json:"appointmentAt"`
	Status        AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`

	// Relations
	Pet          Pet          `gorm:"foreignKey:PetID" json:"-"`
	Owner        Owner        `gorm:"foreignKey:OwnerID" json:"-"`
	Veterinarian Veterinarian `gorm:"foreignKey:VetID" json:"-"`
}
