package models

import (
	"time"
)

// Vaccination is an immutable medical entry recording a vaccine given to
// a pet by a veterinarian. There is no update or delete path.
type Vaccination struct {
	BaseModel
	PetID       string     `gorm:"size:36;index;not null" json:"petId"`
	VetID       string     `gorm:"size:36;index;not null" json:"vetId"`
	VaccineName string     `gorm:"size:100;not null" json:"vaccineName"`
	DateGiven   time.Time  `json:"dateGiven"`
	NextDueDate *time.Time `json:"nextDueDate,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`

	// Relations
	Pet          Pet          `gorm:"foreignKey:PetID" json:"-"`
	Veterinarian Veterinarian `gorm:"foreignKey:VetID" json:"-"`
}

// Medication is an immutable medical entry recording a medicine
// prescribed to a pet by a veterinarian.
type Medication struct {
	BaseModel
	PetID        string     `gorm:"size:36;index;not null" json:"petId"`
	VetID        string     `gorm:"size:36;index;not null" json:"vetId"`
	MedicineName string     `gorm:"size:100;not null" json:"medicineName"`
	Dosage       string     `gorm:"size:100" json:"dosage"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Notes        string     `gorm:"type:text" json:"notes,omitempty"`

	// Relations
	Pet          Pet          `gorm:"foreignKey:PetID" json:"-"`
	Veterinarian Veterinarian `gorm:"foreignKey:VetID" json:"-"`
}
