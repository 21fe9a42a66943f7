package models

// Pet represents a pet registered by an owner.
// Pets are hard-deleted, unlike users; a deleted pet takes its rows with it.
type Pet struct {
	BaseModel
	OwnerID        string `gorm:"size:36;index;not null" json:"ownerId"`
	Name           string `gorm:"size:100;not null" json:"name"`
	Breed          string `gorm:"size:100" json:"breed"`
	Age            int    `json:"age"`
	Gender         string `gorm:"size:10" json:"gender"`
	MedicalHistory string `gorm:"type:text" json:"medicalHistory"`
	Image          string `gorm:"size:255" json:"image,omitempty"` // relative upload reference, e.g. uploads/pets/<file>

	// Relations
	Owner Owner `gorm:"foreignKey:OwnerID" json:"-"`
}
