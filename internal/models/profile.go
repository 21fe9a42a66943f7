package models

// Owner holds the role-specific profile for a pet-owner user.
// Created lazily on first profile write (upsert), never at registration
// for admin-created accounts.
type Owner struct {
	BaseModel
	UserID  string `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Phone   string `gorm:"size:30" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	// Relations
	User User  `gorm:"foreignKey:UserID" json:"-"`
	Pets []Pet `gorm:"foreignKey:OwnerID" json:"-"`
}

// Veterinarian holds the role-specific profile for a veterinarian user.
type Veterinarian struct {
	BaseModel
	UserID         string `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Specialization string `gorm:"size:100" json:"specialization"`
	Phone          string `gorm:"size:30" json:"phone"`
	ClinicAddress  string `gorm:"size:255" json:"clinicAddress"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
