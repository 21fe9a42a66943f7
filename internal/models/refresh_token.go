package models

import (
	"time"
)

// RefreshToken is a stored refresh token. Tokens are rotated on every
// refresh and revoked on logout; expired and revoked rows are simply
// never matched again.
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"size:36;index;not null" json:"userId"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsRevoked bool      `gorm:"default:false" json:"isRevoked"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
