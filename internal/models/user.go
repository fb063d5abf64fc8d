package models

// User is an account that owns holdings. Its ID is the owner id stamped on
// every holding the user creates.
type User struct {
	Base
	Email          string  `gorm:"size:320;uniqueIndex;not null" json:"email"`
	HashedPassword string  `gorm:"size:1024;not null" json:"-"`
	FullName       *string `gorm:"size:100" json:"full_name"`
	IsActive       bool    `gorm:"not null;default:true" json:"is_active"`
	IsSuperuser    bool    `gorm:"not null;default:false" json:"is_superuser"`
	IsVerified     bool    `gorm:"not null;default:false" json:"is_verified"`
}
