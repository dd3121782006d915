package model

import (
	"time"
)

// Role is the account type chosen at registration
type Role string

const (
	RoleEmployer  Role = "Employer"
	RoleJobSeeker Role = "Job Seeker"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleEmployer || r == RoleJobSeeker
}

// User represents the user model stored in the database
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(30);not null"`
	Email     string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Phone     string    `json:"phone" gorm:"type:varchar(20);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
