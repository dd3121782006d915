package model

import (
	"time"
)

// Job represents a job posting owned by the Employer that created it.
// Exactly one salary representation is populated: FixedSalary, or the
// SalaryFrom/SalaryTo range.
type Job struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"type:varchar(30);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Category    string    `json:"category" gorm:"type:varchar(100);not null"`
	Country     string    `json:"country" gorm:"type:varchar(100);not null"`
	City        string    `json:"city" gorm:"type:varchar(100);not null"`
	Location    string    `json:"location" gorm:"type:varchar(255);not null"`
	FixedSalary *uint64   `json:"fixedSalary,omitempty"`
	SalaryFrom  *uint64   `json:"salaryFrom,omitempty"`
	SalaryTo    *uint64   `json:"salaryTo,omitempty"`
	Expired     bool      `json:"expired" gorm:"not null"`
	JobPostedOn time.Time `json:"jobPostedOn" gorm:"not null"`
	PostedBy    uint      `json:"postedBy" gorm:"index;not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
