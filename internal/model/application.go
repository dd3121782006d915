package model

import (
	"time"
)

// Party is a snapshot of a user's identity and role taken when an
// application is created. It is never refreshed from the users table.
type Party struct {
	User uint `json:"user" gorm:"index;not null"`
	Role Role `json:"role" gorm:"type:varchar(20);not null"`
}

// Resume references the externally stored resume file
type Resume struct {
	PublicID string `json:"public_id" gorm:"type:varchar(255);not null"`
	URL      string `json:"url" gorm:"type:text;not null"`
}

// Application represents a Job Seeker's application to a Job.
// JobID is a soft reference: deleting the job keeps the application.
type Application struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(30);not null"`
	Email       string    `json:"email" gorm:"type:varchar(100);not null"`
	Phone       string    `json:"phone" gorm:"type:varchar(20);not null"`
	Address     string    `json:"address" gorm:"type:text;not null"`
	CoverLetter string    `json:"coverLetter" gorm:"type:text;not null"`
	Resume      Resume    `json:"resume" gorm:"embedded;embeddedPrefix:resume_"`
	JobID       uint      `json:"jobId" gorm:"index;not null"`
	ApplicantID Party     `json:"applicantID" gorm:"embedded;embeddedPrefix:applicant_"`
	EmployerID  Party     `json:"employerID" gorm:"embedded;embeddedPrefix:employer_"`
	AppliedAt   time.Time `json:"appliedAt" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
