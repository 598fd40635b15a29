package model

import "time"

// EmployerProfile is the one-to-one supplemental record for an employer
// account, keyed by UserID (unique). Job creation reads it to stamp the
// company name and logo onto new postings.
type EmployerProfile struct {
	UserID       string    `json:"userId"`
	CompanyName  string    `json:"companyName"`
	CompanyEmail string    `json:"companyEmail"`
	Phone        string    `json:"phone"`
	Website      string    `json:"website"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Logo         string    `json:"logo"` // path under /uploads, or external URL
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// JobSeekerProfile is the one-to-one supplemental record for a job seeker
// account, keyed by UserID (unique).
type JobSeekerProfile struct {
	UserID     string    `json:"userId"`
	FullName   string    `json:"fullName"`
	Phone      string    `json:"phone"`
	Skills     []string  `json:"skills"`
	Experience string    `json:"experience"`
	Location   string    `json:"location"`
	ResumeURL  string    `json:"resumeUrl"` // path under /uploads
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
