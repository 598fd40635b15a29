package model

import "time"

// JobType is a closed enumeration of employment types.
type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
	JobTypeFreelance  JobType = "Freelance"
)

// Valid reports whether jt is one of the known job types.
func (jt JobType) Valid() bool {
	switch jt {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeFreelance:
		return true
	}
	return false
}

// Job is a posting owned by an employer account.
//
// CompanyName and CompanyLogo are a snapshot taken from the employer's
// profile when the job is created. Editing the profile afterwards does NOT
// rewrite existing jobs — the snapshot is deliberate denormalization, not a
// live join.
//
// The list of applicants is never stored on the job; it is derived by
// querying applications by job ID.
type Job struct {
	ID               string    `json:"id"`
	EmployerID       string    `json:"employerId"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Qualifications   []string  `json:"qualifications"`
	Responsibilities []string  `json:"responsibilities"`
	JobType          JobType   `json:"jobType"`
	Location         string    `json:"location"`
	SalaryMin        int64     `json:"salaryMin"`
	SalaryMax        int64     `json:"salaryMax"`
	CompanyName      string    `json:"companyName"`
	CompanyLogo      string    `json:"companyLogo"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
