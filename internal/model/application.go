package model

import "time"

// ApplicationStatus is the lifecycle state of an application.
//
// The canonical vocabulary is applied → reviewed → shortlisted / rejected,
// though no transition order is enforced — an employer may move an
// application from any status to any other.
type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "applied"
	StatusReviewed    ApplicationStatus = "reviewed"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusRejected    ApplicationStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusReviewed, StatusShortlisted, StatusRejected:
		return true
	}
	return false
}

// Application is a job seeker's submission for a specific job.
//
// At most one application may exist per (JobID, ApplicantID) pair. The
// constraint lives in the database (a UNIQUE index), so two concurrent
// applies cannot both slip past the service-level existence check.
type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"jobId"`
	ApplicantID string            `json:"applicantId"`
	FullName    string            `json:"fullName"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	Skills      []string          `json:"skills"`
	Experience  string            `json:"experience"`
	Education   string            `json:"education"`
	CoverLetter string            `json:"coverLetter"`
	ResumeURL   string            `json:"resumeUrl"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// JobSummary is the slice of a job that gets attached to a seeker's
// application listing so the UI can render "where did I apply" rows without
// a second request.
type JobSummary struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	CompanyName string  `json:"companyName"`
	Location    string  `json:"location"`
	SalaryMin   int64   `json:"salaryMin"`
	SalaryMax   int64   `json:"salaryMax"`
	JobType     JobType `json:"jobType"`
}

// ApplicationWithJob joins an application with its job summary at read time.
type ApplicationWithJob struct {
	Application
	Job JobSummary `json:"job"`
}
