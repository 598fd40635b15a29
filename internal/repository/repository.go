// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage implements them; tests substitute
// in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/jobboard/internal/model"
)

// JobFilter narrows a public job listing. Zero-value fields are no-ops;
// set fields compose with logical AND.
type JobFilter struct {
	Keyword  string        // case-insensitive match over title/description/qualifications/responsibilities
	JobType  model.JobType // exact match
	Location string        // case-insensitive substring match
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// LinkGoogle records Google linkage on an existing local account.
	LinkGoogle(ctx context.Context, userID, googleID string) error
}

type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, id string) (*model.Job, error)
	List(ctx context.Context, filter JobFilter) ([]model.Job, error)
	ListByEmployer(ctx context.Context, employerID string) ([]model.Job, error)
	// UpdateOwned writes the job only when a row with job.ID exists AND is
	// owned by job.EmployerID; otherwise it reports not-found without
	// distinguishing the two cases.
	UpdateOwned(ctx context.Context, job *model.Job) error
	// DeleteOwned follows the same ownership rule as UpdateOwned.
	DeleteOwned(ctx context.Context, id, employerID string) error
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id string) (*model.Application, error)
	// HasApplied reports whether an application already exists for the
	// (jobID, applicantID) pair.
	HasApplied(ctx context.Context, jobID, applicantID string) (bool, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]model.ApplicationWithJob, error)
	ListByJob(ctx context.Context, jobID string) ([]model.Application, error)
	UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) error
}

type EmployerProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.EmployerProfile, error)
	// Upsert creates or replaces the profile keyed by UserID uniqueness.
	Upsert(ctx context.Context, profile *model.EmployerProfile) error
}

type JobSeekerProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.JobSeekerProfile, error)
	Upsert(ctx context.Context, profile *model.JobSeekerProfile) error
}
