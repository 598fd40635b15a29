package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/repository"
)

// ApplicationService handles the job-seeker side of applying and the
// employer side of reviewing applicants.
type ApplicationService struct {
	apps   repository.ApplicationRepository
	jobs   repository.JobRepository
	logger *slog.Logger
}

func NewApplicationService(
	apps repository.ApplicationRepository,
	jobs repository.JobRepository,
	logger *slog.Logger,
) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs, logger: logger}
}

// ApplyInput is the application form a job seeker submits. ResumeURL is
// filled in by the handler after storing the uploaded file.
type ApplyInput struct {
	FullName    string
	Email       string
	Phone       string
	Skills      []string
	Experience  string
	Education   string
	CoverLetter string
	ResumeURL   string
}

// Apply submits an application for a job. One application per seeker per
// job: a repeat attempt fails with Conflict. New applications start in the
// applied status.
func (s *ApplicationService) Apply(ctx context.Context, jobID, applicantID string, in ApplyInput) (*model.Application, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = normalizeEmail(in.Email)

	if in.FullName == "" {
		return nil, apperror.ValidationFailed("fullName", "full name is required")
	}
	if !looksLikeEmail(in.Email) {
		return nil, apperror.ValidationFailed("email", "a valid email is required")
	}

	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		return nil, err
	}

	// Friendly pre-check; the UNIQUE (job, applicant) index is the real
	// guarantee and turns a racing duplicate into the same Conflict.
	applied, err := s.apps.HasApplied(ctx, jobID, applicantID)
	if err != nil {
		return nil, fmt.Errorf("service/application: checking prior application: %w", err)
	}
	if applied {
		return nil, apperror.Conflict("you have already applied for this job")
	}

	app := &model.Application{
		JobID:       jobID,
		ApplicantID: applicantID,
		FullName:    in.FullName,
		Email:       in.Email,
		Phone:       strings.TrimSpace(in.Phone),
		Skills:      in.Skills,
		Experience:  in.Experience,
		Education:   in.Education,
		CoverLetter: in.CoverLetter,
		ResumeURL:   in.ResumeURL,
		Status:      model.StatusApplied,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}

	s.logger.Info("application submitted",
		slog.String("applicationID", app.ID),
		slog.String("jobID", jobID),
		slog.String("applicantID", applicantID),
	)

	return app, nil
}

// ListByApplicant returns the seeker's own applications, each carrying a
// summary of the job it targets.
func (s *ApplicationService) ListByApplicant(ctx context.Context, applicantID string) ([]model.ApplicationWithJob, error) {
	return s.apps.ListByApplicant(ctx, applicantID)
}

// ListByJob returns every application for one of the employer's jobs.
// Employers only see applicants for jobs they own.
func (s *ApplicationService) ListByJob(ctx context.Context, jobID, employerID string) ([]model.Application, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != employerID {
		return nil, apperror.Forbidden("not authorized to view these applications")
	}
	return s.apps.ListByJob(ctx, jobID)
}

// UpdateStatus moves an application through the review pipeline. Only the
// employer who owns the parent job may change it.
func (s *ApplicationService) UpdateStatus(ctx context.Context, applicationID, employerID string, status model.ApplicationStatus) (*model.Application, error) {
	if !status.Valid() {
		return nil, apperror.ValidationFailed("status", "unknown application status")
	}

	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, fmt.Errorf("service/application: loading parent job %s: %w", app.JobID, err)
	}
	if job.EmployerID != employerID {
		return nil, apperror.Forbidden("not authorized to update this application")
	}

	if err := s.apps.UpdateStatus(ctx, applicationID, status); err != nil {
		return nil, err
	}
	app.Status = status

	s.logger.Info("application status updated",
		slog.String("applicationID", applicationID),
		slog.String("status", string(status)),
		slog.String("employerID", employerID),
	)

	return app, nil
}
