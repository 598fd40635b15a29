package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/repository"
)

// JobService manages job postings on behalf of employers and exposes the
// public listing for everyone else.
type JobService struct {
	jobs     repository.JobRepository
	profiles repository.EmployerProfileRepository
	logger   *slog.Logger
}

func NewJobService(
	jobs repository.JobRepository,
	profiles repository.EmployerProfileRepository,
	logger *slog.Logger,
) *JobService {
	return &JobService{jobs: jobs, profiles: profiles, logger: logger}
}

// CreateJobInput carries the posting fields an employer submits.
type CreateJobInput struct {
	Title            string
	Description      string
	Qualifications   []string
	Responsibilities []string
	JobType          model.JobType
	Location         string
	SalaryMin        int64
	SalaryMax        int64
}

// Create posts a new job for the employer. Company branding is stamped onto
// the posting from the employer's profile at creation time — a posting keeps
// the name it was published under even if the profile changes later. With no
// profile the company shows as "Confidential".
func (s *JobService) Create(ctx context.Context, employerID string, in CreateJobInput) (*model.Job, error) {
	if err := validateJobInput(in.Title, in.Description, in.JobType); err != nil {
		return nil, err
	}
	if in.SalaryMin < 0 || in.SalaryMax < 0 {
		return nil, apperror.ValidationFailed("salary", "salary must not be negative")
	}
	if in.SalaryMax > 0 && in.SalaryMin > in.SalaryMax {
		return nil, apperror.ValidationFailed("salary", "salaryMin must not exceed salaryMax")
	}

	companyName := "Confidential"
	companyLogo := ""
	profile, err := s.profiles.GetByUserID(ctx, employerID)
	switch {
	case err == nil:
		if profile.CompanyName != "" {
			companyName = profile.CompanyName
		}
		companyLogo = profile.Logo
	case errors.Is(err, apperror.ErrNotFound):
		// No profile yet — post anonymously
	default:
		return nil, fmt.Errorf("service/job: loading employer profile: %w", err)
	}

	job := &model.Job{
		EmployerID:       employerID,
		Title:            strings.TrimSpace(in.Title),
		Description:      strings.TrimSpace(in.Description),
		Qualifications:   in.Qualifications,
		Responsibilities: in.Responsibilities,
		JobType:          in.JobType,
		Location:         strings.TrimSpace(in.Location),
		SalaryMin:        in.SalaryMin,
		SalaryMax:        in.SalaryMax,
		CompanyName:      companyName,
		CompanyLogo:      companyLogo,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("service/job: creating job: %w", err)
	}

	s.logger.Info("job posted",
		slog.String("jobID", job.ID),
		slog.String("employerID", employerID),
		slog.String("company", companyName),
	)

	return job, nil
}

// List returns all public postings, newest first, narrowed by any filters
// the caller set. An unknown jobType filter is rejected rather than
// silently matching nothing.
func (s *JobService) List(ctx context.Context, filter repository.JobFilter) ([]model.Job, error) {
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	filter.Location = strings.TrimSpace(filter.Location)
	if filter.JobType != "" && !filter.JobType.Valid() {
		return nil, apperror.ValidationFailed("jobType", "unknown job type")
	}
	return s.jobs.List(ctx, filter)
}

// GetByID returns a single public posting.
func (s *JobService) GetByID(ctx context.Context, jobID string) (*model.Job, error) {
	return s.jobs.GetByID(ctx, jobID)
}

// ListByEmployer returns the employer's own postings, newest first.
func (s *JobService) ListByEmployer(ctx context.Context, employerID string) ([]model.Job, error) {
	return s.jobs.ListByEmployer(ctx, employerID)
}

// UpdateJobInput holds optional replacement fields. Nil pointers leave the
// current value in place, so a client can PATCH just the title.
type UpdateJobInput struct {
	Title            *string
	Description      *string
	Qualifications   *[]string
	Responsibilities *[]string
	JobType          *model.JobType
	Location         *string
	SalaryMin        *int64
	SalaryMax        *int64
}

// Update applies the changed fields to a job the employer owns. A job that
// doesn't exist and a job owned by someone else produce the same NotFound
// error, so callers can't enumerate other employers' postings.
func (s *JobService) Update(ctx context.Context, jobID, employerID string, in UpdateJobInput) (*model.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil || job.EmployerID != employerID {
		return nil, apperror.NotFoundMsg("job not found or unauthorized")
	}

	if in.Title != nil {
		job.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		job.Description = strings.TrimSpace(*in.Description)
	}
	if in.Qualifications != nil {
		job.Qualifications = *in.Qualifications
	}
	if in.Responsibilities != nil {
		job.Responsibilities = *in.Responsibilities
	}
	if in.JobType != nil {
		job.JobType = *in.JobType
	}
	if in.Location != nil {
		job.Location = strings.TrimSpace(*in.Location)
	}
	if in.SalaryMin != nil {
		job.SalaryMin = *in.SalaryMin
	}
	if in.SalaryMax != nil {
		job.SalaryMax = *in.SalaryMax
	}

	if err := validateJobInput(job.Title, job.Description, job.JobType); err != nil {
		return nil, err
	}
	if job.SalaryMin < 0 || job.SalaryMax < 0 {
		return nil, apperror.ValidationFailed("salary", "salary must not be negative")
	}
	if job.SalaryMax > 0 && job.SalaryMin > job.SalaryMax {
		return nil, apperror.ValidationFailed("salary", "salaryMin must not exceed salaryMax")
	}

	// The employer_id guard in the UPDATE re-checks ownership at the
	// database, closing the window between the read above and this write.
	if err := s.jobs.UpdateOwned(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("job updated",
		slog.String("jobID", job.ID),
		slog.String("employerID", employerID),
	)

	return job, nil
}

// Delete removes a job the employer owns. Same no-probing rule as Update.
func (s *JobService) Delete(ctx context.Context, jobID, employerID string) error {
	if err := s.jobs.DeleteOwned(ctx, jobID, employerID); err != nil {
		return err
	}
	s.logger.Info("job deleted",
		slog.String("jobID", jobID),
		slog.String("employerID", employerID),
	)
	return nil
}

func validateJobInput(title, description string, jobType model.JobType) error {
	if strings.TrimSpace(title) == "" {
		return apperror.ValidationFailed("title", "title is required")
	}
	if strings.TrimSpace(description) == "" {
		return apperror.ValidationFailed("description", "description is required")
	}
	if !jobType.Valid() {
		return apperror.ValidationFailed("jobType", "unknown job type")
	}
	return nil
}
