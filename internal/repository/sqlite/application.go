package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/repository"
)

// ApplicationStore implements repository.ApplicationRepository on the
// shared pool.
type ApplicationStore struct {
	conn *sql.DB
}

var _ repository.ApplicationRepository = (*ApplicationStore)(nil)

const applicationColumns = `id, job_id, applicant_id, full_name, email, phone, skills,
	experience, education, cover_letter, resume_url, status, created_at, updated_at`

func scanApplication(row interface{ Scan(...any) error }) (*model.Application, error) {
	var (
		a         model.Application
		skillsRaw string
	)
	err := row.Scan(
		&a.ID,
		&a.JobID,
		&a.ApplicantID,
		&a.FullName,
		&a.Email,
		&a.Phone,
		&skillsRaw,
		&a.Experience,
		&a.Education,
		&a.CoverLetter,
		&a.ResumeURL,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if a.Skills, err = unmarshalStrings(skillsRaw); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new application, generating its ID and timestamps in
// place.
//
// The UNIQUE(job_id, applicant_id) index is what actually guarantees
// one-application-per-job-per-seeker: when two concurrent applies both
// pass the service's HasApplied pre-check, the second INSERT lands here
// and comes back as Conflict instead of a duplicate row.
func (s *ApplicationStore) Create(ctx context.Context, app *model.Application) error {
	skills, err := marshalStrings(app.Skills)
	if err != nil {
		return err
	}

	now := time.Now()
	app.ID = xid.New().String()
	app.CreatedAt = now
	app.UpdatedAt = now

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO applications (`+applicationColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID,
		app.JobID,
		app.ApplicantID,
		app.FullName,
		app.Email,
		app.Phone,
		skills,
		app.Experience,
		app.Education,
		app.CoverLetter,
		app.ResumeURL,
		app.Status,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "applications.job_id") {
			return apperror.Conflict("you have already applied for this job")
		}
		return fmt.Errorf("sqlite: inserting application (job=%s applicant=%s): %w",
			app.JobID, app.ApplicantID, err)
	}

	return nil
}

// GetByID retrieves an application by ID.
// Returns apperror.ErrNotFound if no application exists with that ID.
func (s *ApplicationStore) GetByID(ctx context.Context, id string) (*model.Application, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)

	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("application", id)
		}
		return nil, fmt.Errorf("sqlite: getting application %s: %w", id, err)
	}
	return app, nil
}

// HasApplied reports whether an application exists for the
// (jobID, applicantID) pair.
func (s *ApplicationStore) HasApplied(ctx context.Context, jobID, applicantID string) (bool, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE job_id = ? AND applicant_id = ?`,
		jobID, applicantID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking existing application (job=%s applicant=%s): %w",
			jobID, applicantID, err)
	}
	return count > 0, nil
}

// ListByApplicant returns the seeker's applications joined with a summary
// of each job (title, company, location, salary range), newest first.
func (s *ApplicationStore) ListByApplicant(ctx context.Context, applicantID string) ([]model.ApplicationWithJob, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT a.id, a.job_id, a.applicant_id, a.full_name, a.email, a.phone, a.skills,
		        a.experience, a.education, a.cover_letter, a.resume_url, a.status,
		        a.created_at, a.updated_at,
		        j.id, j.title, j.company_name, j.location, j.salary_min, j.salary_max, j.job_type
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 WHERE a.applicant_id = ?
		 ORDER BY a.created_at DESC, a.id DESC`,
		applicantID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing applications for applicant %s: %w", applicantID, err)
	}
	defer rows.Close()

	result := []model.ApplicationWithJob{}
	for rows.Next() {
		var (
			item      model.ApplicationWithJob
			skillsRaw string
		)
		err := rows.Scan(
			&item.ID,
			&item.JobID,
			&item.ApplicantID,
			&item.FullName,
			&item.Email,
			&item.Phone,
			&skillsRaw,
			&item.Experience,
			&item.Education,
			&item.CoverLetter,
			&item.ResumeURL,
			&item.Status,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.Job.ID,
			&item.Job.Title,
			&item.Job.CompanyName,
			&item.Job.Location,
			&item.Job.SalaryMin,
			&item.Job.SalaryMax,
			&item.Job.JobType,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning application row: %w", err)
		}
		if item.Skills, err = unmarshalStrings(skillsRaw); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating application rows: %w", err)
	}
	return result, nil
}

// ListByJob returns every application for the job, newest first. Ownership
// of the job is the service's concern; this is a plain lookup.
func (s *ApplicationStore) ListByJob(ctx context.Context, jobID string) ([]model.Application, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE job_id = ? ORDER BY created_at DESC, id DESC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing applications for job %s: %w", jobID, err)
	}
	defer rows.Close()

	apps := []model.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning application row: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating application rows: %w", err)
	}
	return apps, nil
}

// UpdateStatus sets the application's status unconditionally — the
// lifecycle has no enforced transition order.
func (s *ApplicationStore) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE applications SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating application %s status: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating application %s status: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("application", id)
	}
	return nil
}
