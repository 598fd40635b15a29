package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/repository"
)

// JobStore implements repository.JobRepository on the shared pool.
type JobStore struct {
	conn *sql.DB
}

var _ repository.JobRepository = (*JobStore)(nil)

const jobColumns = `id, employer_id, title, description, qualifications, responsibilities,
	job_type, location, salary_min, salary_max, company_name, company_logo, created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }) (*model.Job, error) {
	var (
		j                model.Job
		qualsRaw, resRaw string
	)
	err := row.Scan(
		&j.ID,
		&j.EmployerID,
		&j.Title,
		&j.Description,
		&qualsRaw,
		&resRaw,
		&j.JobType,
		&j.Location,
		&j.SalaryMin,
		&j.SalaryMax,
		&j.CompanyName,
		&j.CompanyLogo,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if j.Qualifications, err = unmarshalStrings(qualsRaw); err != nil {
		return nil, err
	}
	if j.Responsibilities, err = unmarshalStrings(resRaw); err != nil {
		return nil, err
	}
	return &j, nil
}

// Create inserts a new job, generating its ID and timestamps in place.
func (s *JobStore) Create(ctx context.Context, job *model.Job) error {
	quals, err := marshalStrings(job.Qualifications)
	if err != nil {
		return err
	}
	resp, err := marshalStrings(job.Responsibilities)
	if err != nil {
		return err
	}

	now := time.Now()
	job.ID = xid.New().String()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO jobs (`+jobColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.EmployerID,
		job.Title,
		job.Description,
		quals,
		resp,
		job.JobType,
		job.Location,
		job.SalaryMin,
		job.SalaryMax,
		job.CompanyName,
		job.CompanyLogo,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting job (employer=%s): %w", job.EmployerID, err)
	}

	return nil
}

// GetByID retrieves a job by ID.
// Returns apperror.ErrNotFound if no job exists with that ID.
func (s *JobStore) GetByID(ctx context.Context, id string) (*model.Job, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("job", id)
		}
		return nil, fmt.Errorf("sqlite: getting job %s: %w", id, err)
	}
	return job, nil
}

// likeEscaper neutralizes LIKE metacharacters in user-supplied filter
// text, so a keyword like "100%" matches the literal string instead of
// everything. Pairs with the ESCAPE '\' clause below.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// List returns jobs matching the filter, newest first.
//
// The keyword filter searches title, description, and the JSON-encoded
// qualifications/responsibilities columns. SQLite's LIKE is already
// case-insensitive for ASCII, which matches the intended behavior.
// Matching against the JSON columns means a keyword containing a double
// quote or backslash can miss entries where JSON encoding rewrote those
// characters; plain-word keywords are unaffected.
func (s *JobStore) List(ctx context.Context, filter repository.JobFilter) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	var (
		clauses []string
		args    []any
	)

	if filter.Keyword != "" {
		pattern := "%" + escapeLike(filter.Keyword) + "%"
		clauses = append(clauses,
			`(title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR qualifications LIKE ? ESCAPE '\' OR responsibilities LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if filter.JobType != "" {
		clauses = append(clauses, `job_type = ?`)
		args = append(args, filter.JobType)
	}
	if filter.Location != "" {
		clauses = append(clauses, `location LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(filter.Location)+"%")
	}

	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing jobs: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// ListByEmployer returns every job owned by the employer, newest first.
func (s *JobStore) ListByEmployer(ctx context.Context, employerID string) ([]model.Job, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE employer_id = ? ORDER BY created_at DESC, id DESC`,
		employerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing jobs for employer %s: %w", employerID, err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// UpdateOwned writes the job only when the row exists AND is owned by
// job.EmployerID. Zero rows affected collapses "missing" and "not yours"
// into one not-found error, so callers can't enumerate other employers'
// job IDs.
func (s *JobStore) UpdateOwned(ctx context.Context, job *model.Job) error {
	quals, err := marshalStrings(job.Qualifications)
	if err != nil {
		return err
	}
	resp, err := marshalStrings(job.Responsibilities)
	if err != nil {
		return err
	}

	job.UpdatedAt = time.Now()

	res, err := s.conn.ExecContext(ctx,
		`UPDATE jobs SET title = ?, description = ?, qualifications = ?, responsibilities = ?,
		        job_type = ?, location = ?, salary_min = ?, salary_max = ?, updated_at = ?
		 WHERE id = ? AND employer_id = ?`,
		job.Title,
		job.Description,
		quals,
		resp,
		job.JobType,
		job.Location,
		job.SalaryMin,
		job.SalaryMax,
		job.UpdatedAt,
		job.ID,
		job.EmployerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating job %s: %w", job.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating job %s: %w", job.ID, err)
	}
	if affected == 0 {
		return apperror.NotFoundMsg("job not found or unauthorized")
	}
	return nil
}

// DeleteOwned removes the job under the same ownership rule as UpdateOwned.
func (s *JobStore) DeleteOwned(ctx context.Context, id, employerID string) error {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM jobs WHERE id = ? AND employer_id = ?`, id, employerID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting job %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting job %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFoundMsg("job not found or unauthorized")
	}
	return nil
}

func collectJobs(rows *sql.Rows) ([]model.Job, error) {
	jobs := []model.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning job row: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating job rows: %w", err)
	}
	return jobs, nil
}
