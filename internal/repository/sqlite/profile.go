package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/repository"
)

// EmployerProfileStore implements repository.EmployerProfileRepository.
type EmployerProfileStore struct {
	conn *sql.DB
}

var _ repository.EmployerProfileRepository = (*EmployerProfileStore)(nil)

// GetByUserID retrieves the employer profile for the user.
// Returns apperror.ErrNotFound when the user has no profile yet.
func (s *EmployerProfileStore) GetByUserID(ctx context.Context, userID string) (*model.EmployerProfile, error) {
	var p model.EmployerProfile
	err := s.conn.QueryRowContext(ctx,
		`SELECT user_id, company_name, company_email, phone, website, description,
		        location, logo, created_at, updated_at
		 FROM employer_profiles WHERE user_id = ?`,
		userID,
	).Scan(
		&p.UserID,
		&p.CompanyName,
		&p.CompanyEmail,
		&p.Phone,
		&p.Website,
		&p.Description,
		&p.Location,
		&p.Logo,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("employer profile", userID)
		}
		return nil, fmt.Errorf("sqlite: getting employer profile for user %s: %w", userID, err)
	}
	return &p, nil
}

// Upsert creates or replaces the profile keyed by user_id.
//
// ON CONFLICT DO UPDATE keeps the original created_at while refreshing all
// editable fields, so the upsert is idempotent and repeatable.
func (s *EmployerProfileStore) Upsert(ctx context.Context, p *model.EmployerProfile) error {
	now := time.Now()
	p.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO employer_profiles
		   (user_id, company_name, company_email, phone, website, description,
		    location, logo, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   company_name = excluded.company_name,
		   company_email = excluded.company_email,
		   phone = excluded.phone,
		   website = excluded.website,
		   description = excluded.description,
		   location = excluded.location,
		   logo = excluded.logo,
		   updated_at = excluded.updated_at`,
		p.UserID,
		p.CompanyName,
		p.CompanyEmail,
		p.Phone,
		p.Website,
		p.Description,
		p.Location,
		p.Logo,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting employer profile for user %s: %w", p.UserID, err)
	}
	return nil
}

// JobSeekerProfileStore implements repository.JobSeekerProfileRepository.
type JobSeekerProfileStore struct {
	conn *sql.DB
}

var _ repository.JobSeekerProfileRepository = (*JobSeekerProfileStore)(nil)

// GetByUserID retrieves the job seeker profile for the user.
// Returns apperror.ErrNotFound when the user has no profile yet.
func (s *JobSeekerProfileStore) GetByUserID(ctx context.Context, userID string) (*model.JobSeekerProfile, error) {
	var (
		p         model.JobSeekerProfile
		skillsRaw string
	)
	err := s.conn.QueryRowContext(ctx,
		`SELECT user_id, full_name, phone, skills, experience, location, resume_url,
		        created_at, updated_at
		 FROM jobseeker_profiles WHERE user_id = ?`,
		userID,
	).Scan(
		&p.UserID,
		&p.FullName,
		&p.Phone,
		&skillsRaw,
		&p.Experience,
		&p.Location,
		&p.ResumeURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("profile", userID)
		}
		return nil, fmt.Errorf("sqlite: getting jobseeker profile for user %s: %w", userID, err)
	}
	if p.Skills, err = unmarshalStrings(skillsRaw); err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert creates or replaces the profile keyed by user_id.
func (s *JobSeekerProfileStore) Upsert(ctx context.Context, p *model.JobSeekerProfile) error {
	skills, err := marshalStrings(p.Skills)
	if err != nil {
		return err
	}

	now := time.Now()
	p.UpdatedAt = now

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO jobseeker_profiles
		   (user_id, full_name, phone, skills, experience, location, resume_url,
		    created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   full_name = excluded.full_name,
		   phone = excluded.phone,
		   skills = excluded.skills,
		   experience = excluded.experience,
		   location = excluded.location,
		   resume_url = excluded.resume_url,
		   updated_at = excluded.updated_at`,
		p.UserID,
		p.FullName,
		p.Phone,
		skills,
		p.Experience,
		p.Location,
		p.ResumeURL,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting jobseeker profile for user %s: %w", p.UserID, err)
	}
	return nil
}
