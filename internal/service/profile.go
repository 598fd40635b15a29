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

// ProfileService manages the two profile kinds: employer company pages and
// job-seeker resumes. Each user has at most one profile of their role's
// kind, written with upsert semantics.
type ProfileService struct {
	employers repository.EmployerProfileRepository
	seekers   repository.JobSeekerProfileRepository
	logger    *slog.Logger
}

func NewProfileService(
	employers repository.EmployerProfileRepository,
	seekers repository.JobSeekerProfileRepository,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{employers: employers, seekers: seekers, logger: logger}
}

// EmployerProfileInput is the employer's company page. Logo is filled in by
// the handler after storing the uploaded image; empty keeps the current one.
type EmployerProfileInput struct {
	CompanyName  string
	CompanyEmail string
	Phone        string
	Website      string
	Description  string
	Location     string
	Logo         string
}

// GetEmployer returns the employer's profile, or NotFound before the first
// save.
func (s *ProfileService) GetEmployer(ctx context.Context, userID string) (*model.EmployerProfile, error) {
	return s.employers.GetByUserID(ctx, userID)
}

// UpsertEmployer creates or replaces the employer's profile.
func (s *ProfileService) UpsertEmployer(ctx context.Context, userID string, in EmployerProfileInput) (*model.EmployerProfile, error) {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.CompanyEmail = normalizeEmail(in.CompanyEmail)

	if in.CompanyName == "" {
		return nil, apperror.ValidationFailed("companyName", "company name is required")
	}
	if !looksLikeEmail(in.CompanyEmail) {
		return nil, apperror.ValidationFailed("companyEmail", "a valid company email is required")
	}

	profile := &model.EmployerProfile{
		UserID:       userID,
		CompanyName:  in.CompanyName,
		CompanyEmail: in.CompanyEmail,
		Phone:        strings.TrimSpace(in.Phone),
		Website:      strings.TrimSpace(in.Website),
		Description:  in.Description,
		Location:     strings.TrimSpace(in.Location),
		Logo:         in.Logo,
	}

	// No new logo uploaded — keep the one already on file
	if profile.Logo == "" {
		if existing, err := s.employers.GetByUserID(ctx, userID); err == nil {
			profile.Logo = existing.Logo
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service/profile: loading employer profile: %w", err)
		}
	}

	if err := s.employers.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("service/profile: saving employer profile: %w", err)
	}

	s.logger.Info("employer profile saved",
		slog.String("userID", userID),
		slog.String("company", profile.CompanyName),
	)

	return profile, nil
}

// JobSeekerProfileInput is the seeker's resume card. ResumeURL is filled in
// by the handler after storing the uploaded file; empty keeps the current
// one.
type JobSeekerProfileInput struct {
	FullName   string
	Phone      string
	Skills     []string
	Experience string
	Location   string
	ResumeURL  string
}

// GetJobSeeker returns the seeker's profile, or NotFound before the first
// save.
func (s *ProfileService) GetJobSeeker(ctx context.Context, userID string) (*model.JobSeekerProfile, error) {
	return s.seekers.GetByUserID(ctx, userID)
}

// UpsertJobSeeker creates or replaces the seeker's profile.
func (s *ProfileService) UpsertJobSeeker(ctx context.Context, userID string, in JobSeekerProfileInput) (*model.JobSeekerProfile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	if in.FullName == "" {
		return nil, apperror.ValidationFailed("fullName", "full name is required")
	}

	profile := &model.JobSeekerProfile{
		UserID:     userID,
		FullName:   in.FullName,
		Phone:      strings.TrimSpace(in.Phone),
		Skills:     cleanSkills(in.Skills),
		Experience: in.Experience,
		Location:   strings.TrimSpace(in.Location),
		ResumeURL:  in.ResumeURL,
	}

	// No new resume uploaded — keep the one already on file
	if profile.ResumeURL == "" {
		if existing, err := s.seekers.GetByUserID(ctx, userID); err == nil {
			profile.ResumeURL = existing.ResumeURL
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("service/profile: loading seeker profile: %w", err)
		}
	}

	if err := s.seekers.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("service/profile: saving seeker profile: %w", err)
	}

	s.logger.Info("job seeker profile saved", slog.String("userID", userID))

	return profile, nil
}

// ParseSkills splits a comma-separated form value into a clean skill list.
// Clients submit skills either as repeated fields or one CSV string.
func ParseSkills(raw string) []string {
	return cleanSkills(strings.Split(raw, ","))
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
