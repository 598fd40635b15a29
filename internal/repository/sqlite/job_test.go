package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/repository"
)

// createTestJob inserts a job owned by employerID and fails the test on
// error.
func createTestJob(t *testing.T, jobs *JobStore, employerID, title string) *model.Job {
	t.Helper()
	job := &model.Job{
		EmployerID:       employerID,
		Title:            title,
		Description:      "We are hiring.",
		Qualifications:   []string{"3+ years Go"},
		Responsibilities: []string{"Build APIs"},
		JobType:          model.JobTypeFullTime,
		Location:         "Dhaka",
		SalaryMin:        50000,
		SalaryMax:        90000,
		CompanyName:      "Acme",
	}
	if err := jobs.Create(context.Background(), job); err != nil {
		t.Fatalf("failed to create test job: %v", err)
	}
	return job
}

func newTestJobStore(t *testing.T) (*JobStore, *model.User) {
	t.Helper()
	db := newTestDB(t)
	employer := createTestUser(t, db.Users(), "employer@example.com", model.RoleEmployer)
	return db.Jobs(), employer
}

// =========================================================================
// CREATE / GET TESTS
// =========================================================================

func TestJobCreate(t *testing.T) {
	jobs, employer := newTestJobStore(t)

	job := createTestJob(t, jobs, employer.ID, "Backend Engineer")

	if job.ID == "" {
		t.Error("Create() did not set job.ID")
	}
	if job.CreatedAt.IsZero() {
		t.Error("Create() did not set job.CreatedAt")
	}

	found, err := jobs.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Title != "Backend Engineer" {
		t.Errorf("Title = %q, want %q", found.Title, "Backend Engineer")
	}
	if len(found.Qualifications) != 1 || found.Qualifications[0] != "3+ years Go" {
		t.Errorf("Qualifications = %v, want [3+ years Go]", found.Qualifications)
	}
}

func TestJobGetByID_NotFound(t *testing.T) {
	jobs, _ := newTestJobStore(t)

	_, err := jobs.GetByID(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LIST / FILTER TESTS
// =========================================================================

func TestJobList_NoFilter(t *testing.T) {
	jobs, employer := newTestJobStore(t)
	createTestJob(t, jobs, employer.ID, "First")
	createTestJob(t, jobs, employer.ID, "Second")

	got, err := jobs.List(context.Background(), repository.JobFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d jobs, want 2", len(got))
	}
	// Newest first
	if got[0].Title != "Second" {
		t.Errorf("first job = %q, want %q (newest first)", got[0].Title, "Second")
	}
}

func TestJobList_KeywordMatchesTitleCaseInsensitive(t *testing.T) {
	jobs, employer := newTestJobStore(t)
	createTestJob(t, jobs, employer.ID, "React Developer")
	createTestJob(t, jobs, employer.ID, "Data Analyst")

	got, err := jobs.List(context.Background(), repository.JobFilter{Keyword: "react"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "React Developer" {
		t.Errorf("List(keyword=react) = %v, want just React Developer", titles(got))
	}
}

func TestJobList_KeywordMatchesQualifications(t *testing.T) {
	jobs, employer := newTestJobStore(t)

	job := &model.Job{
		EmployerID:     employer.ID,
		Title:          "Frontend Role",
		Description:    "UI work",
		Qualifications: []string{"Solid React experience"},
		JobType:        model.JobTypeContract,
		Location:       "Remote",
	}
	if err := jobs.Create(context.Background(), job); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	createTestJob(t, jobs, employer.ID, "Backend Role")

	got, err := jobs.List(context.Background(), repository.JobFilter{Keyword: "react"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Frontend Role" {
		t.Errorf("List(keyword=react) = %v, want just Frontend Role", titles(got))
	}
}

func TestJobList_KeywordMetacharactersAreLiteral(t *testing.T) {
	jobs, employer := newTestJobStore(t)
	createTestJob(t, jobs, employer.ID, "Backend Engineer")

	commission := &model.Job{
		EmployerID:  employer.ID,
		Title:       "Sales Rep (100% commission)",
		Description: "Commission only",
		JobType:     model.JobTypeFullTime,
		Location:    "Dhaka",
	}
	if err := jobs.Create(context.Background(), commission); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// "%" must match itself, not act as a wildcard matching every row
	got, err := jobs.List(context.Background(), repository.JobFilter{Keyword: "100%"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Sales Rep (100% commission)" {
		t.Errorf("List(keyword=100%%) = %v, want just the commission job", titles(got))
	}

	// Same for "_", which LIKE treats as match-any-character: "B_ckend"
	// must not match "Backend"
	got, err = jobs.List(context.Background(), repository.JobFilter{Keyword: "B_ckend"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List(keyword=B_ckend) = %v, want no matches", titles(got))
	}
}

func TestJobList_JobTypeExactMatch(t *testing.T) {
	jobs, employer := newTestJobStore(t)
	createTestJob(t, jobs, employer.ID, "Full Timer") // Full-time

	contract := &model.Job{
		EmployerID:  employer.ID,
		Title:       "Contractor",
		Description: "Short gig",
		JobType:     model.JobTypeContract,
		Location:    "Remote",
	}
	if err := jobs.Create(context.Background(), contract); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := jobs.List(context.Background(), repository.JobFilter{JobType: model.JobTypeContract})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].JobType != model.JobTypeContract {
		t.Errorf("List(jobType=Contract) = %v, want just Contractor", titles(got))
	}
}

func TestJobList_LocationSubstring(t *testing.T) {
	jobs, employer := newTestJobStore(t)
	createTestJob(t, jobs, employer.ID, "Local Role") // Dhaka

	remote := &model.Job{
		EmployerID:  employer.ID,
		Title:       "Remote Role",
		Description: "Anywhere",
		JobType:     model.JobTypeFullTime,
		Location:    "Remote (Europe)",
	}
	if err := jobs.Create(context.Background(), remote); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := jobs.List(context.Background(), repository.JobFilter{Location: "remote"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Remote Role" {
		t.Errorf("List(location=remote) = %v, want just Remote Role", titles(got))
	}
}

func TestJobList_FiltersCompose(t *testing.T) {
	jobs, employer := newTestJobStore(t)
	createTestJob(t, jobs, employer.ID, "Go Engineer") // Full-time, Dhaka

	other := &model.Job{
		EmployerID:  employer.ID,
		Title:       "Go Contractor",
		Description: "Go work",
		JobType:     model.JobTypeContract,
		Location:    "Dhaka",
	}
	if err := jobs.Create(context.Background(), other); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// keyword AND jobType must both hold
	got, err := jobs.List(context.Background(), repository.JobFilter{
		Keyword: "go",
		JobType: model.JobTypeContract,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Go Contractor" {
		t.Errorf("List(keyword=go, jobType=Contract) = %v, want just Go Contractor", titles(got))
	}
}

func TestJobListByEmployer(t *testing.T) {
	db := newTestDB(t)
	jobs := db.Jobs()
	e1 := createTestUser(t, db.Users(), "e1@example.com", model.RoleEmployer)
	e2 := createTestUser(t, db.Users(), "e2@example.com", model.RoleEmployer)

	createTestJob(t, jobs, e1.ID, "Mine")
	createTestJob(t, jobs, e2.ID, "Theirs")

	got, err := jobs.ListByEmployer(context.Background(), e1.ID)
	if err != nil {
		t.Fatalf("ListByEmployer() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Mine" {
		t.Errorf("ListByEmployer() = %v, want just Mine", titles(got))
	}
}

// =========================================================================
// OWNERSHIP TESTS
// =========================================================================

func TestJobUpdateOwned(t *testing.T) {
	jobs, employer := newTestJobStore(t)
	job := createTestJob(t, jobs, employer.ID, "Old Title")

	job.Title = "New Title"
	job.SalaryMax = 120000
	if err := jobs.UpdateOwned(context.Background(), job); err != nil {
		t.Fatalf("UpdateOwned() error = %v", err)
	}

	found, _ := jobs.GetByID(context.Background(), job.ID)
	if found.Title != "New Title" {
		t.Errorf("Title = %q, want %q", found.Title, "New Title")
	}
	if found.SalaryMax != 120000 {
		t.Errorf("SalaryMax = %d, want 120000", found.SalaryMax)
	}
}

func TestJobUpdateOwned_WrongEmployer(t *testing.T) {
	db := newTestDB(t)
	jobs := db.Jobs()
	owner := createTestUser(t, db.Users(), "owner@example.com", model.RoleEmployer)
	intruder := createTestUser(t, db.Users(), "intruder@example.com", model.RoleEmployer)

	job := createTestJob(t, jobs, owner.ID, "Protected")

	hijacked := *job
	hijacked.EmployerID = intruder.ID
	hijacked.Title = "Hijacked"

	err := jobs.UpdateOwned(context.Background(), &hijacked)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound (same error as missing job)", err)
	}

	// The row is untouched
	found, _ := jobs.GetByID(context.Background(), job.ID)
	if found.Title != "Protected" {
		t.Errorf("Title = %q, want unchanged %q", found.Title, "Protected")
	}
}

func TestJobDeleteOwned(t *testing.T) {
	jobs, employer := newTestJobStore(t)
	job := createTestJob(t, jobs, employer.ID, "Doomed")

	if err := jobs.DeleteOwned(context.Background(), job.ID, employer.ID); err != nil {
		t.Fatalf("DeleteOwned() error = %v", err)
	}

	_, err := jobs.GetByID(context.Background(), job.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("job still exists after DeleteOwned()")
	}
}

func TestJobDeleteOwned_WrongEmployer(t *testing.T) {
	db := newTestDB(t)
	jobs := db.Jobs()
	owner := createTestUser(t, db.Users(), "owner2@example.com", model.RoleEmployer)
	intruder := createTestUser(t, db.Users(), "intruder2@example.com", model.RoleEmployer)

	job := createTestJob(t, jobs, owner.ID, "Protected")

	err := jobs.DeleteOwned(context.Background(), job.ID, intruder.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	if _, err := jobs.GetByID(context.Background(), job.ID); err != nil {
		t.Error("job was deleted by a non-owner")
	}
}

func titles(jobs []model.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Title
	}
	return out
}
