package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/auth"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/repository"
	"github.com/sakif/jobboard/internal/service"
)

// JobHandler exposes the public job board and the employer's posting CRUD.
type JobHandler struct {
	jobs   *service.JobService
	logger *slog.Logger
}

func NewJobHandler(jobs *service.JobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, logger: logger}
}

type createJobRequest struct {
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Qualifications   []string      `json:"qualifications"`
	Responsibilities []string      `json:"responsibilities"`
	JobType          model.JobType `json:"jobType"`
	Location         string        `json:"location"`
	SalaryMin        int64         `json:"salaryMin"`
	SalaryMax        int64         `json:"salaryMax"`
}

// HandleCreate posts a new job for the authenticated employer.
//
// HTTP: POST /api/jobs
// Auth: employer
func (h *JobHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	job, err := h.jobs.Create(r.Context(), claims.UserID(), service.CreateJobInput{
		Title:            req.Title,
		Description:      req.Description,
		Qualifications:   req.Qualifications,
		Responsibilities: req.Responsibilities,
		JobType:          req.JobType,
		Location:         req.Location,
		SalaryMin:        req.SalaryMin,
		SalaryMax:        req.SalaryMax,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

// HandleList returns all postings, optionally filtered.
//
// HTTP: GET /api/jobs?keyword=go&jobType=Full-time&location=remote
// Auth: none — the board is public
func (h *JobHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.JobFilter{
		Keyword:  q.Get("keyword"),
		JobType:  model.JobType(q.Get("jobType")),
		Location: q.Get("location"),
	}

	jobs, err := h.jobs.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jobs)
}

// HandleGetByID returns a single posting.
//
// HTTP: GET /api/jobs/{id}
// Auth: none
func (h *JobHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// HandleListMine returns the employer's own postings.
//
// HTTP: GET /api/jobs/my-jobs
// Auth: employer
func (h *JobHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	jobs, err := h.jobs.ListByEmployer(r.Context(), claims.UserID())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jobs)
}

// updateJobRequest uses pointers so absent fields are left unchanged.
type updateJobRequest struct {
	Title            *string        `json:"title"`
	Description      *string        `json:"description"`
	Qualifications   *[]string      `json:"qualifications"`
	Responsibilities *[]string      `json:"responsibilities"`
	JobType          *model.JobType `json:"jobType"`
	Location         *string        `json:"location"`
	SalaryMin        *int64         `json:"salaryMin"`
	SalaryMax        *int64         `json:"salaryMax"`
}

// HandleUpdate edits a posting the employer owns.
//
// HTTP: PUT /api/jobs/{id}
// Auth: employer
func (h *JobHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req updateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	job, err := h.jobs.Update(r.Context(), chi.URLParam(r, "id"), claims.UserID(), service.UpdateJobInput{
		Title:            req.Title,
		Description:      req.Description,
		Qualifications:   req.Qualifications,
		Responsibilities: req.Responsibilities,
		JobType:          req.JobType,
		Location:         req.Location,
		SalaryMin:        req.SalaryMin,
		SalaryMax:        req.SalaryMax,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// HandleDelete removes a posting the employer owns.
//
// HTTP: DELETE /api/jobs/{id}
// Auth: employer
func (h *JobHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	if err := h.jobs.Delete(r.Context(), chi.URLParam(r, "id"), claims.UserID()); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "job deleted successfully"})
}
