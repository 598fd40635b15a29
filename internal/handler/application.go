package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/auth"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/service"
	"github.com/sakif/jobboard/internal/upload"
)

// maxMultipartMemory is the in-memory buffer for multipart parsing; larger
// parts spill to temp files. The upload store enforces the real size cap.
const maxMultipartMemory = upload.MaxFileSize + 512*1024

// ApplicationHandler exposes applying to jobs and reviewing applicants.
type ApplicationHandler struct {
	apps    *service.ApplicationService
	uploads *upload.Store
	logger  *slog.Logger
}

func NewApplicationHandler(apps *service.ApplicationService, uploads *upload.Store, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, uploads: uploads, logger: logger}
}

// HandleApply submits an application, with an optional resume attached as
// the "resume" multipart field. The target job travels in the "jobId"
// form field rather than the URL.
//
// HTTP: POST /api/applications/apply (multipart/form-data)
// Auth: any authenticated user
func (h *ApplicationHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid multipart form"))
		return
	}

	jobID := strings.TrimSpace(r.FormValue("jobId"))
	if jobID == "" {
		writeError(w, apperror.ValidationFailed("jobId", "jobId is required"))
		return
	}

	in := service.ApplyInput{
		FullName:    r.FormValue("fullName"),
		Email:       r.FormValue("email"),
		Phone:       r.FormValue("phone"),
		Skills:      formSkills(r),
		Experience:  r.FormValue("experience"),
		Education:   r.FormValue("education"),
		CoverLetter: r.FormValue("coverLetter"),
	}

	file, header, err := r.FormFile("resume")
	switch {
	case err == nil:
		defer file.Close()
		url, err := h.uploads.SaveResume(file, header)
		if err != nil {
			writeError(w, err)
			return
		}
		in.ResumeURL = url
	case errors.Is(err, http.ErrMissingFile):
		// Applying without a resume is allowed
	default:
		writeError(w, apperror.ValidationFailed("resume", "could not read resume upload"))
		return
	}

	app, err := h.apps.Apply(r.Context(), jobID, claims.UserID(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, app)
}

// HandleListMine returns the caller's own applications with job
// summaries.
//
// HTTP: GET /api/applications/my-applications
// Auth: any authenticated user
func (h *ApplicationHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	apps, err := h.apps.ListByApplicant(r.Context(), claims.UserID())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

// HandleListForJob returns every application for one of the employer's
// jobs.
//
// HTTP: GET /api/applications/job/{jobId}
// Auth: employer (and owner of the job)
func (h *ApplicationHandler) HandleListForJob(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	apps, err := h.apps.ListByJob(r.Context(), chi.URLParam(r, "jobId"), claims.UserID())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

type updateStatusRequest struct {
	Status model.ApplicationStatus `json:"status"`
}

// HandleUpdateStatus moves an application through the review pipeline.
//
// HTTP: PUT /api/applications/{id}/status
// Auth: employer (and owner of the parent job)
func (h *ApplicationHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	app, err := h.apps.UpdateStatus(r.Context(), chi.URLParam(r, "id"), claims.UserID(), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, app)
}

// formSkills reads skills submitted either as repeated "skills" fields or
// as one comma-separated value.
func formSkills(r *http.Request) []string {
	values := r.Form["skills"]
	if len(values) == 1 && strings.Contains(values[0], ",") {
		return service.ParseSkills(values[0])
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
