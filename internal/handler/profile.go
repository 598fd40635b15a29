package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/auth"
	"github.com/sakif/jobboard/internal/service"
	"github.com/sakif/jobboard/internal/upload"
)

// ProfileHandler exposes the employer company page and the job-seeker
// resume card. Both PUT endpoints accept multipart forms so a file (logo or
// resume) can ride along with the text fields.
type ProfileHandler struct {
	profiles *service.ProfileService
	uploads  *upload.Store
	logger   *slog.Logger
}

func NewProfileHandler(profiles *service.ProfileService, uploads *upload.Store, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, uploads: uploads, logger: logger}
}

// HandleGetEmployer returns the employer's own profile.
//
// HTTP: GET /api/profile/employer
// Auth: any authenticated user
func (h *ProfileHandler) HandleGetEmployer(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	profile, err := h.profiles.GetEmployer(r.Context(), claims.UserID())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleUpsertEmployer creates or replaces the employer's profile, with an
// optional "logo" file field.
//
// HTTP: POST /api/profile/employer (multipart/form-data)
// Auth: any authenticated user
func (h *ProfileHandler) HandleUpsertEmployer(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid multipart form"))
		return
	}

	in := service.EmployerProfileInput{
		CompanyName:  r.FormValue("companyName"),
		CompanyEmail: r.FormValue("companyEmail"),
		Phone:        r.FormValue("phone"),
		Website:      r.FormValue("website"),
		Description:  r.FormValue("description"),
		Location:     r.FormValue("location"),
	}

	logo, err := h.saveOptionalFile(r, "logo", h.uploads.SaveLogo)
	if err != nil {
		writeError(w, err)
		return
	}
	in.Logo = logo

	profile, err := h.profiles.UpsertEmployer(r.Context(), claims.UserID(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleGetJobSeeker returns the seeker's own profile.
//
// HTTP: GET /api/profile/jobseeker
// Auth: any authenticated user
func (h *ProfileHandler) HandleGetJobSeeker(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	profile, err := h.profiles.GetJobSeeker(r.Context(), claims.UserID())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleUpsertJobSeeker creates or replaces the seeker's profile, with an
// optional "resume" file field. Omitting the file keeps the stored resume.
//
// HTTP: POST /api/profile/jobseeker (multipart/form-data)
// Auth: any authenticated user
func (h *ProfileHandler) HandleUpsertJobSeeker(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid multipart form"))
		return
	}

	in := service.JobSeekerProfileInput{
		FullName:   r.FormValue("fullName"),
		Phone:      r.FormValue("phone"),
		Skills:     formSkills(r),
		Experience: r.FormValue("experience"),
		Location:   r.FormValue("location"),
	}

	resume, err := h.saveOptionalFile(r, "resume", h.uploads.SaveResume)
	if err != nil {
		writeError(w, err)
		return
	}
	in.ResumeURL = resume

	profile, err := h.profiles.UpsertJobSeeker(r.Context(), claims.UserID(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// saveOptionalFile stores the named multipart file if the client sent one.
// A missing file is not an error and returns an empty path.
func (h *ProfileHandler) saveOptionalFile(
	r *http.Request,
	field string,
	save func(multipart.File, *multipart.FileHeader) (string, error),
) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", apperror.ValidationFailed(field, "could not read "+field+" upload")
	}
	defer file.Close()
	return save(file, header)
}
