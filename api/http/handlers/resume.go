package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mohadmohamed/depi-interview/api/http/presenter"
	"github.com/mohadmohamed/depi-interview/pkg/resume"
)

type ResumeHandler struct {
	svc resume.UseCase
	// Limit uploaded file size read into memory (bytes)
	maxBytes int64
}

func NewResumeHandler(svc resume.UseCase, maxUploadMB int) *ResumeHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &ResumeHandler{svc: svc, maxBytes: int64(maxUploadMB) << 20}
}

// Upload stores a resume file, extracts its text and returns the new id.
// @Summary Upload resume
// @Tags    resume
// @Accept  multipart/form-data
// @Produce json
// @Param   userid formData int true "owner user id"
// @Param   file formData file true "resume file (pdf, docx or txt)"
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ErrorResponse
// @Router  /resume/upload [post]
func (h *ResumeHandler) Upload(c *fiber.Ctx) error {
	userID, ok := parsePositiveInt(c.FormValue("userid"))
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "userid must be a positive integer")
	}
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "file is required (pdf, docx or txt)")
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()
	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	id, err := h.svc.Upload(c.Context(), userID, fh.Filename, data)
	if err != nil {
		return presenter.Error(c, resumeErrorStatus(err), err.Error())
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"Message":  "Resume uploaded successfully",
		"ResumeId": id,
		"UserId":   userID,
	})
}

type analyzeRequest struct {
	ResumeID  int64  `json:"resumeId"`
	TargetJob string `json:"targetJob"`
}

// Analyze produces AI feedback for a resume against a target job.
// @Summary Analyze resume
// @Tags    resume
// @Accept  json
// @Produce json
// @Param   input body analyzeRequest true "resume id and target job"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ErrorResponse
// @Router  /resume/analyze [post]
func (h *ResumeHandler) Analyze(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	a, err := h.svc.Analyze(c.Context(), req.ResumeID, req.TargetJob)
	if err != nil {
		return presenter.Error(c, resumeErrorStatus(err), err.Error())
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"Message":    "Resume analyzed successfully",
		"AnalysisId": a.ID,
		"ResumeId":   a.ResumeID,
		"TargetJob":  a.TargetJob,
	})
}

// Remove deletes a resume and its stored file.
// @Summary Remove resume
// @Tags    resume
// @Produce json
// @Param   resumeid query int true "resume id"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resume/remove [delete]
func (h *ResumeHandler) Remove(c *fiber.Ctx) error {
	resumeID, ok := queryPositiveInt(c, "resumeid", "resumeId")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "resumeid must be a positive integer")
	}
	if err := h.svc.Remove(c.Context(), resumeID); err != nil {
		return presenter.Error(c, resumeErrorStatus(err), err.Error())
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"Message": "Resume removed successfully"})
}

// List returns all resumes of a user.
// @Summary List resumes by user
// @Tags    resume
// @Produce json
// @Param   userid query int true "user id"
// @Security BearerAuth
// @Success 200 {array} resume.Resume
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /resume/id [get]
func (h *ResumeHandler) List(c *fiber.Ctx) error {
	userID, ok := queryPositiveInt(c, "userid", "userId")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "userid must be a positive integer")
	}
	items, err := h.svc.ListByUser(c.Context(), userID)
	if err != nil {
		return presenter.Error(c, resumeErrorStatus(err), err.Error())
	}
	if items == nil {
		items = []resume.Resume{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// GetAnalysis returns the analysis for a user's resume.
// @Summary Get analysis
// @Tags    resume
// @Produce json
// @Param   userid query int true "user id"
// @Param   resumeid query int true "resume id"
// @Security BearerAuth
// @Success 200 {object} resume.Analysis
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resume/analysis [get]
func (h *ResumeHandler) GetAnalysis(c *fiber.Ctx) error {
	userID, ok := queryPositiveInt(c, "userid", "userId")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "userid must be a positive integer")
	}
	resumeID, ok := queryPositiveInt(c, "resumeid", "resumeId")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "resumeid must be a positive integer")
	}
	a, err := h.svc.GetAnalysis(c.Context(), userID, resumeID)
	if err != nil {
		return presenter.Error(c, resumeErrorStatus(err), err.Error())
	}
	return presenter.JSON(c, http.StatusOK, a)
}

// LatestAnalysis returns the most recent analysis for a user.
// @Summary Latest analysis
// @Tags    resume
// @Produce json
// @Param   userid query int true "user id"
// @Security BearerAuth
// @Success 200 {object} resume.Analysis
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /resume/latestAnalysis [get]
func (h *ResumeHandler) LatestAnalysis(c *fiber.Ctx) error {
	userID, ok := queryPositiveInt(c, "userid", "userId")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "userid must be a positive integer")
	}
	a, err := h.svc.LatestAnalysis(c.Context(), userID)
	if err != nil {
		return presenter.Error(c, resumeErrorStatus(err), err.Error())
	}
	return presenter.JSON(c, http.StatusOK, a)
}

func resumeErrorStatus(err error) int {
	switch {
	case errors.Is(err, resume.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, resume.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, resume.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, resume.ErrNoContent):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func parsePositiveInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("file too large: limit is %d bytes", max)
	}
	return b, nil
}
