package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mohadmohamed/depi-interview/api/http/presenter"
	"github.com/mohadmohamed/depi-interview/pkg/interview"
)

type InterviewHandler struct {
	svc interview.UseCase
}

func NewInterviewHandler(svc interview.UseCase) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

// Generate builds a multiple-choice quiz from a stored resume.
// @Summary Generate interview quiz
// @Tags    interview
// @Accept  multipart/form-data
// @Produce json
// @Param   userid formData int true "user id"
// @Param   resmueid formData int true "resume id"
// @Param   targetJob formData string true "target job title"
// @Security BearerAuth
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 403 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ErrorResponse
// @Router  /interview/generate [post]
func (h *InterviewHandler) Generate(c *fiber.Ctx) error {
	userID, ok := parsePositiveInt(c.FormValue("userid"))
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "userid must be a positive integer")
	}
	// Clients historically send the misspelled field name, accept both.
	raw := c.FormValue("resmueid")
	if raw == "" {
		raw = c.FormValue("resumeid")
	}
	resumeID, ok := parsePositiveInt(raw)
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "resume id must be a positive integer")
	}
	targetJob := c.FormValue("targetJob")
	if targetJob == "" {
		targetJob = c.Query("targetJob")
	}

	sessionID, err := h.svc.GenerateQuiz(c.Context(), userID, resumeID, targetJob)
	if err != nil {
		return presenter.Error(c, interviewErrorStatus(err), err.Error())
	}
	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"Message":   "Interview questions generated successfully",
		"SessionId": sessionID,
		"UserId":    userID,
		"ResumeId":  resumeID,
		"TargetJob": targetJob,
	})
}

type evaluateRequest struct {
	UserID    int64    `json:"userId"`
	ResumeID  int64    `json:"resumeId"`
	SessionID int64    `json:"sessionId"`
	Answers   []string `json:"Answers"`
}

// Evaluate scores submitted answers against a session's quiz.
// @Summary Evaluate interview answers
// @Tags    interview
// @Accept  json
// @Produce json
// @Param   input body evaluateRequest true "session reference and answers"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ErrorResponse
// @Router  /interview/evaluate [patch]
func (h *InterviewHandler) Evaluate(c *fiber.Ctx) error {
	var req evaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	score, err := h.svc.EvaluateAnswers(c.Context(), req.UserID, req.ResumeID, req.SessionID, req.Answers)
	if err != nil {
		return presenter.Error(c, interviewErrorStatus(err), err.Error())
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"Message": "Interview evaluated successfully",
		"Score":   score,
	})
}

// Questions returns the stored quiz JSON for a session.
// @Summary Get session questions
// @Tags    interview
// @Produce json
// @Param   userId query int true "user id"
// @Param   resumeId query int true "resume id"
// @Param   sessionId query int true "session id"
// @Security BearerAuth
// @Success 200 {string} string "quiz JSON"
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 422 {object} presenter.ErrorResponse
// @Router  /interview/questions [get]
func (h *InterviewHandler) Questions(c *fiber.Ctx) error {
	userID, ok := queryPositiveInt(c, "userId", "userid")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "userId must be a positive integer")
	}
	resumeID, ok := queryPositiveInt(c, "resumeId", "resumeid")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "resumeId must be a positive integer")
	}
	sessionID, ok := queryPositiveInt(c, "sessionId", "sessionid")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "sessionId must be a positive integer")
	}
	questions, err := h.svc.GetQuestions(c.Context(), userID, resumeID, sessionID)
	if err != nil {
		return presenter.Error(c, interviewErrorStatus(err), err.Error())
	}
	c.Type("json")
	return c.Status(http.StatusOK).SendString(questions)
}

// Latest returns the most recent interview session for a user.
// @Summary Latest session
// @Tags    interview
// @Produce json
// @Param   userid query int true "user id"
// @Security BearerAuth
// @Success 200 {object} interview.Session
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /interview/id [get]
func (h *InterviewHandler) Latest(c *fiber.Ctx) error {
	userID, ok := queryPositiveInt(c, "userid", "userId")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "userid must be a positive integer")
	}
	s, err := h.svc.LatestSession(c.Context(), userID)
	if err != nil {
		return presenter.Error(c, interviewErrorStatus(err), err.Error())
	}
	return presenter.JSON(c, http.StatusOK, s)
}

// All lists a user's interview sessions, newest first.
// @Summary List sessions
// @Tags    interview
// @Produce json
// @Param   userid query int true "user id"
// @Param   limit query int false "page size"
// @Param   offset query int false "page offset"
// @Security BearerAuth
// @Success 200 {array} interview.Session
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /interview/all [get]
func (h *InterviewHandler) All(c *fiber.Ctx) error {
	userID, ok := queryPositiveInt(c, "userid", "userId")
	if !ok {
		return presenter.Error(c, http.StatusBadRequest, "userid must be a positive integer")
	}
	limit, offset := parseLimitOffset(c, 50)
	items, err := h.svc.AllSessions(c.Context(), userID, limit, offset)
	if err != nil {
		return presenter.Error(c, interviewErrorStatus(err), err.Error())
	}
	if items == nil {
		items = []interview.Session{}
	}
	return presenter.JSON(c, http.StatusOK, items)
}

func interviewErrorStatus(err error) int {
	switch {
	case errors.Is(err, interview.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, interview.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, interview.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, interview.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, interview.ErrBadData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
