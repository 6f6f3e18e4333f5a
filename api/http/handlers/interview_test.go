package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/mohadmohamed/depi-interview/pkg/interview"
)

type stubInterviewUseCase struct {
	questions string
}

func (s stubInterviewUseCase) GenerateQuiz(_ context.Context, _, _ int64, _ string) (int64, error) {
	return 1, nil
}

func (s stubInterviewUseCase) EvaluateAnswers(_ context.Context, _, _, _ int64, _ []string) (float64, error) {
	return 0, nil
}

func (s stubInterviewUseCase) GetQuestions(_ context.Context, userID, resumeID, sessionID int64) (string, error) {
	if userID != 1 || resumeID != 2 || sessionID != 3 {
		return "", interview.ErrNotFound
	}
	return s.questions, nil
}

func (s stubInterviewUseCase) LatestSession(_ context.Context, _ int64) (interview.Session, error) {
	return interview.Session{}, interview.ErrNotFound
}

func (s stubInterviewUseCase) AllSessions(_ context.Context, _ int64, _, _ int) ([]interview.Session, error) {
	return nil, nil
}

func newQuestionsApp(quiz string) *fiber.App {
	app := fiber.New()
	h := NewInterviewHandler(stubInterviewUseCase{questions: quiz})
	app.Get("/api/interview/questions", h.Questions)
	return app
}

func TestQuestions_AcceptsBothParamCasings(t *testing.T) {
	quiz := `{"quiz": [{"question": "Q1?", "correctAnswer": "A"}]}`
	app := newQuestionsApp(quiz)

	for _, target := range []string{
		"/api/interview/questions?userid=1&resumeid=2&sessionid=3",
		"/api/interview/questions?userId=1&resumeId=2&sessionId=3",
	} {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode, target)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.JSONEq(t, quiz, string(body))
	}
}

func TestQuestions_MissingParams(t *testing.T) {
	app := newQuestionsApp("{}")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/interview/questions?userId=1&resumeId=2", nil))
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/interview/questions?userId=0&resumeId=2&sessionId=3", nil))
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)
}
