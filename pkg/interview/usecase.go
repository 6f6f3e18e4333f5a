package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/mohadmohamed/depi-interview/pkg/auth"
	"github.com/mohadmohamed/depi-interview/pkg/cache"
	"github.com/mohadmohamed/depi-interview/pkg/llm"
	"github.com/mohadmohamed/depi-interview/pkg/llm/jsonrepair"
	"github.com/mohadmohamed/depi-interview/pkg/resume"
)

// UseCase covers the quiz lifecycle: generate from a resume, retrieve
// questions, evaluate submitted answers, list past sessions.
type UseCase interface {
	GenerateQuiz(ctx context.Context, userID, resumeID int64, targetJob string) (int64, error)
	EvaluateAnswers(ctx context.Context, userID, resumeID, sessionID int64, answers []string) (float64, error)
	GetQuestions(ctx context.Context, userID, resumeID, sessionID int64) (string, error)
	LatestSession(ctx context.Context, userID int64) (Session, error)
	AllSessions(ctx context.Context, userID int64, limit, offset int) ([]Session, error)
}

type service struct {
	repo    Repository
	users   auth.UserRepository
	resumes resume.Repository
	gen     llm.TextGenerator
	cache   *cache.Redis
}

func NewService(repo Repository, users auth.UserRepository, resumes resume.Repository, gen llm.TextGenerator, c *cache.Redis) UseCase {
	return &service{
		repo:    repo,
		users:   users,
		resumes: resumes,
		gen:     gen,
		cache:   c,
	}
}

// quizEnvelope mirrors the persisted quiz JSON shape consumed by the client.
type quizEnvelope struct {
	TargetJob string         `json:"targetJob"`
	UserID    int64          `json:"userId"`
	ResumeID  int64          `json:"resumeId"`
	Quiz      []quizQuestion `json:"quiz"`
}

type quizQuestion struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correctAnswer"`
}

func (s *service) GenerateQuiz(ctx context.Context, userID, resumeID int64, targetJob string) (int64, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("%w: user id must be greater than zero", ErrInvalidArgument)
	}
	if resumeID <= 0 {
		return 0, fmt.Errorf("%w: resume id must be greater than zero", ErrInvalidArgument)
	}
	targetJob = strings.TrimSpace(targetJob)
	if targetJob == "" {
		return 0, fmt.Errorf("%w: target job cannot be empty", ErrInvalidArgument)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return 0, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	r, err := s.resumes.GetByID(ctx, resumeID)
	if err != nil {
		return 0, fmt.Errorf("%w: resume %d", ErrNotFound, resumeID)
	}
	if r.UserID != userID {
		return 0, fmt.Errorf("%w: resume %d does not belong to user %d", ErrForbidden, resumeID, userID)
	}
	if strings.TrimSpace(r.Text) == "" {
		return 0, fmt.Errorf("%w: resume %d has no content to generate a quiz from", ErrBadData, resumeID)
	}

	exists, err := s.repo.ExistsForTargetJob(ctx, userID, resumeID, targetJob)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("%w: a quiz for target job %q already exists for this resume", ErrConflict, targetJob)
	}

	reply, err := s.gen.GenerateText(ctx, quizPrompt(r.Text, targetJob, userID, resumeID))
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(reply) == "" {
		return 0, fmt.Errorf("%w: model returned an empty response for quiz generation", ErrBadData)
	}

	cleaned := jsonrepair.Clean(reply)
	if _, err := parseQuiz(cleaned); err != nil {
		// Fallback: the reply may wrap the object in prose; extract the
		// outermost {...} span and try once more.
		extracted, ok := jsonrepair.ExtractObject(reply)
		if !ok {
			return 0, fmt.Errorf("%w: model returned invalid quiz JSON that could not be repaired; raw response: %s", ErrBadData, reply)
		}
		if _, err := parseQuiz(extracted); err != nil {
			return 0, fmt.Errorf("%w: model returned invalid quiz JSON that could not be repaired; raw response: %s", ErrBadData, reply)
		}
		cleaned = extracted
	}

	sess, err := s.repo.Create(ctx, Session{
		UserID:        userID,
		ResumeID:      resumeID,
		TargetJob:     targetJob,
		QuestionsJSON: cleaned,
		Score:         0,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return 0, err
	}
	s.cache.Delete(ctx, latestSessionKey(userID))
	log.Printf("quiz generated for user %d resume %d target job %q (session %d)", userID, resumeID, targetJob, sess.ID)
	return sess.ID, nil
}

func (s *service) EvaluateAnswers(ctx context.Context, userID, resumeID, sessionID int64, answers []string) (float64, error) {
	if answers == nil {
		return 0, fmt.Errorf("%w: answers list cannot be null", ErrInvalidArgument)
	}
	sess, err := s.repo.Get(ctx, userID, resumeID, sessionID)
	if err != nil {
		return 0, fmt.Errorf("%w: interview session %d", ErrNotFound, sessionID)
	}
	if strings.TrimSpace(sess.QuestionsJSON) == "" {
		return 0, fmt.Errorf("%w: session %d has no questions to evaluate against", ErrBadData, sessionID)
	}

	env, err := parseQuiz(jsonrepair.Clean(sess.QuestionsJSON))
	if err != nil {
		return 0, fmt.Errorf("%w: session %d contains malformed questions JSON, please regenerate the quiz", ErrBadData, sessionID)
	}
	if len(answers) != len(env.Quiz) {
		return 0, fmt.Errorf("%w: number of answers (%d) does not match number of questions (%d)", ErrInvalidArgument, len(answers), len(env.Quiz))
	}

	correct := 0
	records := make([]Answer, 0, len(answers))
	for i, q := range env.Quiz {
		given := strings.TrimSpace(answers[i])
		// Questions without a declared correct answer cannot be matched; the
		// denominator stays fixed at len(answers).
		match := q.CorrectAnswer != "" && strings.EqualFold(strings.TrimSpace(q.CorrectAnswer), given)
		if match {
			correct++
		}
		records = append(records, Answer{
			SessionID: sess.ID,
			Question:  q.Question,
			Answer:    given,
			Correct:   match,
		})
	}

	score := math.Round(float64(correct)/float64(len(answers))*100*100) / 100
	if err := s.repo.UpdateScore(ctx, sess.ID, score); err != nil {
		return 0, err
	}
	// Answer history is best-effort; scoring already succeeded.
	if err := s.repo.SaveAnswers(ctx, sess.ID, records); err != nil {
		log.Printf("save answers for session %d: %v", sess.ID, err)
	}
	s.cache.Delete(ctx, latestSessionKey(userID))
	log.Printf("session %d evaluated: %.2f%% (%d/%d)", sess.ID, score, correct, len(answers))
	return score, nil
}

func (s *service) GetQuestions(ctx context.Context, userID, resumeID, sessionID int64) (string, error) {
	if userID <= 0 || resumeID <= 0 || sessionID <= 0 {
		return "", fmt.Errorf("%w: ids must be greater than zero", ErrInvalidArgument)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return "", fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	r, err := s.resumes.GetByID(ctx, resumeID)
	if err != nil {
		return "", fmt.Errorf("%w: resume %d", ErrNotFound, resumeID)
	}
	if r.UserID != userID {
		return "", fmt.Errorf("%w: resume %d does not belong to user %d", ErrForbidden, resumeID, userID)
	}

	// Questions are immutable once generated, so a cache hit is always valid.
	if cached, ok := s.cache.GetString(ctx, questionsKey(sessionID)); ok {
		return cached, nil
	}

	sess, err := s.repo.Get(ctx, userID, resumeID, sessionID)
	if err != nil {
		return "", fmt.Errorf("%w: interview session %d", ErrNotFound, sessionID)
	}
	if strings.TrimSpace(sess.QuestionsJSON) == "" {
		return "", fmt.Errorf("%w: session %d has no stored questions", ErrBadData, sessionID)
	}
	cleaned := jsonrepair.Clean(sess.QuestionsJSON)
	if _, err := parseQuiz(cleaned); err != nil {
		return "", fmt.Errorf("%w: session %d contains malformed questions JSON", ErrBadData, sessionID)
	}
	s.cache.SetString(ctx, questionsKey(sessionID), cleaned)
	return cleaned, nil
}

func (s *service) LatestSession(ctx context.Context, userID int64) (Session, error) {
	if userID <= 0 {
		return Session{}, fmt.Errorf("%w: user id must be greater than zero", ErrInvalidArgument)
	}
	if cached, ok := s.cache.GetString(ctx, latestSessionKey(userID)); ok {
		var sess Session
		if err := json.Unmarshal([]byte(cached), &sess); err == nil {
			return sess, nil
		}
	}
	sess, err := s.repo.Latest(ctx, userID)
	if err != nil {
		return Session{}, fmt.Errorf("%w: no sessions for user %d", ErrNotFound, userID)
	}
	if b, err := json.Marshal(sess); err == nil {
		s.cache.SetString(ctx, latestSessionKey(userID), string(b))
	}
	return sess, nil
}

func (s *service) AllSessions(ctx context.Context, userID int64, limit, offset int) ([]Session, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be greater than zero", ErrInvalidArgument)
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// parseQuiz parses cleaned JSON and requires a non-empty quiz array.
func parseQuiz(cleaned string) (quizEnvelope, error) {
	var env quizEnvelope
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		return quizEnvelope{}, err
	}
	if len(env.Quiz) == 0 {
		return quizEnvelope{}, fmt.Errorf("quiz array is missing or empty")
	}
	return env, nil
}

func questionsKey(sessionID int64) string {
	return fmt.Sprintf("interview:questions:%d", sessionID)
}

func latestSessionKey(userID int64) string {
	return fmt.Sprintf("interview:latest:%d", userID)
}

func quizPrompt(resumeText, targetJob string, userID, resumeID int64) string {
	return fmt.Sprintf(`You are an AI interview assistant. Generate ONLY valid JSON without any explanations, markdown, or extra text.

Based on this information:
- Candidate Resume: %s
- Target Job: %s

Generate exactly 10 multiple-choice questions for interview assessment.

Return ONLY this JSON format (no markdown, no explanations):
{
  "targetJob": "%s",
  "userId": %d,
  "resumeId": %d,
  "quiz": [
    {
      "question": "What is your experience with programming languages?",
      "options": {
        "A": "No experience",
        "B": "Basic knowledge",
        "C": "Intermediate level",
        "D": "Expert level"
      },
      "correctAnswer": "C"
    }
  ]
}
`, resumeText, targetJob, targetJob, userID, resumeID)
}
