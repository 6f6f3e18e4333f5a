package interview

import (
	"context"
	"errors"
	"time"
)

// Session is one generated quiz attempt tied to a user, resume and target
// job. QuestionsJSON, once set, is the immutable ground truth for scoring.
type Session struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	ResumeID      int64     `json:"resumeId"`
	TargetJob     string    `json:"targetJob"`
	QuestionsJSON string    `json:"questionsJson"`
	Score         float64   `json:"score"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Answer is a per-question answer record kept for history. Scoring never
// reads these back; it works from the submitted list.
type Answer struct {
	ID        int64  `json:"id"`
	SessionID int64  `json:"sessionId"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Correct   bool   `json:"correct"`
}

// Errors mapped to HTTP statuses by the handlers.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrForbidden       = errors.New("access denied")
	ErrBadData         = errors.New("bad data")
)

// Repository is the persistence port for interview sessions.
type Repository interface {
	Create(ctx context.Context, s Session) (Session, error)
	Get(ctx context.Context, userID, resumeID, sessionID int64) (Session, error)
	ExistsForTargetJob(ctx context.Context, userID, resumeID int64, targetJob string) (bool, error)
	UpdateScore(ctx context.Context, sessionID int64, score float64) error
	SaveAnswers(ctx context.Context, sessionID int64, answers []Answer) error
	Latest(ctx context.Context, userID int64) (Session, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Session, error)
}
