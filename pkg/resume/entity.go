package resume

import (
	"context"
	"errors"
	"time"
)

// Resume holds an uploaded document and the plain text extracted from it.
type Resume struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	FileName    string    `json:"fileName"`
	StoragePath string    `json:"-"`
	Text        string    `json:"-"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Analysis is AI-generated feedback for one resume, tagged with the target
// job it was produced for. The feedback blob is stored verbatim.
type Analysis struct {
	ID           int64     `json:"id"`
	ResumeID     int64     `json:"resumeId"`
	UserID       int64     `json:"userId"`
	TargetJob    string    `json:"targetJob"`
	FeedbackJSON string    `json:"feedback"`
	AnalyzedAt   time.Time `json:"analyzedAt"`
}

// Errors mapped to HTTP statuses by the handlers.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrNoContent       = errors.New("no readable content")
)

// Repository is the persistence port for resumes.
type Repository interface {
	Create(ctx context.Context, r Resume) (Resume, error)
	GetByID(ctx context.Context, id int64) (Resume, error)
	ListByUser(ctx context.Context, userID int64) ([]Resume, error)
	ExistsByUserAndText(ctx context.Context, userID int64, text string) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// AnalysisRepository is the persistence port for resume analyses.
type AnalysisRepository interface {
	Create(ctx context.Context, a Analysis) (Analysis, error)
	GetByUserAndResume(ctx context.Context, userID, resumeID int64) (Analysis, error)
	GetLatestByUser(ctx context.Context, userID int64) (Analysis, error)
	ExistsForTargetJob(ctx context.Context, userID int64, targetJob string) (bool, error)
}
