package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohadmohamed/depi-interview/pkg/resume"
)

// AnalysisRepository stores AI feedback for resumes. The feedback column is
// TEXT, not JSONB: the model reply is stored verbatim and is not guaranteed
// to be well-formed JSON.
type AnalysisRepository struct {
	pool *pgxpool.Pool
}

func NewAnalysisRepository(pool *pgxpool.Pool) (*AnalysisRepository, error) {
	r := &AnalysisRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *AnalysisRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS resume_analyses (
	id BIGSERIAL PRIMARY KEY,
	resume_id BIGINT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	target_job TEXT NOT NULL,
	feedback TEXT NOT NULL,
	analyzed_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS uq_analyses_user_target_job
	ON resume_analyses(user_id, lower(target_job));
`)
	return err
}

func (r *AnalysisRepository) Create(ctx context.Context, a resume.Analysis) (resume.Analysis, error) {
	if a.AnalyzedAt.IsZero() {
		a.AnalyzedAt = time.Now().UTC()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO resume_analyses (resume_id, user_id, target_job, feedback, analyzed_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`, a.ResumeID, a.UserID, a.TargetJob, a.FeedbackJSON, a.AnalyzedAt)
	if err := row.Scan(&a.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return resume.Analysis{}, resume.ErrDuplicate
		}
		return resume.Analysis{}, err
	}
	return a, nil
}

func (r *AnalysisRepository) GetByUserAndResume(ctx context.Context, userID, resumeID int64) (resume.Analysis, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, resume_id, user_id, target_job, feedback, analyzed_at
FROM resume_analyses WHERE user_id = $1 AND resume_id = $2
ORDER BY analyzed_at DESC LIMIT 1
`, userID, resumeID)
	return scanAnalysis(row)
}

func (r *AnalysisRepository) GetLatestByUser(ctx context.Context, userID int64) (resume.Analysis, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, resume_id, user_id, target_job, feedback, analyzed_at
FROM resume_analyses WHERE user_id = $1
ORDER BY analyzed_at DESC LIMIT 1
`, userID)
	return scanAnalysis(row)
}

func (r *AnalysisRepository) ExistsForTargetJob(ctx context.Context, userID int64, targetJob string) (bool, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
SELECT id FROM resume_analyses WHERE user_id = $1 AND lower(target_job) = $2 LIMIT 1
`, userID, strings.ToLower(targetJob)).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanAnalysis(row pgx.Row) (resume.Analysis, error) {
	var a resume.Analysis
	var analyzed time.Time
	if err := row.Scan(&a.ID, &a.ResumeID, &a.UserID, &a.TargetJob, &a.FeedbackJSON, &analyzed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.Analysis{}, resume.ErrNotFound
		}
		return resume.Analysis{}, err
	}
	a.AnalyzedAt = analyzed.UTC()
	return a, nil
}
