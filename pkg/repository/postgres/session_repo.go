package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohadmohamed/depi-interview/pkg/interview"
)

// SessionRepository stores generated quizzes and their scores.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) (*SessionRepository, error) {
	r := &SessionRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SessionRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS interview_sessions (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	resume_id BIGINT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
	target_job TEXT NOT NULL,
	questions TEXT NOT NULL,
	score DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS uq_sessions_user_resume_target_job
	ON interview_sessions(user_id, resume_id, lower(target_job));
CREATE TABLE IF NOT EXISTS interview_answers (
	id BIGSERIAL PRIMARY KEY,
	session_id BIGINT NOT NULL REFERENCES interview_sessions(id) ON DELETE CASCADE,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	correct BOOLEAN NOT NULL
);
`)
	return err
}

func (r *SessionRepository) Create(ctx context.Context, s interview.Session) (interview.Session, error) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO interview_sessions (user_id, resume_id, target_job, questions, score, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`, s.UserID, s.ResumeID, s.TargetJob, s.QuestionsJSON, s.Score, s.CreatedAt)
	if err := row.Scan(&s.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return interview.Session{}, interview.ErrConflict
		}
		return interview.Session{}, err
	}
	return s, nil
}

func (r *SessionRepository) Get(ctx context.Context, userID, resumeID, sessionID int64) (interview.Session, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, user_id, resume_id, target_job, questions, score, created_at
FROM interview_sessions WHERE id = $1 AND user_id = $2 AND resume_id = $3
`, sessionID, userID, resumeID)
	return scanSession(row)
}

func (r *SessionRepository) ExistsForTargetJob(ctx context.Context, userID, resumeID int64, targetJob string) (bool, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
SELECT id FROM interview_sessions
WHERE user_id = $1 AND resume_id = $2 AND lower(target_job) = $3
LIMIT 1
`, userID, resumeID, strings.ToLower(targetJob)).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *SessionRepository) UpdateScore(ctx context.Context, sessionID int64, score float64) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE interview_sessions SET score = $2 WHERE id = $1
`, sessionID, score)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return interview.ErrNotFound
	}
	return nil
}

// SaveAnswers replaces the answer history for the session, so re-evaluation
// keeps one row per question.
func (r *SessionRepository) SaveAnswers(ctx context.Context, sessionID int64, answers []interview.Answer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM interview_answers WHERE session_id = $1`, sessionID); err != nil {
		return err
	}
	for _, a := range answers {
		if _, err := tx.Exec(ctx, `
INSERT INTO interview_answers (session_id, question, answer, correct)
VALUES ($1, $2, $3, $4)
`, sessionID, a.Question, a.Answer, a.Correct); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *SessionRepository) Latest(ctx context.Context, userID int64) (interview.Session, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, user_id, resume_id, target_job, questions, score, created_at
FROM interview_sessions WHERE user_id = $1
ORDER BY created_at DESC LIMIT 1
`, userID)
	return scanSession(row)
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]interview.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, resume_id, target_job, questions, score, created_at
FROM interview_sessions WHERE user_id = $3
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, limit, offset, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []interview.Session
	for rows.Next() {
		s, err := scanSessionRows(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func scanSession(row pgx.Row) (interview.Session, error) {
	var s interview.Session
	var created time.Time
	if err := row.Scan(&s.ID, &s.UserID, &s.ResumeID, &s.TargetJob, &s.QuestionsJSON, &s.Score, &created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return interview.Session{}, interview.ErrNotFound
		}
		return interview.Session{}, err
	}
	s.CreatedAt = created.UTC()
	return s, nil
}

func scanSessionRows(rows pgx.Rows) (interview.Session, error) {
	var s interview.Session
	var created time.Time
	if err := rows.Scan(&s.ID, &s.UserID, &s.ResumeID, &s.TargetJob, &s.QuestionsJSON, &s.Score, &created); err != nil {
		return interview.Session{}, err
	}
	s.CreatedAt = created.UTC()
	return s, nil
}
