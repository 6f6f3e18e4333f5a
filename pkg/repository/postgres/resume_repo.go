package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohadmohamed/depi-interview/pkg/resume"
)

// ResumeRepository stores resumes together with their extracted text.
type ResumeRepository struct {
	pool *pgxpool.Pool
}

func NewResumeRepository(pool *pgxpool.Pool) (*ResumeRepository, error) {
	r := &ResumeRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ResumeRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS resumes (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	file_name TEXT NOT NULL,
	storage_path TEXT NOT NULL DEFAULT '',
	parsed_text TEXT NOT NULL,
	uploaded_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resumes_user ON resumes(user_id);
`)
	return err
}

func (r *ResumeRepository) Create(ctx context.Context, rs resume.Resume) (resume.Resume, error) {
	if rs.UploadedAt.IsZero() {
		rs.UploadedAt = time.Now().UTC()
	}
	row := r.pool.QueryRow(ctx, `
INSERT INTO resumes (user_id, file_name, storage_path, parsed_text, uploaded_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`, rs.UserID, rs.FileName, rs.StoragePath, rs.Text, rs.UploadedAt)
	if err := row.Scan(&rs.ID); err != nil {
		return resume.Resume{}, err
	}
	return rs, nil
}

func (r *ResumeRepository) GetByID(ctx context.Context, id int64) (resume.Resume, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, user_id, file_name, storage_path, parsed_text, uploaded_at
FROM resumes WHERE id = $1
`, id)
	var m resume.Resume
	var uploaded time.Time
	if err := row.Scan(&m.ID, &m.UserID, &m.FileName, &m.StoragePath, &m.Text, &uploaded); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.Resume{}, resume.ErrNotFound
		}
		return resume.Resume{}, err
	}
	m.UploadedAt = uploaded.UTC()
	return m, nil
}

func (r *ResumeRepository) ListByUser(ctx context.Context, userID int64) ([]resume.Resume, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, file_name, storage_path, parsed_text, uploaded_at
FROM resumes WHERE user_id = $1
ORDER BY uploaded_at DESC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []resume.Resume
	for rows.Next() {
		var m resume.Resume
		var uploaded time.Time
		if err := rows.Scan(&m.ID, &m.UserID, &m.FileName, &m.StoragePath, &m.Text, &uploaded); err != nil {
			return nil, err
		}
		m.UploadedAt = uploaded.UTC()
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *ResumeRepository) ExistsByUserAndText(ctx context.Context, userID int64, text string) (bool, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
SELECT id FROM resumes WHERE user_id = $1 AND parsed_text = $2 LIMIT 1
`, userID, text).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ResumeRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return resume.ErrNotFound
	}
	return nil
}
