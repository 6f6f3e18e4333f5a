package resume

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mohadmohamed/depi-interview/pkg/auth"
	"github.com/mohadmohamed/depi-interview/pkg/llm"
)

// UseCase describes the resume scenarios: upload with text extraction,
// AI analysis against a target job, and retrieval.
type UseCase interface {
	Upload(ctx context.Context, userID int64, fileName string, data []byte) (int64, error)
	Analyze(ctx context.Context, resumeID int64, targetJob string) (Analysis, error)
	Remove(ctx context.Context, resumeID int64) error
	ListByUser(ctx context.Context, userID int64) ([]Resume, error)
	GetAnalysis(ctx context.Context, userID, resumeID int64) (Analysis, error)
	LatestAnalysis(ctx context.Context, userID int64) (Analysis, error)
}

type service struct {
	repo     Repository
	analyses AnalysisRepository
	users    auth.UserRepository
	gen      llm.TextGenerator

	maxUploadBytes int64
	baseDir        string
}

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

func NewService(repo Repository, analyses AnalysisRepository, users auth.UserRepository, gen llm.TextGenerator, maxUploadMB int) UseCase {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &service{
		repo:           repo,
		analyses:       analyses,
		users:          users,
		gen:            gen,
		maxUploadBytes: int64(maxUploadMB) << 20,
		baseDir:        "uploads",
	}
}

func (s *service) Upload(ctx context.Context, userID int64, fileName string, data []byte) (int64, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("%w: user id must be greater than zero", ErrInvalidArgument)
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty file", ErrInvalidArgument)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return 0, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return 0, fmt.Errorf("%w: file size %d exceeds the limit of %d bytes", ErrInvalidArgument, len(data), s.maxUploadBytes)
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedExtensions[ext] {
		return 0, fmt.Errorf("%w: file type %q is not supported (allowed: pdf, docx, txt)", ErrInvalidArgument, ext)
	}

	text, err := ExtractText(fileName, data)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("%w: no readable text found in the uploaded file", ErrNoContent)
	}

	dup, err := s.repo.ExistsByUserAndText(ctx, userID, text)
	if err != nil {
		return 0, err
	}
	if dup {
		return 0, fmt.Errorf("%w: this resume was already uploaded for user %d", ErrDuplicate, userID)
	}

	storagePath := s.storeFile(ext, data)

	r, err := s.repo.Create(ctx, Resume{
		UserID:      userID,
		FileName:    fileName,
		StoragePath: storagePath,
		Text:        text,
		UploadedAt:  time.Now().UTC(),
	})
	if err != nil {
		return 0, err
	}
	log.Printf("resume %d uploaded for user %d (%s, %d chars)", r.ID, userID, fileName, len(text))
	return r.ID, nil
}

// storeFile keeps the original bytes on disk. A failure here is logged but
// does not fail the upload: the extracted text is the source of truth.
func (s *service) storeFile(ext string, data []byte) string {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		log.Printf("prepare upload storage: %v", err)
		return ""
	}
	dst := filepath.Join(s.baseDir, uuid.New().String()+ext)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		log.Printf("store uploaded file: %v", err)
		return ""
	}
	return dst
}

func (s *service) Analyze(ctx context.Context, resumeID int64, targetJob string) (Analysis, error) {
	if resumeID <= 0 {
		return Analysis{}, fmt.Errorf("%w: resume id must be greater than zero", ErrInvalidArgument)
	}
	targetJob = strings.TrimSpace(targetJob)
	if targetJob == "" {
		return Analysis{}, fmt.Errorf("%w: target job cannot be empty", ErrInvalidArgument)
	}
	r, err := s.repo.GetByID(ctx, resumeID)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: resume %d", ErrNotFound, resumeID)
	}
	if _, err := s.users.GetByID(ctx, r.UserID); err != nil {
		return Analysis{}, fmt.Errorf("%w: user associated with resume %d", ErrNotFound, resumeID)
	}
	if strings.TrimSpace(r.Text) == "" {
		return Analysis{}, fmt.Errorf("%w: resume %d has no content to analyze", ErrNoContent, resumeID)
	}

	exists, err := s.analyses.ExistsForTargetJob(ctx, r.UserID, targetJob)
	if err != nil {
		return Analysis{}, err
	}
	if exists {
		return Analysis{}, fmt.Errorf("%w: an analysis for target job %q already exists for user %d", ErrDuplicate, targetJob, r.UserID)
	}

	// Two-stage prompting: first a structural extraction of the resume, then
	// a scoring pass that embeds the extraction and the target job.
	extracted, err := s.gen.GenerateText(ctx, extractionPrompt(r.Text))
	if err != nil {
		return Analysis{}, err
	}
	if strings.TrimSpace(extracted) == "" {
		return Analysis{}, fmt.Errorf("model returned an empty response for resume analysis")
	}

	feedback, err := s.gen.GenerateText(ctx, scoringPrompt(targetJob, r.UserID, extracted))
	if err != nil {
		return Analysis{}, err
	}
	if strings.TrimSpace(feedback) == "" {
		return Analysis{}, fmt.Errorf("model returned an empty response for detailed analysis")
	}

	a, err := s.analyses.Create(ctx, Analysis{
		ResumeID:     r.ID,
		UserID:       r.UserID,
		TargetJob:    targetJob,
		FeedbackJSON: feedback,
		AnalyzedAt:   time.Now().UTC(),
	})
	if err != nil {
		return Analysis{}, err
	}
	log.Printf("resume %d analyzed for target job %q (analysis %d)", r.ID, targetJob, a.ID)
	return a, nil
}

func (s *service) Remove(ctx context.Context, resumeID int64) error {
	if resumeID <= 0 {
		return fmt.Errorf("%w: resume id must be greater than zero", ErrInvalidArgument)
	}
	r, err := s.repo.GetByID(ctx, resumeID)
	if err != nil {
		return fmt.Errorf("%w: resume %d", ErrNotFound, resumeID)
	}
	if err := s.repo.Delete(ctx, r.ID); err != nil {
		return err
	}
	if r.StoragePath != "" {
		if err := os.Remove(r.StoragePath); err != nil && !os.IsNotExist(err) {
			log.Printf("remove stored file %s: %v", r.StoragePath, err)
		}
	}
	return nil
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]Resume, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be greater than zero", ErrInvalidArgument)
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) GetAnalysis(ctx context.Context, userID, resumeID int64) (Analysis, error) {
	if userID <= 0 || resumeID <= 0 {
		return Analysis{}, fmt.Errorf("%w: ids must be greater than zero", ErrInvalidArgument)
	}
	a, err := s.analyses.GetByUserAndResume(ctx, userID, resumeID)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: analysis for resume %d", ErrNotFound, resumeID)
	}
	return a, nil
}

func (s *service) LatestAnalysis(ctx context.Context, userID int64) (Analysis, error) {
	if userID <= 0 {
		return Analysis{}, fmt.Errorf("%w: user id must be greater than zero", ErrInvalidArgument)
	}
	a, err := s.analyses.GetLatestByUser(ctx, userID)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: no analyses for user %d", ErrNotFound, userID)
	}
	return a, nil
}

func extractionPrompt(resumeText string) string {
	return fmt.Sprintf(`Analyze this resume and return JSON with the following fields:
- summary
- keySkills
- education
- experience

Resume content:
%s`, resumeText)
}

func scoringPrompt(targetJob string, userID int64, extracted string) string {
	return fmt.Sprintf(`You are a CV analysis service. Your task is to analyze the following CV data for the target job title: **%s**.

CV DATA:
%s

REQUIRED RESPONSE:
You MUST respond with **only** a single, valid JSON object. Do not add any text, notes, or markdown before or after the JSON block.

The JSON object MUST follow this exact schema and include the target job for future reference:
{
  "targetJob": "%s",
  "analyzedForUser": %d,
  "overallScore": {
    "score": <number_out_of_100>,
    "summary": "<2-3 sentence summary explaining the score>"
  },
  "keyStrengths": [
    "<Strength 1: string>",
    "<Strength 2: string>"
  ],
  "criticalGaps": [
    "<Gap 1: string>",
    "<Gap 2: string>"
  ],
  "recommendations": {
    "summary": "<Actionable advice for the 'summary' section>",
    "skills": "<Actionable advice for the 'skills' section>",
    "experience": "<Actionable advice for the 'experience' section>"
  },
  "finalVerdict": {
    "hireDecision": "<Interview / No Interview>",
    "reasoning": "<Brief justification for the decision>"
  }
}
`, targetJob, extracted, targetJob, userID)
}
