package resume

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mohadmohamed/depi-interview/pkg/auth"
)

type fakeRepo struct {
	resumes map[int64]Resume
	nextID  int64
	texts   map[string]bool
	deleted []int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{resumes: map[int64]Resume{}, nextID: 1, texts: map[string]bool{}}
}

func (f *fakeRepo) Create(_ context.Context, r Resume) (Resume, error) {
	r.ID = f.nextID
	f.nextID++
	f.resumes[r.ID] = r
	f.texts[r.Text] = true
	return r, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (Resume, error) {
	r, ok := f.resumes[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return r, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID int64) ([]Resume, error) {
	var out []Resume
	for _, r := range f.resumes {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ExistsByUserAndText(_ context.Context, _ int64, text string) (bool, error) {
	return f.texts[text], nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.resumes[id]; !ok {
		return ErrNotFound
	}
	delete(f.resumes, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAnalysisRepo struct {
	analyses map[int64]Analysis
	nextID   int64
	byJob    map[string]bool
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{analyses: map[int64]Analysis{}, nextID: 1, byJob: map[string]bool{}}
}

func (f *fakeAnalysisRepo) Create(_ context.Context, a Analysis) (Analysis, error) {
	a.ID = f.nextID
	f.nextID++
	f.analyses[a.ID] = a
	f.byJob[strings.ToLower(a.TargetJob)] = true
	return a, nil
}

func (f *fakeAnalysisRepo) GetByUserAndResume(_ context.Context, userID, resumeID int64) (Analysis, error) {
	for _, a := range f.analyses {
		if a.UserID == userID && a.ResumeID == resumeID {
			return a, nil
		}
	}
	return Analysis{}, ErrNotFound
}

func (f *fakeAnalysisRepo) GetLatestByUser(_ context.Context, userID int64) (Analysis, error) {
	var best Analysis
	found := false
	for _, a := range f.analyses {
		if a.UserID == userID && (!found || a.ID > best.ID) {
			best = a
			found = true
		}
	}
	if !found {
		return Analysis{}, ErrNotFound
	}
	return best, nil
}

func (f *fakeAnalysisRepo) ExistsForTargetJob(_ context.Context, _ int64, targetJob string) (bool, error) {
	return f.byJob[strings.ToLower(targetJob)], nil
}

type fakeUsers struct{ ids map[int64]bool }

func (f fakeUsers) Create(_ context.Context, u auth.User) (auth.User, error) { return u, nil }
func (f fakeUsers) GetByEmail(_ context.Context, _ string) (auth.User, error) {
	return auth.User{}, auth.ErrNotFound
}
func (f fakeUsers) GetByID(_ context.Context, id int64) (auth.User, error) {
	if !f.ids[id] {
		return auth.User{}, auth.ErrNotFound
	}
	return auth.User{ID: id}, nil
}

type scriptedGenerator struct {
	replies []string
	calls   int
	prompts []string
}

func (g *scriptedGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	reply := ""
	if g.calls < len(g.replies) {
		reply = g.replies[g.calls]
	}
	g.calls++
	return reply, nil
}

func newResumeService(t *testing.T, repo Repository, analyses AnalysisRepository, gen *scriptedGenerator) UseCase {
	t.Helper()
	uc := NewService(repo, analyses, fakeUsers{ids: map[int64]bool{1: true}}, gen, 10)
	uc.(*service).baseDir = t.TempDir()
	return uc
}

func TestUpload_Success(t *testing.T) {
	repo := newFakeRepo()
	svc := newResumeService(t, repo, newFakeAnalysisRepo(), &scriptedGenerator{})

	id, err := svc.Upload(context.Background(), 1, "resume.txt", []byte("Go developer with 5 years of experience."))
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.Equal(t, "resume.txt", repo.resumes[id].FileName)
	require.Equal(t, "Go developer with 5 years of experience.", repo.resumes[id].Text)
}

func TestUpload_Validation(t *testing.T) {
	svc := newResumeService(t, newFakeRepo(), newFakeAnalysisRepo(), &scriptedGenerator{})
	ctx := context.Background()

	_, err := svc.Upload(ctx, 0, "resume.txt", []byte("x"))
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Upload(ctx, 1, "resume.txt", nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Upload(ctx, 99, "resume.txt", []byte("x"))
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Upload(ctx, 1, "resume.exe", []byte("x"))
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Upload(ctx, 1, "resume.txt", []byte("   \n\n  "))
	require.ErrorIs(t, err, ErrNoContent)
}

func TestUpload_DuplicateText(t *testing.T) {
	repo := newFakeRepo()
	svc := newResumeService(t, repo, newFakeAnalysisRepo(), &scriptedGenerator{})
	ctx := context.Background()

	_, err := svc.Upload(ctx, 1, "resume.txt", []byte("same content"))
	require.NoError(t, err)

	_, err = svc.Upload(ctx, 1, "copy.txt", []byte("same content"))
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestAnalyze_TwoStagePrompting(t *testing.T) {
	repo := newFakeRepo()
	repo.Create(context.Background(), Resume{UserID: 1, FileName: "r.txt", Text: "Go developer."})
	analyses := newFakeAnalysisRepo()
	gen := &scriptedGenerator{replies: []string{
		`{"summary": "Go developer", "keySkills": ["Go"]}`,
		`{"overallScore": {"score": 85}}`,
	}}
	svc := newResumeService(t, repo, analyses, gen)

	a, err := svc.Analyze(context.Background(), 1, "Backend Developer")
	require.NoError(t, err)
	require.Equal(t, `{"overallScore": {"score": 85}}`, a.FeedbackJSON)
	require.Equal(t, "Backend Developer", a.TargetJob)

	require.Equal(t, 2, gen.calls)
	require.Contains(t, gen.prompts[0], "Go developer.")
	require.Contains(t, gen.prompts[1], "Backend Developer")
	require.Contains(t, gen.prompts[1], `"keySkills": ["Go"]`)
}

func TestAnalyze_DuplicateTargetJob(t *testing.T) {
	repo := newFakeRepo()
	repo.Create(context.Background(), Resume{UserID: 1, FileName: "r.txt", Text: "Go developer."})
	analyses := newFakeAnalysisRepo()
	analyses.byJob["backend developer"] = true
	svc := newResumeService(t, repo, analyses, &scriptedGenerator{})

	_, err := svc.Analyze(context.Background(), 1, "Backend Developer")
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestAnalyze_UnknownResume(t *testing.T) {
	svc := newResumeService(t, newFakeRepo(), newFakeAnalysisRepo(), &scriptedGenerator{})
	_, err := svc.Analyze(context.Background(), 42, "Backend Developer")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	repo := newFakeRepo()
	repo.Create(context.Background(), Resume{UserID: 1, FileName: "r.txt", Text: "content"})
	svc := newResumeService(t, repo, newFakeAnalysisRepo(), &scriptedGenerator{})

	require.NoError(t, svc.Remove(context.Background(), 1))
	require.Equal(t, []int64{1}, repo.deleted)

	err := svc.Remove(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetAnalysis_And_Latest(t *testing.T) {
	analyses := newFakeAnalysisRepo()
	analyses.Create(context.Background(), Analysis{UserID: 1, ResumeID: 3, TargetJob: "Dev", FeedbackJSON: "{}"})
	svc := newResumeService(t, newFakeRepo(), analyses, &scriptedGenerator{})

	a, err := svc.GetAnalysis(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Equal(t, "Dev", a.TargetJob)

	latest, err := svc.LatestAnalysis(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, a.ID, latest.ID)

	_, err = svc.GetAnalysis(context.Background(), 1, 99)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.LatestAnalysis(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}
