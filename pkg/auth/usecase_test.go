package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	byEmail map[string]User
	nextID  int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: map[string]User{}, nextID: 1}
}

func (m *memUserRepo) Create(_ context.Context, u User) (User, error) {
	if _, ok := m.byEmail[u.Email]; ok {
		return User{}, ErrUserAlreadyExists
	}
	u.ID = m.nextID
	m.nextID++
	m.byEmail[u.Email] = u
	return u, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (User, error) {
	u, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetByID(_ context.Context, id int64) (User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

type staticTokens struct{}

func (staticTokens) Generate(_ context.Context, u User) (string, error) {
	return "token-for-" + u.Email, nil
}

func TestRegister_HashesPasswordAndNormalizesEmail(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, staticTokens{})

	res, err := svc.Register(context.Background(), "  Jane Roe ", "  Jane@Example.COM ", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "jane@example.com", res.User.Email)
	require.Equal(t, "Jane Roe", res.User.FullName)
	require.Equal(t, "token-for-jane@example.com", res.Token)
	require.NotEqual(t, "s3cret", res.User.PasswordHash)
	require.NotEmpty(t, res.User.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, staticTokens{})

	_, err := svc.Register(context.Background(), "Jane", "jane@example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Jane Again", "jane@example.com", "other")
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegister_MissingCredentials(t *testing.T) {
	svc := NewAuthService(newMemUserRepo(), staticTokens{})

	_, err := svc.Register(context.Background(), "Jane", "", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Register(context.Background(), "Jane", "jane@example.com", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, staticTokens{})

	_, err := svc.Register(context.Background(), "Jane", "jane@example.com", "s3cret")
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), "jane@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "token-for-jane@example.com", res.Token)

	_, err = svc.Login(context.Background(), "jane@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
