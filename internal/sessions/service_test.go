package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	store map[string]*Session
}

func newFakeRepo() *fakeRepo { return &fakeRepo{store: map[string]*Session{}} }

func (f *fakeRepo) Create(ctx context.Context, s *Session) error {
	f.store[s.RefreshToken] = s
	return nil
}

func (f *fakeRepo) GetByRefresh(ctx context.Context, refresh string) (*Session, error) {
	return f.store[refresh], nil
}

func (f *fakeRepo) DeleteByRefresh(ctx context.Context, refresh string) error {
	delete(f.store, refresh)
	return nil
}

func TestCreateAndValidateSession(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	token, err := svc.CreateSession(ctx, "admin-1", "editor", time.Hour)
	require.NoError(t, err)
	require.Len(t, token, 64) // 32 random bytes, hex encoded

	sess, err := svc.ValidateRefresh(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "admin-1", sess.Sub)
	require.Equal(t, "editor", sess.Role)

	// unknown token
	sess, err = svc.ValidateRefresh(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestValidateRefresh_ExpiredIsRemoved(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	repo.store["old"] = &Session{
		RefreshToken: "old",
		Sub:          "admin-1",
		ExpiresAt:    time.Now().UTC().Add(-time.Minute),
	}

	sess, err := svc.ValidateRefresh(ctx, "old")
	require.NoError(t, err)
	require.Nil(t, sess)
	require.NotContains(t, repo.store, "old")
}

func TestDeleteRefresh(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	token, err := svc.CreateSession(ctx, "admin-1", "all", time.Hour)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteRefresh(ctx, token))

	sess, err := svc.ValidateRefresh(ctx, token)
	require.NoError(t, err)
	require.Nil(t, sess)
}
