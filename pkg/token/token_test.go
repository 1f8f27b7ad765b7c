package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService("test-secret", time.Minute, time.Hour, NewMemoryBlacklist())
}

func TestIssueAndParse(t *testing.T) {
	svc := newTestService()

	pair, err := svc.IssuePair("acc-1", "JOB_SEEKER")
	require.NoError(t, err)

	claims, err := svc.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.Subject)
	assert.Equal(t, "JOB_SEEKER", claims.Role)

	_, err = svc.ParseAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = svc.ParseAccess("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredAccessTokenIsRejected(t *testing.T) {
	svc := newTestService()
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	pair, err := svc.IssuePair("acc-1", "EMPLOYER")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ParseAccess(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeBlacklistsRefreshToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	pair, err := svc.IssuePair("acc-1", "EMPLOYER")
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	require.NoError(t, svc.Revoke(ctx, pair.Refresh))

	_, err = svc.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrRevoked)

	// a second logout with the same token is rejected, not silently accepted
	assert.ErrorIs(t, svc.Revoke(ctx, pair.Refresh), ErrRevoked)
}

func TestSigningWithoutSecretFails(t *testing.T) {
	svc := NewService("", time.Minute, time.Hour, nil)
	_, err := svc.IssuePair("acc-1", "")
	assert.Error(t, err)
}

func TestMemoryBlacklistExpires(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryBlacklist()

	require.NoError(t, bl.Revoke(ctx, "gone", time.Now().Add(-time.Second)))
	require.NoError(t, bl.Revoke(ctx, "live", time.Now().Add(time.Hour)))

	revoked, _ := bl.IsRevoked(ctx, "gone")
	assert.False(t, revoked)
	revoked, _ = bl.IsRevoked(ctx, "live")
	assert.True(t, revoked)
}

func TestResetTokenIsBoundToAccountState(t *testing.T) {
	rt := NewResetTokens("reset-secret", time.Hour)
	before := StateChecksum("acc-1", "$2a$hash-one", true)

	tok, err := rt.Make("acc-1", before)
	require.NoError(t, err)

	assert.True(t, rt.Check("acc-1", before, tok))
	assert.False(t, rt.Check("acc-2", before, tok), "other account")

	after := StateChecksum("acc-1", "$2a$hash-two", true)
	assert.False(t, rt.Check("acc-1", after, tok), "password changed")
}

func TestResetTokenExpires(t *testing.T) {
	rt := NewResetTokens("reset-secret", time.Hour)
	rt.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	chk := StateChecksum("acc-1", "hash", false)

	tok, err := rt.Make("acc-1", chk)
	require.NoError(t, err)

	rt.now = time.Now
	assert.False(t, rt.Check("acc-1", chk, tok))
}

func TestUIDRoundTrip(t *testing.T) {
	uid := EncodeUID("2b1c5a8e-0000-4000-8000-000000000001")
	got, err := DecodeUID(uid)
	require.NoError(t, err)
	assert.Equal(t, "2b1c5a8e-0000-4000-8000-000000000001", got)

	_, err = DecodeUID("%%%")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
