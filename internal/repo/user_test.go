package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/testutil"
)

func TestUsers_CreateAndLookup(t *testing.T) {
	r := New(testutil.NewDB(t))
	ctx := context.Background()

	u := models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", Role: models.RoleCustomer}
	require.NoError(t, r.CreateUser(ctx, &u))

	byName, err := r.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byID, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	_, err = r.GetUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	taken, err := r.UsernameTaken(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = r.EmailTaken(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.False(t, taken)

	dup := models.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "x", Role: models.RoleCustomer}
	assert.ErrorIs(t, r.CreateUser(ctx, &dup), ErrDuplicate)
}

func TestRefreshTokens_SaveFindRevoke(t *testing.T) {
	gdb := testutil.NewDB(t)
	r := New(gdb)
	ctx := context.Background()

	u := testutil.CreateUser(t, gdb, "alice", "secret", models.RoleCustomer)
	tok := models.RefreshToken{
		JTI:       "jti-1",
		TokenHash: "hash-1",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}
	require.NoError(t, r.SaveRefreshToken(ctx, &tok))

	found, err := r.FindRefreshByJTI(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, found.Revoked)
	assert.False(t, found.Expired(time.Now()))

	n, err := r.RevokeRefreshByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = r.RevokeRefreshByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	found, err = r.FindRefreshByJTI(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, found.Revoked)
}
