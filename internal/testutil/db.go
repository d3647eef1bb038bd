package testutil

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/db"
	"github.com/Skotchmaster/techstore/internal/hash"
	"github.com/Skotchmaster/techstore/internal/models"
)

// NewDB returns a migrated in-memory SQLite database closed on test cleanup.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))

	t.Cleanup(func() {
		_ = db.Close(gdb)
	})
	return gdb
}

func CreateUser(t *testing.T, gdb *gorm.DB, username, password, role string) models.User {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: pwHash,
		Role:         role,
	}
	require.NoError(t, gdb.Create(&user).Error)
	return user
}

// CreateDevice stores a device together with a fresh type and brand.
func CreateDevice(t *testing.T, gdb *gorm.DB, title, price string) models.Device {
	t.Helper()

	typ := models.Type{Name: "type-" + title}
	require.NoError(t, gdb.Create(&typ).Error)
	brand := models.Brand{Name: "brand-" + title}
	require.NoError(t, gdb.Create(&brand).Error)

	device := models.Device{
		Title:       title,
		Description: title + " description",
		Price:       decimal.RequireFromString(price),
		TypeID:      typ.ID,
		BrandID:     brand.ID,
	}
	require.NoError(t, gdb.Create(&device).Error)
	return device
}
