package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parallaxhq/parallax/internal/client/models"
	"github.com/parallaxhq/parallax/internal/client/storage"
	"github.com/parallaxhq/parallax/internal/common"
)

var alice = &models.User{Username: "alice", Password: "secret1"}

func stubNow(t *testing.T, at time.Time) {
	t.Helper()
	orig := nowFn
	nowFn = func() time.Time { return at }
	t.Cleanup(func() { nowFn = orig })
}

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ab1234", "AB1234"},
		{"  ab1234  ", "AB1234"},
		{"AB1234", "AB1234"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePlate(tt.in))
	}
}

func TestLicenseService_Submit(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewLicenseService(store)
	ctx := context.Background()
	stubNow(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, svc.Submit(ctx, alice, " ab1234 ", " Sedan "))

	entries := store.ReadLicenses(ctx)["alice"]
	require.Len(t, entries, 1)
	assert.Equal(t, models.License{
		LicenseNumber: "AB1234",
		VehicleModel:  "Sedan",
		CreatedAt:     "2026-03-01T12:00:00Z",
	}, entries[0])
}

func TestLicenseService_Submit_CaseInsensitiveDuplicate(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewLicenseService(store)
	ctx := context.Background()

	require.NoError(t, svc.Submit(ctx, alice, "ab1234", "Sedan"))

	err := svc.Submit(ctx, alice, "AB1234", "Truck")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Len(t, store.ReadLicenses(ctx)["alice"], 1, "conflict must not mutate the list")

	// The same plate under a different user is fine.
	bob := &models.User{Username: "bob"}
	require.NoError(t, svc.Submit(ctx, bob, "AB1234", "Truck"))
}

func TestLicenseService_Submit_NoActiveSession(t *testing.T) {
	svc := NewLicenseService(storage.NewMemStore())
	err := svc.Submit(context.Background(), nil, "ab1234", "Sedan")
	assert.ErrorIs(t, err, common.ErrorNoActiveSession)
}

func TestLicenseService_Remove(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewLicenseService(store)
	ctx := context.Background()

	require.NoError(t, svc.Submit(ctx, alice, "ab1234", "Sedan"))
	require.NoError(t, svc.Submit(ctx, alice, "cd5678", "Truck"))

	t.Run("removes exact match after normalization", func(t *testing.T) {
		require.NoError(t, svc.Remove(ctx, alice, " ab1234 "))
		entries := store.ReadLicenses(ctx)["alice"]
		require.Len(t, entries, 1)
		assert.Equal(t, "CD5678", entries[0].LicenseNumber)
	})

	t.Run("removing an absent plate silently succeeds", func(t *testing.T) {
		before := store.ReadLicenses(ctx)["alice"]
		require.NoError(t, svc.Remove(ctx, alice, "ZZ9999"))
		assert.Equal(t, before, store.ReadLicenses(ctx)["alice"])
	})

	t.Run("no active session", func(t *testing.T) {
		assert.ErrorIs(t, svc.Remove(ctx, nil, "CD5678"), common.ErrorNoActiveSession)
	})
}

func TestLicenseService_List_NewestFirst(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewLicenseService(store)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, plate := range []string{"T1AAAA", "T2BBBB", "T3CCCC"} {
		stubNow(t, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, svc.Submit(ctx, alice, plate, "Sedan"))
	}

	entries, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "T3CCCC", entries[0].LicenseNumber)
	assert.Equal(t, "T2BBBB", entries[1].LicenseNumber)
	assert.Equal(t, "T1AAAA", entries[2].LicenseNumber)
}

func TestLicenseService_List_EqualTimestampsKeepInsertionOrder(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewLicenseService(store)
	ctx := context.Background()
	stubNow(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	for _, plate := range []string{"AAA111", "BBB222", "CCC333"} {
		require.NoError(t, svc.Submit(ctx, alice, plate, "Sedan"))
	}

	entries, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "AAA111", entries[0].LicenseNumber)
	assert.Equal(t, "BBB222", entries[1].LicenseNumber)
	assert.Equal(t, "CCC333", entries[2].LicenseNumber)
}

func TestLicenseService_List_MixedTimestampPrecision(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewLicenseService(store)
	ctx := context.Background()

	// Directories written by the original app can carry fractional seconds.
	// "...00Z" sorts after "...00.500Z" lexically but is the earlier instant.
	require.NoError(t, store.SaveLicenses(ctx, map[string][]models.License{
		"alice": {
			{LicenseNumber: "AAA111", VehicleModel: "Sedan", CreatedAt: "2026-03-01T12:00:00Z"},
			{LicenseNumber: "BBB222", VehicleModel: "Truck", CreatedAt: "2026-03-01T12:00:00.500Z"},
		},
	}))

	entries, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "BBB222", entries[0].LicenseNumber)
	assert.Equal(t, "AAA111", entries[1].LicenseNumber)
}

func TestLicenseService_List_EmptyAndNoSession(t *testing.T) {
	svc := NewLicenseService(storage.NewMemStore())
	ctx := context.Background()

	entries, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = svc.List(ctx, nil)
	assert.ErrorIs(t, err, common.ErrorNoActiveSession)
}

// TestRegistryFlow_EndToEnd walks the whole user journey through the services.
func TestRegistryFlow_EndToEnd(t *testing.T) {
	store := storage.NewMemStore()
	auth := NewAuthService(store)
	lic := NewLicenseService(store)
	ctx := context.Background()

	require.NoError(t, auth.Register(ctx, "alice", "secret1"))
	assert.ErrorIs(t, auth.Register(ctx, "alice", "other12"), common.ErrorAlreadyExists)

	_, err := auth.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	user, err := auth.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	require.NoError(t, lic.Submit(ctx, user, "ab1234", "Sedan"))
	entries, err := lic.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.ErrorIs(t, lic.Submit(ctx, user, "AB1234", "Truck"), common.ErrorAlreadyExists)

	require.NoError(t, lic.Remove(ctx, user, "ab1234"))
	entries, err = lic.List(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
