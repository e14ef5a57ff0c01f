package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parallaxhq/parallax/internal/client/models"
	"github.com/parallaxhq/parallax/internal/client/storage"
	"github.com/parallaxhq/parallax/internal/common"
)

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"username too short", "ab", "longenough", common.ErrorUsernameTooShort},
		{"username short after trim", "  ab  ", "longenough", common.ErrorUsernameTooShort},
		// Lengths count characters, not bytes: one multibyte rune is still one character.
		{"multibyte username too short", "日", "longenough", common.ErrorUsernameTooShort},
		{"password too short", "alice", "12345", common.ErrorPasswordTooShort},
		{"multibyte password too short", "alice", "日本語の字", common.ErrorPasswordTooShort},
		{"both empty", "", "", common.ErrorUsernameTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemStore()
			svc := NewAuthService(store)
			ctx := context.Background()

			err := svc.Register(ctx, tt.username, tt.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, common.ErrorValidation)
			assert.Empty(t, store.ReadUsers(ctx), "failed registration must not mutate the directory")
		})
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewAuthService(store)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "  alice  ", " secret1 "))

	users := store.ReadUsers(ctx)
	require.Len(t, users, 1)
	assert.Equal(t, models.User{Username: "alice", Password: "secret1"}, users[0])
	assert.Empty(t, store.GetSession(ctx), "registration must not log the user in")

	// A second valid registration appends exactly one record.
	require.NoError(t, svc.Register(ctx, "bob", "hunter22"))
	assert.Len(t, store.ReadUsers(ctx), 2)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewAuthService(store)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "secret1"))
	before := store.ReadUsers(ctx)

	err := svc.Register(ctx, "alice", "other12")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Equal(t, before, store.ReadUsers(ctx), "conflict must leave the directory unchanged")

	// Usernames are case-sensitive: "Alice" is a different account.
	require.NoError(t, svc.Register(ctx, "Alice", "other12"))
	assert.Len(t, store.ReadUsers(ctx), 2)
}

func TestAuthService_Login(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewAuthService(store)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, "alice", "secret1"))

	t.Run("wrong password", func(t *testing.T) {
		user, err := svc.Login(ctx, "alice", "wrong123")
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
		assert.Nil(t, user)
		assert.Empty(t, store.GetSession(ctx))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "secret1")
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	})

	t.Run("success persists session", func(t *testing.T) {
		before := store.ReadUsers(ctx)
		user, err := svc.Login(ctx, " alice ", " secret1 ")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice", store.GetSession(ctx))
		assert.Equal(t, before, store.ReadUsers(ctx), "login must not mutate the directory")
	})
}

func TestAuthService_RestoreSession(t *testing.T) {
	ctx := context.Background()

	t.Run("no session", func(t *testing.T) {
		svc := NewAuthService(storage.NewMemStore())
		user, err := svc.RestoreSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("valid session", func(t *testing.T) {
		store := storage.NewMemStore()
		svc := NewAuthService(store)
		require.NoError(t, svc.Register(ctx, "alice", "secret1"))
		_, err := svc.Login(ctx, "alice", "secret1")
		require.NoError(t, err)

		user, err := svc.RestoreSession(ctx)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("stale session is cleared", func(t *testing.T) {
		store := storage.NewMemStore()
		svc := NewAuthService(store)
		// Session points at a user that is not in the directory.
		require.NoError(t, store.SetSession(ctx, &models.User{Username: "ghost"}))

		user, err := svc.RestoreSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, user)
		assert.Empty(t, store.GetSession(ctx), "stale session key must be removed")
	})
}

func TestAuthService_Logout(t *testing.T) {
	store := storage.NewMemStore()
	svc := NewAuthService(store)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "secret1"))
	_, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))
	assert.Empty(t, store.GetSession(ctx))
}

func TestAuthService_SaveFailureIsWrapped(t *testing.T) {
	boom := errors.New("disk full")
	store := &failingStore{Store: storage.NewMemStore(), saveUsersErr: boom}
	svc := NewAuthService(store)

	err := svc.Register(context.Background(), "alice", "secret1")
	assert.ErrorIs(t, err, boom)
}

// failingStore wraps a Store and injects write errors.
type failingStore struct {
	storage.Store
	saveUsersErr    error
	saveLicensesErr error
}

func (s *failingStore) SaveUsers(ctx context.Context, users []models.User) error {
	if s.saveUsersErr != nil {
		return s.saveUsersErr
	}
	return s.Store.SaveUsers(ctx, users)
}

func (s *failingStore) SaveLicenses(ctx context.Context, licenses map[string][]models.License) error {
	if s.saveLicensesErr != nil {
		return s.saveLicensesErr
	}
	return s.Store.SaveLicenses(ctx, licenses)
}
