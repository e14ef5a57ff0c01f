package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parallaxhq/parallax/internal/client/api"
	"github.com/parallaxhq/parallax/internal/client/models"
	"github.com/parallaxhq/parallax/internal/client/services"
	"github.com/parallaxhq/parallax/internal/client/storage"
)

func newTestApp(t *testing.T) (*App, *storage.MemStore) {
	t.Helper()
	store := storage.NewMemStore()
	return &App{
		auth:     services.NewAuthService(store),
		licenses: services.NewLicenseService(store),
	}, store
}

// stubTextInputs makes getSimpleText return the given answers in order.
func stubTextInputs(t *testing.T, answers ...string) {
	t.Helper()
	orig := getSimpleText
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		next := answers[0]
		answers = answers[1:]
		return next, nil
	}
	t.Cleanup(func() { getSimpleText = orig })
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) (string, error) { return pw, nil }
	t.Cleanup(func() { getPassword = orig })
}

// capturePrint collects everything the app prints for assertions.
func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRegister_Success(t *testing.T) {
	a, store := newTestApp(t)
	stubTextInputs(t, "alice")
	stubPassword(t, "secret1")
	lines := capturePrint(t)

	require.NoError(t, a.Register(context.Background()))

	users := store.ReadUsers(context.Background())
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "secret1", users[0].Password)

	// Registration never logs in.
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, strings.Join(*lines, "\n"), "OK:")
}

func TestRegister_ValidationError(t *testing.T) {
	a, store := newTestApp(t)
	stubTextInputs(t, "ab")
	stubPassword(t, "secret1")
	lines := capturePrint(t)

	require.Error(t, a.Register(context.Background()))
	assert.Empty(t, store.ReadUsers(context.Background()))
	assert.Contains(t, strings.Join(*lines, "\n"), "ERROR:")
}

func TestLogin_SuccessRendersLicenses(t *testing.T) {
	a, store := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, store.SaveUsers(ctx, []models.User{{Username: "alice", Password: "secret1"}}))
	require.NoError(t, store.SaveLicenses(ctx, map[string][]models.License{
		"alice": {{LicenseNumber: "AB1234", VehicleModel: "Volvo", CreatedAt: "2026-08-27T10:00:00Z"}},
	}))

	stubTextInputs(t, "alice")
	stubPassword(t, "secret1")
	lines := capturePrint(t)

	require.NoError(t, a.Login(ctx))
	require.True(t, a.isLoggedIn())
	assert.Equal(t, "(alice)", a.status())

	out := strings.Join(*lines, "\n")
	assert.Contains(t, out, "AB1234 - Volvo")
}

func TestLogin_WrongPassword(t *testing.T) {
	a, store := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, store.SaveUsers(ctx, []models.User{{Username: "alice", Password: "secret1"}}))

	stubTextInputs(t, "alice")
	stubPassword(t, "wrong-pass")
	lines := capturePrint(t)

	require.Error(t, a.Login(ctx))
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, strings.Join(*lines, "\n"), "Invalid username or password.")
}

func TestLogout_ClearsSession(t *testing.T) {
	a, store := newTestApp(t)
	ctx := context.Background()

	user := models.User{Username: "alice", Password: "secret1"}
	require.NoError(t, store.SetSession(ctx, &user))
	a.currentUser = &user

	capturePrint(t)

	require.NoError(t, a.Logout(ctx))
	assert.False(t, a.isLoggedIn())
	assert.Empty(t, store.GetSession(ctx))
}

func TestAddLicense_AddsAndRenders(t *testing.T) {
	a, store := newTestApp(t)
	ctx := context.Background()
	a.currentUser = &models.User{Username: "alice"}

	stubTextInputs(t, " ab1234 ", " Volvo XC60 ")
	lines := capturePrint(t)

	require.NoError(t, a.AddLicense(ctx))

	entries := store.ReadLicenses(ctx)["alice"]
	require.Len(t, entries, 1)
	assert.Equal(t, "AB1234", entries[0].LicenseNumber)
	assert.Equal(t, "Volvo XC60", entries[0].VehicleModel)

	assert.Contains(t, strings.Join(*lines, "\n"), "AB1234 - Volvo XC60")
}

func TestAddLicense_DuplicateMessage(t *testing.T) {
	a, store := newTestApp(t)
	ctx := context.Background()
	a.currentUser = &models.User{Username: "alice"}
	require.NoError(t, store.SaveLicenses(ctx, map[string][]models.License{
		"alice": {{LicenseNumber: "AB1234", CreatedAt: "2026-08-27T10:00:00Z"}},
	}))

	stubTextInputs(t, "ab1234")
	lines := capturePrint(t)

	require.Error(t, a.AddLicense(ctx))
	assert.Contains(t, strings.Join(*lines, "\n"), "already registered")
}

func TestListLicenses_EmptyPlaceholder(t *testing.T) {
	a, _ := newTestApp(t)
	a.currentUser = &models.User{Username: "alice"}
	lines := capturePrint(t)

	require.NoError(t, a.ListLicenses(context.Background()))
	assert.Contains(t, strings.Join(*lines, "\n"), "No license numbers registered yet.")
}

func TestRemoveLicense(t *testing.T) {
	a, store := newTestApp(t)
	ctx := context.Background()
	a.currentUser = &models.User{Username: "alice"}
	require.NoError(t, store.SaveLicenses(ctx, map[string][]models.License{
		"alice": {{LicenseNumber: "AB1234", CreatedAt: "2026-08-27T10:00:00Z"}},
	}))

	stubTextInputs(t, "ab1234")
	capturePrint(t)

	require.NoError(t, a.RemoveLicense(ctx))
	assert.Empty(t, store.ReadLicenses(ctx)["alice"])
}

func TestQueryPlate_Blacklisted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AB1234", r.URL.Query().Get("plate"))
		io.WriteString(w, `{"registered":true,"blacklisted":true,"message":"stolen vehicle"}`)
	}))
	defer srv.Close()

	a, _ := newTestApp(t)
	a.api = api.NewClient(srv.URL)
	a.currentUser = &models.User{Username: "alice"}

	stubTextInputs(t, "AB1234")
	lines := capturePrint(t)

	require.NoError(t, a.QueryPlate(context.Background()))
	assert.Contains(t, strings.Join(*lines, "\n"), "BLACKLISTED")
}

func TestQueryPlate_ServerUnavailable(t *testing.T) {
	a, _ := newTestApp(t)
	a.api = api.NewClient("http://127.0.0.1:1")
	a.currentUser = &models.User{Username: "alice"}

	stubTextInputs(t, "AB1234")
	lines := capturePrint(t)

	require.Error(t, a.QueryPlate(context.Background()))
	assert.Contains(t, strings.Join(*lines, "\n"), unavailableMsg)
}
