package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/internal/dashboard/service"
	"github.com/phishguard/dashboard/internal/dashboard/store/drivers/sqlite"
	"github.com/phishguard/dashboard/pkg/companionsdk"
	"github.com/phishguard/dashboard/pkg/cryptox"
	"github.com/phishguard/dashboard/pkg/idx"
	"github.com/phishguard/dashboard/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router *Router
	store  *sqlite.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)

	const issuer = "phishguard-dashboard-test"
	verifier := jwtx.NewVerifierEdDSA("test-key", signer.Public(), issuer)

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	router := NewRouter(verifier, "test", st, logger)
	router.UserService = &service.UserService{Store: st}
	router.Vault = &service.CodeVault{Store: st, CodeTTL: time.Minute, PurgeDelay: time.Minute}
	router.TokenService = &service.TokenService{
		Signer:     signer,
		Issuer:     issuer,
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
	router.RateLimiter = &service.RateLimiter{Store: st}
	router.Registry = &service.SessionRegistry{Store: st}
	router.ApplyRoutes()

	return &testEnv{router: router, store: st}
}

func (e *testEnv) seedUser(t *testing.T, email, password, role string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Test User",
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.store.Users().CreateUser(context.Background(), user))
	return user
}

// doJSON runs one request through the full middleware chain.
func (e *testEnv) doJSON(t *testing.T, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T, email, password string) companionsdk.TokenResponse {
	t.Helper()

	rec := e.doJSON(t, http.MethodPost, "/v1/auth/login", companionsdk.LoginRequest{
		Email:    email,
		Password: password,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	var resp companionsdk.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) *companionsdk.APIError {
	t.Helper()
	return companionsdk.ParseAPIError(rec.Code, rec.Body.Bytes())
}
