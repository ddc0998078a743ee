package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/service"
	"github.com/phishguard/dashboard/internal/dashboard/store/drivers/sqlite"
	"github.com/phishguard/dashboard/pkg/companionsdk"
	"github.com/phishguard/dashboard/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestRateLimitByUserDeniesWithResetAt(t *testing.T) {
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	limiter := &service.RateLimiter{Store: st}
	policy := service.RateLimitPolicy{Limit: 2, Window: time.Minute}

	handler := rateLimitByUser(limiter, "test", policy)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
	))

	do := func(userID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req = req.WithContext(context.WithValue(req.Context(), httpx.CtxKeyUserID, userID))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	rec := do("user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do("user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do("user-1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	var apiErr companionsdk.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	require.Equal(t, companionsdk.ErrorCodeRateLimited, apiErr.Code)
	require.NotNil(t, apiErr.ResetAt)
	require.True(t, apiErr.ResetAt.After(time.Now()))

	// A different user has their own window.
	rec = do("user-2")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitByUserFailsClosedWhenStoreIsGone(t *testing.T) {
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Close())

	limiter := &service.RateLimiter{Store: st}
	handler := rateLimitByUser(limiter, "test", service.RateLimitPolicy{Limit: 5, Window: time.Minute})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
	)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(context.WithValue(req.Context(), httpx.CtxKeyUserID, "user-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code, "an unreachable limiter must deny")
}
