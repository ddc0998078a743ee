package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/phishguard/dashboard/pkg/companionsdk"
	"github.com/stretchr/testify/require"
)

func TestLivez(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodGet, "/livez", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp companionsdk.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, "test", resp.Version)
	require.Nil(t, resp.Checks)
}

func TestReadyz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodGet, "/readyz", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp companionsdk.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.Checks)
	require.Equal(t, "ok", resp.Checks.Database)
	require.Equal(t, "ok", resp.Checks.Signer)
}

func TestReadyzReportsDegradedStore(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.Close())

	rec := env.doJSON(t, http.MethodGet, "/readyz", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp companionsdk.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "degraded", resp.Status)
}
