package companionsdk_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phishguard/dashboard/pkg/companionsdk"
	"github.com/stretchr/testify/require"
)

func testDevice() companionsdk.HeartbeatRequest {
	return companionsdk.HeartbeatRequest{
		Platform:   "darwin",
		AppVersion: "1.4.0",
		OSVersion:  "14.5",
		Hostname:   "alices-macbook",
	}
}

func TestExchangeCodeStoresTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/auth/token", r.URL.Path)

		var req companionsdk.TokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "code-123", req.Code)

		// Unauthenticated exchange carries no device headers.
		require.Empty(t, r.Header.Get("X-Companion-Platform"))

		_ = json.NewEncoder(w).Encode(companionsdk.TokenResponse{
			AccessToken:  "access-abc",
			RefreshToken: "refresh-def",
			TokenType:    "Bearer",
			ExpiresIn:    900,
		})
	}))
	defer srv.Close()

	client := companionsdk.NewClient(srv.URL, testDevice())
	pair, err := client.ExchangeCode(t.Context(), "code-123")
	require.NoError(t, err)
	require.Equal(t, "access-abc", pair.AccessToken)
	require.Equal(t, "Bearer", pair.TokenType)
}

func TestHeartbeatSendsDeviceHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/token":
			_ = json.NewEncoder(w).Encode(companionsdk.TokenResponse{
				AccessToken:  "access-abc",
				RefreshToken: "refresh-def",
			})
		case "/v1/sessions/heartbeat":
			require.Equal(t, "Bearer access-abc", r.Header.Get("Authorization"))
			require.Equal(t, "darwin", r.Header.Get("X-Companion-Platform"))
			require.Equal(t, "alices-macbook", r.Header.Get("X-Companion-Hostname"))
			_ = json.NewEncoder(w).Encode(companionsdk.HeartbeatResponse{SessionID: "sess-1"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := companionsdk.NewClient(srv.URL, testDevice())
	_, err := client.ExchangeCode(t.Context(), "code-123")
	require.NoError(t, err)

	hb, err := client.Heartbeat(t.Context())
	require.NoError(t, err)
	require.Equal(t, "sess-1", hb.SessionID)
}

func TestRefreshWithoutTokenFails(t *testing.T) {
	client := companionsdk.NewClient("http://127.0.0.1:0", testDevice())

	_, err := client.Refresh(t.Context())
	require.ErrorIs(t, err, companionsdk.ErrUnauthorized)
}

func TestStructuredErrorsSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		companionsdk.ErrCodeConsumed.WriteError(w)
	}))
	defer srv.Close()

	client := companionsdk.NewClient(srv.URL, testDevice())
	_, err := client.ExchangeCode(t.Context(), "used-code")

	var apiErr *companionsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, companionsdk.ErrorCodeCodeConsumed, apiErr.Code)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestUnstructuredErrorFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := companionsdk.NewClient(srv.URL, testDevice())
	_, err := client.ExchangeCode(t.Context(), "code")

	var apiErr *companionsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, companionsdk.ErrorCodeServerError, apiErr.Code)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestListSessionsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/sessions", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("activeOnly"))
		_ = json.NewEncoder(w).Encode(companionsdk.SessionListResponse{
			Sessions:       []companionsdk.SessionInfo{{ID: "sess-1"}},
			Total:          1,
			ActiveSessions: 1,
			TotalUsers:     1,
		})
	}))
	defer srv.Close()

	client := companionsdk.NewClient(srv.URL, testDevice())
	list, err := client.ListSessions(t.Context(), true)
	require.NoError(t, err)
	require.Len(t, list.Sessions, 1)
	require.Equal(t, 1, list.ActiveSessions)
}
