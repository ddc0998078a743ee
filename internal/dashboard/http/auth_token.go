package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/phishguard/dashboard/internal/dashboard/service"
	"github.com/phishguard/dashboard/pkg/companionsdk"
	"github.com/phishguard/dashboard/pkg/jwtx"
	"github.com/phishguard/dashboard/pkg/slogx"
)

// TokenHandler serves POST /v1/auth/token. Two paths share the endpoint: a
// body carrying a one-time code redeems it, and a bare request with a Bearer
// refresh token rotates the pair.
type TokenHandler struct {
	Vault        *service.CodeVault
	UserService  *service.UserService
	TokenService *service.TokenService
	Verifier     jwtx.Verifier
}

// ServeHTTP godoc
//
//	@Summary		Token Endpoint
//	@Description	Redeems a one-time companion code, or exchanges a refresh token, for a fresh
//	@Description	access/refresh pair. A code is redeemable exactly once; concurrent redemption
//	@Description	attempts race and exactly one wins.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	formData	companionsdk.TokenRequest	false	"One-time code (omit when refreshing)"
//	@Success		200		{object}	companionsdk.TokenResponse	"accessToken, refreshToken, tokenType, expiresIn, refreshExpiresIn, user"
//	@Failure		400		{object}	companionsdk.APIError		"error, message"
//	@Failure		401		{object}	companionsdk.APIError		"error, message"
//	@Failure		404		{object}	companionsdk.APIError		"error, message"
//	@Failure		500		{object}	companionsdk.APIError		"error, message"
//	@Failure		503		{object}	companionsdk.APIError		"error, message"
//	@Router			/v1/auth/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req companionsdk.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		companionsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if code := strings.TrimSpace(req.Code); code != "" {
		h.handleCodeRedemption(w, r, code)
		return
	}
	h.handleRefresh(w, r)
}

func (h *TokenHandler) handleCodeRedemption(w http.ResponseWriter, r *http.Request, code string) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity, err := h.Vault.Redeem(ctx, code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeNotFound):
			companionsdk.ErrInvalidCode.WriteError(w)
		case errors.Is(err, service.ErrCodeExpired):
			companionsdk.ErrCodeExpired.WriteError(w)
		case errors.Is(err, service.ErrCodeConsumed):
			companionsdk.ErrCodeConsumed.WriteError(w)
		case errors.Is(err, service.ErrStorageUnavailable):
			companionsdk.ErrStorageUnavailable.WriteError(w)
		default:
			log.Error("code redemption failed", "err", err)
			companionsdk.ErrServerError.WriteError(w)
		}
		return
	}

	h.issueForUser(w, r, identity.UserID)
}

func (h *TokenHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		companionsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

	claims, err := h.Verifier.Verify(raw)
	if err != nil {
		companionsdk.ErrUnauthorized.WriteError(w)
		return
	}
	if err := claims.ValidateUse(jwtx.TokenUseRefresh); err != nil {
		// Access tokens can't mint new pairs.
		companionsdk.ErrUnauthorized.WriteError(w)
		return
	}

	h.issueForUser(w, r, claims.Subject)
}

// issueForUser re-resolves the user so a deleted account or changed role is
// reflected in the new pair rather than copied from stale claims.
func (h *TokenHandler) issueForUser(w http.ResponseWriter, r *http.Request, userID string) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, err := h.UserService.GetByID(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIdentityNotFound):
			companionsdk.ErrIdentityNotFound.WriteError(w)
		case errors.Is(err, service.ErrStorageUnavailable):
			companionsdk.ErrStorageUnavailable.WriteError(w)
		default:
			log.Error("identity lookup failed", "err", err)
			companionsdk.ErrServerError.WriteError(w)
		}
		return
	}

	writeTokenResponse(w, log, h.TokenService, user)
}
