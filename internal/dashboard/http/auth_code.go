package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/internal/dashboard/service"
	"github.com/phishguard/dashboard/pkg/companionsdk"
	"github.com/phishguard/dashboard/pkg/httpx"
	"github.com/phishguard/dashboard/pkg/jwtx"
	"github.com/phishguard/dashboard/pkg/slogx"
)

// CodeHandler serves POST /v1/auth/code.
type CodeHandler struct {
	Vault *service.CodeVault
}

// ServeHTTP godoc
//
//	@Summary		Mint Companion Authorization Code
//	@Description	Issues a one-time authorization code bound to the authenticated dashboard session.
//	@Description	The code travels to the desktop companion via the phishguard:// URI scheme and is
//	@Description	redeemable exactly once at the token endpoint.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	companionsdk.CodeResponse	"code, expiresAt"
//	@Failure		401	{object}	companionsdk.APIError		"error, message"
//	@Failure		429	{object}	companionsdk.APIError		"error, message, resetAt"
//	@Failure		500	{object}	companionsdk.APIError		"error, message"
//	@Failure		503	{object}	companionsdk.APIError		"error, message"
//	@Router			/v1/auth/code [post].
func (h *CodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := ctx.Value(httpx.CtxKeyClaims).(jwtx.Claims)
	if !ok {
		companionsdk.ErrUnauthorized.WriteError(w)
		return
	}

	identity := domain.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}

	code, expiresAt, err := h.Vault.Issue(ctx, identity)
	if err != nil {
		if errors.Is(err, service.ErrStorageUnavailable) {
			companionsdk.ErrStorageUnavailable.WriteError(w)
			return
		}
		log.Error("code issuance failed", "err", err)
		companionsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, companionsdk.CodeResponse{
		Code:      code,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}
