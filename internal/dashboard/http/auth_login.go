package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/internal/dashboard/service"
	"github.com/phishguard/dashboard/pkg/companionsdk"
	"github.com/phishguard/dashboard/pkg/httpx"
	"github.com/phishguard/dashboard/pkg/slogx"
)

// LoginHandler serves POST /v1/auth/login.
type LoginHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Dashboard Login
//	@Description	Authenticates a dashboard account with email and password and returns a signed access/refresh token pair.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	formData	companionsdk.LoginRequest	true	"Login credentials"
//	@Success		200		{object}	companionsdk.TokenResponse	"accessToken, refreshToken, tokenType, expiresIn, refreshExpiresIn, user"
//	@Failure		400		{object}	companionsdk.APIError		"error, message"
//	@Failure		401		{object}	companionsdk.APIError		"error, message"
//	@Failure		500		{object}	companionsdk.APIError		"error, message"
//	@Failure		503		{object}	companionsdk.APIError		"error, message"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req companionsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		companionsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		companionsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.Authenticate(ctx, email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			companionsdk.ErrUnauthorized.WriteError(w)
		case errors.Is(err, service.ErrStorageUnavailable):
			companionsdk.ErrStorageUnavailable.WriteError(w)
		default:
			log.Error("login failed", "err", err)
			companionsdk.ErrServerError.WriteError(w)
		}
		return
	}

	writeTokenResponse(w, log, h.TokenService, user)
}

// writeTokenResponse signs a pair for user and writes the 200 body shared by
// the login and token endpoints.
func writeTokenResponse(w http.ResponseWriter, log *slog.Logger, tokens *service.TokenService, user domain.User) {
	pair, err := tokens.IssuePair(user)
	if err != nil {
		log.Error("token pair issuance failed", "err", err)
		companionsdk.ErrServerError.WriteError(w)
		return
	}

	response := companionsdk.TokenResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        int(pair.ExpiresIn.Seconds()),
		RefreshExpiresIn: int(pair.RefreshExpiresIn.Seconds()),
		User: companionsdk.UserInfo{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, response)
}
