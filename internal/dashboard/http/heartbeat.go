package http

import (
	"context"
	"net/http"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/internal/dashboard/service"
	"github.com/phishguard/dashboard/pkg/httpx"
	"github.com/phishguard/dashboard/pkg/slogx"
)

// implicitHeartbeat refreshes the caller's desktop session when a request
// carries the companion device headers, so active clients stay live without
// a dedicated heartbeat call. Best effort: the request proceeds regardless.
func implicitHeartbeat(registry *service.SessionRegistry) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			device := domain.DeviceInfo{
				Platform:   r.Header.Get("X-Companion-Platform"),
				AppVersion: r.Header.Get("X-Companion-App-Version"),
				OSVersion:  r.Header.Get("X-Companion-OS-Version"),
				Hostname:   r.Header.Get("X-Companion-Hostname"),
			}

			userID := httpx.UserIDFromCtx(r.Context())
			if userID != "" && device.Platform != "" && device.Hostname != "" {
				ip := httpx.ClientIP(r)
				log := slogx.FromContext(r.Context())

				// Detached from the request lifecycle so a slow store never
				// delays the response.
				go func() {
					ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
					defer cancel()

					if _, err := registry.Heartbeat(ctx, userID, device, ip); err != nil {
						log.Warn("implicit heartbeat failed", "user_id", userID, "err", err)
					}
				}()
			}

			next.ServeHTTP(w, r)
		})
	}
}
