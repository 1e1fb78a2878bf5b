package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"paysplit/internal/domain/auth"
	"paysplit/internal/transport/http/api"
)

type ctxKey string

const ctxKeyClient ctxKey = "client"

// Auth requires a valid HS256 bearer token when a secret is configured. With
// no secret every request passes unauthenticated.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "bearer token required", GetRequestID(r.Context()))
				return
			}
			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				slog.Warn("rejected bearer token", "err", err, "requestId", GetRequestID(r.Context()))
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "invalid token", GetRequestID(r.Context()))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyClient, auth.ClientContext{ClientID: claims.ClientID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func GetClient(ctx context.Context) (auth.ClientContext, bool) {
	client, ok := ctx.Value(ctxKeyClient).(auth.ClientContext)
	return client, ok
}
