package middleware

import (
	"net/http"

	"feexpay-checkout/internal/auth"
	"feexpay-checkout/internal/logger"
	"feexpay-checkout/internal/utils"

	"go.uber.org/zap"
)

// SessionAuth only lets requests through that carry a valid checkout session
// token, and stores the session id in the request context.
func SessionAuth(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				utils.WriteJSONError(w, "missing session token", http.StatusUnauthorized)
				return
			}

			claims, err := issuer.Parse(tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("session token rejected", zap.Error(err))
				utils.WriteJSONError(w, "invalid session token", http.StatusUnauthorized)
				return
			}

			ctx := utils.WithSessionID(r.Context(), claims.SessionID)
			ctx = logger.WithSessionID(ctx, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
