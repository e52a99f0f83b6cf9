package auth

import (
	"net/http"
	"strings"
)

// SessionCookie carries the checkout session token for browser widgets.
const SessionCookie = "checkout_session"

func ExtractAccessToken(r *http.Request) string {
	// Cookie first, the widget iframe sets it
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	// Authorization header for server-to-server callers
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
