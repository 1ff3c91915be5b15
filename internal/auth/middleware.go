package auth

import (
	"net/http"
	"strings"

	"github.com/vidtube/backend/internal/logging"
)

// Cookie names carrying the session credentials.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// AccessTokenFromRequest reads the access token from its cookie or a bearer header.
func AccessTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireUser rejects requests without a valid access token and stores the
// caller's identity on the request context. onUnauthorized writes the rejection.
func RequireUser(issuer *TokenIssuer, onUnauthorized func(http.ResponseWriter, *http.Request, string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := AccessTokenFromRequest(r)
			if token == "" {
				onUnauthorized(w, r, "unauthorized request")
				return
			}

			claims, err := issuer.Verify(token)
			if err != nil {
				logging.FromContext(r.Context()).Debug("rejected access token", "error", err)
				onUnauthorized(w, r, "invalid access token")
				return
			}

			ctx := WithUserID(r.Context(), claims.Subject)
			ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With("userId", claims.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
