package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "minibadge/internal/delivery/http/helpers"
	"minibadge/internal/domain"
)

type callerKey struct{}

// SetCaller returns a copy of ctx carrying caller.
func SetCaller(ctx context.Context, caller *domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller RequireAuth stored, if any.
func CallerFromContext(ctx context.Context) (*domain.Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(*domain.Caller)
	return c, ok && c != nil
}

// bearerToken extracts the credentials of an "Authorization: Bearer <token>"
// header. The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth rejects requests without a valid bearer token with 401 and
// otherwise runs next with the verified caller in the request context.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	unauthorized := func(w http.ResponseWriter, msg string) {
		w.Header().Set("WWW-Authenticate", `Bearer realm="minibadge"`)
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, msg)
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "missing authorization header")
				return
			}
			token, ok := bearerToken(header)
			if !ok {
				unauthorized(w, "expected a bearer token")
				return
			}
			caller, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				unauthorized(w, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetCaller(r.Context(), caller)))
		}
	}
}
