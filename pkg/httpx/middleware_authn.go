package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/discograph/discograph/pkg/jwtx"
)

const bearerPrefix = "Bearer "

// Authn resolves the optional bearer token into an Identity on the request
// context. The middleware never rejects: a missing, malformed, expired, or
// otherwise invalid token leaves the request anonymous and lets downstream
// authorization decide what anonymity is allowed to do.
func Authn(verifier jwtx.Verifier, log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, bearerPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			raw := strings.TrimSpace(header[len(bearerPrefix):])
			claims, err := verifier.Verify(raw)
			if err != nil {
				log.Debug("bearer token rejected, continuing anonymous", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			id := Identity{
				UserID:   claims.Subject,
				Username: claims.Username,
				Roles:    claims.Roles,
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
		})
	}
}
