package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/discograph/discograph/pkg/jwtx"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func signTestToken(t *testing.T, username string, roles []string, ttl time.Duration) string {
	t.Helper()
	signer, err := jwtx.NewHS256(testSecret, "catalog-test")
	require.NoError(t, err)
	claims := jwtx.NewAccessClaims("user-1", username, roles, ttl, "catalog-test", time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)
	return token
}

func identityEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := IdentityFromContext(r.Context()); ok {
			WriteJSON(w, http.StatusOK, map[string]any{"username": id.Username, "roles": id.Roles})
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"anonymous": true})
	})
}

func TestAuthn(t *testing.T) {
	verifier, err := jwtx.NewHS256(testSecret, "catalog-test")
	require.NoError(t, err)
	h := Authn(verifier, discardLogger())(identityEcho())

	do := func(authorization string) map[string]any {
		r := httptest.NewRequest(http.MethodGet, "/v1/artists", nil)
		if authorization != "" {
			r.Header.Set("Authorization", authorization)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body
	}

	t.Run("valid token yields an identity", func(t *testing.T) {
		token := signTestToken(t, "alice", []string{"admin"}, time.Minute)
		body := do("Bearer " + token)
		require.Equal(t, "alice", body["username"])
	})

	t.Run("no header stays anonymous", func(t *testing.T) {
		require.Equal(t, true, do("")["anonymous"])
	})

	t.Run("non-bearer scheme stays anonymous", func(t *testing.T) {
		require.Equal(t, true, do("Basic YWxpY2U6cHc=")["anonymous"])
	})

	t.Run("garbage token stays anonymous without failing the request", func(t *testing.T) {
		require.Equal(t, true, do("Bearer not.a.token")["anonymous"])
	})

	t.Run("expired token stays anonymous", func(t *testing.T) {
		token := signTestToken(t, "alice", nil, -time.Minute)
		require.Equal(t, true, do("Bearer "+token)["anonymous"])
	})

	t.Run("token signed with another secret stays anonymous", func(t *testing.T) {
		other, err := jwtx.NewHS256([]byte("ffffffffffffffffffffffffffffffff"), "catalog-test")
		require.NoError(t, err)
		claims := jwtx.NewAccessClaims("user-1", "alice", nil, time.Minute, "catalog-test", time.Now())
		token, err := other.Sign(claims)
		require.NoError(t, err)
		require.Equal(t, true, do("Bearer "+token)["anonymous"])
	})
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(identityEcho())

	t.Run("rejects anonymous with 401", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/artists", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
	})

	t.Run("passes authenticated requests", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/v1/artists", nil)
		r = r.WithContext(ContextWithIdentity(r.Context(), Identity{Username: "alice"}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	h := RequireRole("admin")(identityEcho())

	do := func(id *Identity) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/v1/artists", nil)
		if id != nil {
			r = r.WithContext(ContextWithIdentity(r.Context(), *id))
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	t.Run("anonymous gets 401", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, do(nil).Code)
	})

	t.Run("missing role gets 403", func(t *testing.T) {
		w := do(&Identity{Username: "alice", Roles: []string{"listener"}})
		require.Equal(t, http.StatusForbidden, w.Code)

		var body ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, "forbidden", body.Error)
	})

	t.Run("role holder passes", func(t *testing.T) {
		w := do(&Identity{Username: "alice", Roles: []string{"listener", "admin"}})
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestChain(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "handler")
	}), mk("first"), mk("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second", "handler"}, order)
}
