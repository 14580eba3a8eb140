package httpx

import "net/http"

// RequireGroup gates a handler on the caller's group claim. Must run after
// AuthnMiddleware so the group is present in the request context.
func RequireGroup(group string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if groupFromCtx(r.Context()) != group {
				writeGroupError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeGroupError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope"`)
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte("insufficient_scope"))
}
