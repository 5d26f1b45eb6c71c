package middleware

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"
)

// ConsoleAuth holds optional basic-auth credentials for remote console access.
type ConsoleAuth struct {
	User string
	Pass string
}

// LocalOnly lets loopback clients through. Everyone else needs the configured
// basic-auth credentials; with none configured remote access is refused.
// The console acts with the user's token, so it must not be open by default.
func LocalOnly(cfg ConsoleAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isLoopback(r.RemoteAddr) {
				next.ServeHTTP(w, r)
				return
			}
			u, p, ok := r.BasicAuth()
			if cfg.User == "" || cfg.Pass == "" || !ok || !secureEq(u, cfg.User) || !secureEq(p, cfg.Pass) {
				w.Header().Set("WWW-Authenticate", `Basic realm="parcelbee"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func secureEq(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func isLoopback(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	return ip != nil && ip.IsLoopback()
}
