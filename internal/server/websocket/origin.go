package websocket

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// checkOrigin accepts non-browser clients (no Origin header) and pages
// served from the local machine. Any other site could otherwise read the
// event stream through the user's browser.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return isLoopbackHost(u.Hostname())
}

func isLoopbackHost(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
