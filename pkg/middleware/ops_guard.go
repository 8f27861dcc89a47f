package middleware

import (
	"crypto/subtle"
	"net"
	"net/http"
	"net/netip"
	"slices"
	"strings"
	"unicode"

	"github.com/gorilla/mux"

	"github.com/granempresa/erp-portal/pkg/configuration"
	"github.com/granempresa/erp-portal/pkg/httpapi"
	"github.com/granempresa/erp-portal/pkg/routing"
)

const healthPrefix = "/health"

// opsCheck admits a request to an ops route.
type opsCheck func(r *http.Request) bool

// OpsGuard keeps ops routes private in production. Callers inside
// OPS_GUARD_CIDRS or presenting OPS_GUARD_TOKEN pass through. Anyone else gets
// a bare liveness answer on GET /health, so the backend fan-out only runs for
// operators, and a JSON 404 on every other ops route.
func OpsGuard(conf *configuration.Configuration) mux.MiddlewareFunc {
	if conf == nil {
		conf = configuration.Use()
	}
	if conf.GoAppEnvironment != configuration.Production || !conf.OpsGuardEnabled {
		return func(next http.Handler) http.Handler { return next }
	}

	classifier := routing.NewClassifier(routing.LoadOrDefault("", "server"))
	checks := opsChecks(conf)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := classifier.Route(r.URL.Path)
			if route.Class != routing.RouteClassOps || slices.ContainsFunc(checks, func(ok opsCheck) bool { return ok(r) }) {
				next.ServeHTTP(w, r)
				return
			}
			if route.Prefix == healthPrefix && r.Method == http.MethodGet {
				w.Header().Set("Cache-Control", "no-store")
				_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
				return
			}
			_ = httpapi.WriteError(w, http.StatusNotFound, httpapi.CodeNotFound, "not found", map[string]string{
				"path": r.URL.Path,
			})
		})
	}
}

func opsChecks(conf *configuration.Configuration) []opsCheck {
	var checks []opsCheck
	if nets := parseOpsNetworks(conf.OpsGuardCIDRs); len(nets) > 0 {
		header := conf.RealIPHeader
		checks = append(checks, func(r *http.Request) bool {
			addr, err := netip.ParseAddr(realIP(r, header))
			if err != nil {
				return false
			}
			addr = addr.Unmap()
			return slices.ContainsFunc(nets, func(p netip.Prefix) bool { return p.Contains(addr) })
		})
	}
	if token := strings.TrimSpace(conf.OpsGuardToken); token != "" {
		checks = append(checks, func(r *http.Request) bool {
			return subtle.ConstantTimeCompare([]byte(opsToken(r)), []byte(token)) == 1
		})
	}
	return checks
}

// parseOpsNetworks reads a comma or space separated list of CIDRs and bare
// addresses. Entries that parse as neither are ignored.
func parseOpsNetworks(raw string) []netip.Prefix {
	var out []netip.Prefix
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' || unicode.IsSpace(r) }) {
		if p, err := netip.ParsePrefix(part); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(part); err == nil {
			addr = addr.Unmap()
			out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return out
}

func opsToken(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get("X-Ops-Token")); t != "" {
		return t
	}
	const bearer = "bearer "
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > len(bearer) && strings.EqualFold(auth[:len(bearer)], bearer) {
		return strings.TrimSpace(auth[len(bearer):])
	}
	return ""
}

// realIP returns the first address of header (X-Forwarded-For style lists
// included) or, without it, the host part of RemoteAddr.
func realIP(r *http.Request, header string) string {
	var v string
	if header != "" {
		v, _, _ = strings.Cut(r.Header.Get(header), ",")
		v = strings.TrimSpace(v)
	}
	if v == "" {
		v = strings.TrimSpace(r.RemoteAddr)
	}
	if host, _, err := net.SplitHostPort(v); err == nil {
		return host
	}
	return v
}
