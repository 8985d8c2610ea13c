package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/mileusna/useragent"

	"github.com/parkwise/parkd/internal/audit"
	"github.com/parkwise/parkd/internal/domain"
)

// Recorder is the slice of the audit engine this middleware needs.
type Recorder interface {
	Record(e audit.Entry)
}

// auditRoute classifies one read-side route worth recording. Mutating
// business operations are recorded by their handlers, which know the
// affected resource; the middleware only covers observation of the audit
// surface itself, where the request is the whole story.
// sensitive marks routes whose responses expose operational data; high
// privilege additionally triggers the warn-level identity snapshot below.
// The two flags are independent: listing events is neither (self-audit
// exclusion already keeps it reviewable via an explicit action filter).
type auditRoute struct {
	method        string
	prefix        string
	action        domain.Action
	message       string
	sensitive     bool
	highPrivilege bool
}

// Longest prefix wins. Order here does not matter.
var auditRoutes = []auditRoute{
	{http.MethodGet, "/api/v1/audit/events", domain.ActionAccessLogs, "audit log listing accessed", false, false},
	{http.MethodDelete, "/api/v1/audit/events", domain.ActionCleanupLogs, "audit log retention sweep requested", true, true},
	{http.MethodGet, "/api/v1/audit/export", domain.ActionExportLogs, "audit log export requested", true, true},
	{http.MethodGet, "/api/v1/audit/critical", domain.ActionViewCritical, "critical event window viewed", true, true},
	{http.MethodGet, "/api/v1/audit/statistics", domain.ActionViewStatistics, "audit statistics viewed", true, false},
	{http.MethodGet, "/api/v1/audit/health", domain.ActionHealthCheck, "audit health checked", true, true},
}

func classify(method, path string) (auditRoute, bool) {
	var best auditRoute
	found := false
	for _, rt := range auditRoutes {
		if rt.method != method || !strings.HasPrefix(path, rt.prefix) {
			continue
		}
		if !found || len(rt.prefix) > len(best.prefix) {
			best = rt
			found = true
		}
	}
	return best, found
}

// AuditCapture records an event for every classified request after the
// response is written, carrying the final status code and elapsed time.
// Requests that match no route pass through untouched.
//
// High-privilege routes get a second warn-level record with a snapshot of
// the acting identity, so access to sensitive surfaces stands out even when
// the request itself succeeded quietly.
func AuditCapture(rec Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, ok := classify(r.Method, r.URL.Path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			var userID string
			if id, ok := UserIDFromContext(r.Context()); ok {
				userID = id.String()
			}

			reqCtx := &domain.RequestContext{
				Method:       r.Method,
				URL:          r.URL.Path,
				StatusCode:   status,
				ResponseTime: elapsed.Milliseconds(),
				IP:           r.RemoteAddr,
				UserAgent:    r.UserAgent(),
				Device:       deviceOf(r.UserAgent()),
			}

			entry := audit.Entry{
				Level:   levelForStatus(status),
				Action:  route.action,
				Message: route.message,
				UserID:  userID,
				Context: reqCtx,
			}
			if route.sensitive {
				entry.Details = &domain.EventDetails{
					Metadata: map[string]any{"sensitive": true},
				}
			}
			rec.Record(entry)

			if route.highPrivilege {
				email, _ := EmailFromContext(r.Context())
				role, _ := RoleFromContext(r.Context())
				rec.Record(audit.Entry{
					Level:   domain.LevelWarn,
					Action:  route.action,
					Message: fmt.Sprintf("high-privilege access: %s", route.message),
					UserID:  userID,
					Details: &domain.EventDetails{
						Metadata: map[string]any{
							"email": email,
							"role":  role,
						},
					},
					Context: reqCtx,
				})
			}
		})
	}
}

func levelForStatus(status int) domain.Level {
	switch {
	case status >= 500:
		return domain.LevelError
	case status >= 400:
		return domain.LevelWarn
	default:
		return domain.LevelInfo
	}
}

func deviceOf(uaString string) string {
	ua := useragent.Parse(uaString)
	switch {
	case ua.Mobile:
		return "mobile"
	case ua.Tablet:
		return "tablet"
	case ua.Desktop:
		return "desktop"
	case ua.Bot:
		return "bot"
	default:
		return "unknown"
	}
}
