package classifier

import (
	"strings"

	"github.com/cookieprobe/cookieprobe/internal/config"
	"github.com/cookieprobe/cookieprobe/internal/hostapi"
	"github.com/cookieprobe/cookieprobe/internal/model"
	"github.com/cookieprobe/cookieprobe/pkg/logger"
)

// AutoProcessor is the classifier's passive hook (spec.md §4.3): it turns
// host callbacks "request-about-to-be-sent" and "response-received" into
// Auto-priority Tasks, gated by a domain filter snapshotted at
// construction. Every entry point returns immediately; the actual Submit
// happens inline because Queue.Submit itself never blocks (bounded channel,
// non-blocking overflow drop), matching the "MUST return immediately" hard
// requirement without needing its own dispatch goroutine per call.
type AutoProcessor struct {
	submit func(model.Task) bool
	scope  hostapi.ScopeChecker
	filter config.DomainFilter
}

// NewAutoProcessor builds an AutoProcessor. submit is typically
// (*Queue).Submit; scope is used only when filter.Mode is IN_SCOPE.
func NewAutoProcessor(submit func(model.Task) bool, scope hostapi.ScopeChecker, filter config.DomainFilter) *AutoProcessor {
	return &AutoProcessor{submit: submit, scope: scope, filter: filter}
}

// OnRequestSent implements the "request-about-to-be-sent" callback: every
// cookie name already carried by req becomes an Auto task for req.Host().
func (a *AutoProcessor) OnRequestSent(req hostapi.Request) {
	host := req.Host()
	if !a.domainAllowed(host) {
		return
	}
	for _, name := range req.Cookies() {
		a.enqueue(name, host)
	}
}

// OnResponseReceived implements the "response-received" callback: every
// Set-Cookie header on resp yields one cookie name for host.
func (a *AutoProcessor) OnResponseReceived(host string, resp hostapi.Response) {
	if !a.domainAllowed(host) {
		return
	}
	for _, raw := range resp.SetCookieHeaders() {
		for _, name := range parseSetCookieNames(raw) {
			a.enqueue(name, host)
		}
	}
}

func (a *AutoProcessor) enqueue(name, host string) {
	if name == "" {
		return
	}
	ok := a.submit(model.Task{CookieName: name, Domain: host, Priority: model.PriorityAuto})
	if !ok {
		logger.Debug("classifier: auto-processor submission dropped (dedup or overflow)", "cookie", name, "domain", host)
	}
}

// domainAllowed applies the three-mode domain filter from spec.md §6.
func (a *AutoProcessor) domainAllowed(host string) bool {
	switch a.filter.Mode {
	case config.DomainFilterInScope:
		if a.scope == nil {
			return false
		}
		return a.scope.IsInScope(host)
	case config.DomainFilterCustomList:
		for _, d := range a.filter.Domains {
			if domainMatches(host, d) {
				return true
			}
		}
		return false
	case config.DomainFilterAll:
		fallthrough
	default:
		return true
	}
}

// domainMatches implements spec.md §4.3's "exact match or suffix match on
// either direction": host matches the filter entry if they're equal, or
// one is a dot-boundary suffix of the other, never a mid-label match —
// "evil-example.com" must not match "example.com". Two unrelated
// subdomains of a shared registrable domain (e.g. "accounts.example.com"
// and "shop.example.com") do NOT match unless one is listed directly.
func domainMatches(host, entry string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	entry = strings.ToLower(strings.TrimSpace(entry))
	if host == "" || entry == "" {
		return false
	}
	if host == entry {
		return true
	}
	if strings.HasSuffix(host, "."+entry) {
		return true
	}
	if strings.HasSuffix(entry, "."+host) {
		return true
	}
	return false
}

// parseSetCookieNames extracts cookie names from a single raw Set-Cookie
// header value. The parser splits on newlines (spec.md §9's open question:
// "whether to accept RFC-6265 line folding is left to implementers" — this
// implementation does NOT unfold continuation lines, treating each newline
// as a header boundary, since a compliant host callback delivers one Set-
// Cookie occurrence per call and folding would already have been resolved
// by the host's own HTTP parser). A name is rejected if it is empty or
// contains a space or semicolon, per spec.md §4.3.
func parseSetCookieNames(raw string) []string {
	var names []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			continue
		}
		name := line[:eq]
		if strings.ContainsAny(name, " ;") {
			continue
		}
		names = append(names, name)
	}
	return names
}

// ReplayHistory implements the manual bulk operation replay_history(force_
// refresh) (spec.md §4.3): it scans the host's persisted traffic history
// and enqueues every cookie name with Manual priority. force_refresh is
// forwarded onto every resulting Task so the worker bypasses its Store
// check. It returns the number of tasks newly enqueued (dedup/overflow
// excluded).
func ReplayHistory(history []hostapi.HistoryEntry, submit func(model.Task) bool, forceRefresh bool) int {
	n := 0
	for _, entry := range history {
		if entry.Request == nil {
			continue
		}
		host := entry.Request.Host()
		for _, name := range entry.Request.Cookies() {
			if submit(model.Task{CookieName: name, Domain: host, Priority: model.PriorityManual, ForceRefresh: forceRefresh}) {
				n++
			}
		}
		if entry.Response == nil {
			continue
		}
		for _, raw := range entry.Response.SetCookieHeaders() {
			for _, name := range parseSetCookieNames(raw) {
				if submit(model.Task{CookieName: name, Domain: host, Priority: model.PriorityManual, ForceRefresh: forceRefresh}) {
					n++
				}
			}
		}
	}
	return n
}
