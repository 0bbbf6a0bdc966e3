// Package stub provides minimal, in-memory implementations of the hostapi
// interfaces, used by cmd/cookieprobe to run standalone without a real
// interactive-proxy host, and by tests that need a concrete Request without
// pulling in a specific host SDK.
package stub

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/cookieprobe/cookieprobe/internal/hostapi"
)

// Request is a minimal hostapi.Request backed by a method/URL pair plus
// the full set of cookies captured on the original request.
type Request struct {
	HTTPMethod  string
	TargetURL   string
	HostHeader  string
	AllCookies  map[string]string // name -> value, the original captured set
	ActiveNames []string          // the subset currently carried, in order
	Headers     http.Header
	BodyBytes   []byte
}

// NewRequest captures a request template with its full original cookie set.
func NewRequest(method, url string, cookies map[string]string, headers http.Header, body []byte) *Request {
	names := make([]string, 0, len(cookies))
	for n := range cookies {
		names = append(names, n)
	}
	sort.Strings(names)
	if headers == nil {
		headers = http.Header{}
	}
	return &Request{
		HTTPMethod:  method,
		TargetURL:   url,
		AllCookies:  cookies,
		ActiveNames: names,
		Headers:     headers.Clone(),
		BodyBytes:   body,
	}
}

func (r *Request) WithCookiesOnly(names []string) hostapi.Request {
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := r.AllCookies[n]; ok {
			kept = append(kept, n)
		}
	}
	return &Request{
		HTTPMethod:  r.HTTPMethod,
		TargetURL:   r.TargetURL,
		HostHeader:  r.HostHeader,
		AllCookies:  r.AllCookies,
		ActiveNames: kept,
		Headers:     r.Headers.Clone(),
		BodyBytes:   r.BodyBytes,
	}
}

func (r *Request) Cookies() []string { return append([]string(nil), r.ActiveNames...) }

func (r *Request) Host() string {
	if r.HostHeader != "" {
		return r.HostHeader
	}
	if h := r.Headers.Get("Host"); h != "" {
		return h
	}
	if u, err := url.Parse(r.TargetURL); err == nil {
		return u.Hostname()
	}
	return ""
}

// Method returns the HTTP method, satisfying replayer.DirectSender's
// optional directRequest interface.
func (r *Request) Method() string { return r.HTTPMethod }

// URL returns the destination URL, satisfying replayer.DirectSender's
// optional directRequest interface.
func (r *Request) URL() string { return r.TargetURL }

// CookieHeader renders the active cookie subset as a single "Cookie:"
// header value, satisfying replayer.DirectSender's optional directRequest
// interface.
func (r *Request) CookieHeader() string {
	var b strings.Builder
	for i, name := range r.ActiveNames {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s=%s", name, r.AllCookies[name])
	}
	return b.String()
}

func (r *Request) Render() string {
	return fmt.Sprintf("%s %s\nCookie: %s\n", r.HTTPMethod, r.TargetURL, r.CookieHeader())
}

// MemoryPersister is an in-memory hostapi.Persister for callers that run
// without a host-provided store.
type MemoryPersister struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{data: make(map[string]string)}
}

func (p *MemoryPersister) Persist(_ context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = value
	return nil
}

func (p *MemoryPersister) Load(_ context.Context, key string) (string, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.data[key]
	return v, ok, nil
}

// AllScope is a ScopeChecker that treats every URL as in-scope.
type AllScope struct{}

func (AllScope) IsInScope(string) bool { return true }

// Response is a minimal hostapi.Response backed by plain fields, used by
// tests that need a concrete response without a real host proxy in the
// loop.
type Response struct {
	Status     int
	BodyBytes  []byte
	SetCookies []string
}

func (r *Response) StatusCode() int            { return r.Status }
func (r *Response) Body() []byte               { return r.BodyBytes }
func (r *Response) SetCookieHeaders() []string { return r.SetCookies }
