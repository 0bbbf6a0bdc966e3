package replayer

import (
	"context"
	"fmt"
	"time"

	"github.com/Noooste/azuretls-client"

	"github.com/cookieprobe/cookieprobe/internal/hostapi"
)

// DirectSender replays requests over a real socket using a
// browser-fingerprinted azuretls session, for standalone operation (the
// cmd/cookieprobe demo binary) and for integration tests that want a real
// upstream without a host proxy in the loop. It never reads the process's
// HTTP_PROXY environment, so it cannot recursively loop back through a host
// proxy even if one happens to be configured system-wide.
type DirectSender struct {
	session        *azuretls.Session
	connectTimeout time.Duration
}

// NewDirectSender builds a DirectSender with the given connect timeout; a
// zero timeout defaults to 10 seconds, matching the Replayer's "short
// connect timeout" contract from spec.md §4.1.
func NewDirectSender(connectTimeout time.Duration) *DirectSender {
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	session := azuretls.NewSession()
	session.Browser = azuretls.Chrome
	session.SetTimeout(connectTimeout)
	return &DirectSender{session: session, connectTimeout: connectTimeout}
}

// directRequest adapts a hostapi.Request to the azuretls call; production
// hosts supply their own hostapi.Request/Sender pair instead.
type directRequest interface {
	hostapi.Request
	Method() string
	URL() string
	CookieHeader() string
}

func (s *DirectSender) Send(ctx context.Context, req hostapi.Request) (hostapi.Response, error) {
	dr, ok := req.(directRequest)
	if !ok {
		return nil, fmt.Errorf("replayer: DirectSender requires a request exposing Method()/URL()/CookieHeader(), got %T", req)
	}

	headers := azuretls.OrderedHeaders{}
	if cookie := dr.CookieHeader(); cookie != "" {
		headers = append(headers, []string{"Cookie", cookie})
	}

	resp, err := s.session.Do(&azuretls.Request{
		Method:         dr.Method(),
		Url:            dr.URL(),
		OrderedHeaders: headers,
	})
	if err != nil {
		return nil, fmt.Errorf("azuretls send: %w", err)
	}

	var setCookies []string
	if resp.Header != nil {
		setCookies = resp.Header.Values("Set-Cookie")
	}

	return &directResponse{status: resp.StatusCode, body: resp.Body, setCookies: setCookies}, nil
}

// Close releases the underlying azuretls session.
func (s *DirectSender) Close() {
	s.session.Close()
}

type directResponse struct {
	status     int
	body       []byte
	setCookies []string
}

func (r *directResponse) StatusCode() int            { return r.status }
func (r *directResponse) Body() []byte               { return r.body }
func (r *directResponse) SetCookieHeaders() []string { return r.setCookies }
