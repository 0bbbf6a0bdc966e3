// Package replayer sends one request through a host's replay primitive and
// reduces its response to a comparable Outcome. It owns no retry policy and
// mutates nothing — the Solver decides when and how often to replay.
package replayer

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/cookieprobe/cookieprobe/internal/hostapi"
	"github.com/cookieprobe/cookieprobe/internal/model"
)

// Replayer is the interface the Solver depends on, so it can be driven by
// a real host Sender in production or a scripted fake in tests.
type Replayer interface {
	// Replay sends req as-is and reduces the response to an Outcome.
	Replay(ctx context.Context, req hostapi.Request) model.Outcome

	// WithCookies returns a new request carrying exactly the cookies in S
	// (by name), all others stripped. No cookie not in the original
	// request is ever added.
	WithCookies(req hostapi.Request, cookies model.CookieSet) hostapi.Request

	// Digest returns the SHA-256 digest of body bytes.
	Digest(body []byte) [32]byte
}

type replayer struct {
	sender hostapi.Sender
}

// New builds a Replayer around a host Sender.
func New(sender hostapi.Sender) Replayer {
	return &replayer{sender: sender}
}

func (r *replayer) Replay(ctx context.Context, req hostapi.Request) model.Outcome {
	resp, err := r.sender.Send(ctx, req)
	if err != nil {
		return model.Failure(err.Error())
	}
	if resp == nil {
		return model.Failure("empty response")
	}
	body := resp.Body()
	if len(body) == 0 && resp.StatusCode() == 0 {
		return model.Failure("empty body and zero status")
	}
	return model.Outcome{
		Status:  resp.StatusCode(),
		BodyLen: len(body),
		Digest:  r.Digest(body),
	}
}

func (r *replayer) WithCookies(req hostapi.Request, cookies model.CookieSet) hostapi.Request {
	names := make([]string, len(cookies))
	for i, c := range cookies {
		names[i] = c.Name
	}
	return req.WithCookiesOnly(names)
}

func (r *replayer) Digest(body []byte) [32]byte {
	return sha256.Sum256(body)
}

// ErrEmptyResponse is returned by senders that want to signal the
// "upstream returns nothing" failure mode named in spec.md §3.
var ErrEmptyResponse = fmt.Errorf("replayer: empty response")
