// Package service exposes cookieprobe's core interfaces as a single
// facade wrapping a solver and a classification pipeline behind one
// type, the way a thin service layer wraps a repository and an HTTP
// client behind one entry point.
package service

import (
	"context"
	"fmt"

	"github.com/cookieprobe/cookieprobe/internal/classifier"
	"github.com/cookieprobe/cookieprobe/internal/hostapi"
	"github.com/cookieprobe/cookieprobe/internal/model"
	"github.com/cookieprobe/cookieprobe/internal/solver"
)

// CookieService composes a Solver and a classifier Pipeline behind the
// operation set spec.md §6 names: Analyze, GetCookieInfo,
// GetCookieInfoCached, UpsertCookieInfo, DeleteCookieInfo, ListAll,
// Statistics.
type CookieService struct {
	solver   *solver.Solver
	pipeline *classifier.Pipeline
}

// New builds a CookieService from an already-wired Solver and Pipeline.
func New(s *solver.Solver, p *classifier.Pipeline) *CookieService {
	return &CookieService{solver: s, pipeline: p}
}

// Analyze runs the minimal-cookie-set algorithm over req and names,
// resolving each name to a Cookie handle carrying req.Host() as its
// domain, then returns the Solver's verdict.
func (svc *CookieService) Analyze(ctx context.Context, req hostapi.Request, names []string) (*model.Verdict, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty cookie set", ErrInvalidRequest)
	}

	host := req.Host()
	cookies := make(model.CookieSet, len(names))
	for i, name := range names {
		cookies[i] = model.NewCookie(i, name, "", host)
	}

	verdict := svc.solver.Analyze(ctx, req, cookies)
	if verdict.Failed {
		return verdict, fmt.Errorf("%w: baseline replay did not succeed", ErrAnalysisFailed)
	}
	return verdict, nil
}

// GetCookieInfo implements spec.md §6's get_cookie_info: cache-first,
// blocking LM fallback on miss.
func (svc *CookieService) GetCookieInfo(ctx context.Context, name, domain string) (model.Descriptor, error) {
	if name == "" {
		return model.Descriptor{}, fmt.Errorf("%w: empty cookie name", ErrInvalidRequest)
	}
	return svc.pipeline.GetCookieInfo(ctx, name, domain)
}

// GetCookieInfoCached implements spec.md §6's get_cookie_info_cached:
// cache-only, never blocks.
func (svc *CookieService) GetCookieInfoCached(ctx context.Context, name, domain string) (*model.Descriptor, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty cookie name", ErrInvalidRequest)
	}
	d, err := svc.pipeline.GetCookieInfoCached(ctx, name, domain)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

// UpsertCookieInfo implements spec.md §6's upsert_cookie_info.
func (svc *CookieService) UpsertCookieInfo(ctx context.Context, d model.Descriptor) (model.Descriptor, error) {
	if d.Name == "" {
		return model.Descriptor{}, fmt.Errorf("%w: empty cookie name", ErrInvalidRequest)
	}
	return svc.pipeline.UpsertCookieInfo(ctx, d)
}

// DeleteCookieInfo implements spec.md §6's delete_cookie_info.
func (svc *CookieService) DeleteCookieInfo(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty cookie name", ErrInvalidRequest)
	}
	return svc.pipeline.DeleteCookieInfo(ctx, name)
}

// ListAll implements spec.md §6's list_all.
func (svc *CookieService) ListAll(ctx context.Context) ([]model.Descriptor, error) {
	return svc.pipeline.ListAll(ctx)
}

// Statistics implements spec.md §6's statistics.
func (svc *CookieService) Statistics(ctx context.Context) (map[string]any, error) {
	return svc.pipeline.Statistics(ctx)
}

// ReplayHistory implements spec.md §4.3's manual bulk operation
// replay_history(force_refresh).
func (svc *CookieService) ReplayHistory(ctx context.Context, h hostapi.HistoryProvider, forceRefresh bool) (int, error) {
	return svc.pipeline.ReplayHistory(ctx, h, forceRefresh)
}

// AutoProcessor exposes the underlying pipeline's passive hook, so a host
// can wire OnRequestSent/OnResponseReceived to its own capture callbacks.
func (svc *CookieService) AutoProcessor() *classifier.AutoProcessor {
	return svc.pipeline.AutoProcessor()
}

// Start launches the classifier pipeline's worker pool.
func (svc *CookieService) Start() { svc.pipeline.Start() }

// Stop shuts the classifier pipeline down.
func (svc *CookieService) Stop() { svc.pipeline.Stop() }
