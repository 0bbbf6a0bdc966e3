//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

// Package api exposes CookieService over HTTP with echo/v4, the
// development/embedding harness SPEC_FULL.md §6 describes: a real host
// never talks to this package, it talks to internal/service directly, but
// cmd/cookieprobe and integration tests use it to exercise the library
// end-to-end.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cookieprobe/cookieprobe/internal/hostapi"
	"github.com/cookieprobe/cookieprobe/internal/hostapi/stub"
	"github.com/cookieprobe/cookieprobe/internal/model"
)

// CookieServiceAPI is the slice of *service.CookieService this package
// depends on, narrowed to an interface so handler tests can substitute a
// generated mock instead of wiring a real Solver and Pipeline.
type CookieServiceAPI interface {
	Analyze(ctx context.Context, req hostapi.Request, names []string) (*model.Verdict, error)
	GetCookieInfo(ctx context.Context, name, domain string) (model.Descriptor, error)
	GetCookieInfoCached(ctx context.Context, name, domain string) (*model.Descriptor, error)
	UpsertCookieInfo(ctx context.Context, d model.Descriptor) (model.Descriptor, error)
	DeleteCookieInfo(ctx context.Context, name string) error
	ListAll(ctx context.Context) ([]model.Descriptor, error)
	Statistics(ctx context.Context) (map[string]any, error)
	ReplayHistory(ctx context.Context, h hostapi.HistoryProvider, forceRefresh bool) (int, error)
}

// CookieHandler adapts CookieServiceAPI onto echo.Context: a thin struct
// wrapping one service interface, request/response DTOs kept local to
// the file, routes registered via RegisterRoutes(g *echo.Group).
//
// history is optional: the demo binary has no live traffic capture, so it
// leaves history nil and ReplayHistory answers 503. A real host wires its
// own hostapi.HistoryProvider through NewCookieHandler.
type CookieHandler struct {
	service CookieServiceAPI
	history hostapi.HistoryProvider
}

// NewCookieHandler builds a CookieHandler. history may be nil.
func NewCookieHandler(svc CookieServiceAPI, history hostapi.HistoryProvider) *CookieHandler {
	return &CookieHandler{service: svc, history: history}
}

// RegisterRoutes wires every cookieprobe HTTP endpoint onto g.
func (h *CookieHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/cookies/analyze", h.Analyze)
	g.GET("/cookies", h.List)
	g.GET("/cookies/:name", h.Get)
	g.GET("/cookies/:name/cached", h.GetCached)
	g.PUT("/cookies/:name", h.Upsert)
	g.DELETE("/cookies/:name", h.Delete)
	g.GET("/stats", h.Statistics)
	g.POST("/replay-history", h.ReplayHistory)
}

type analyzeRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Cookies map[string]string `json:"cookies"`
	Names   []string          `json:"names"`
}

type analyzeResponse struct {
	RunID        string            `json:"runId"`
	Required     []string          `json:"required"`
	Optional     []string          `json:"optional"`
	RequestsSent int               `json:"requestsSent"`
	BaselineOK   bool              `json:"baselineOk"`
	Unreliable   bool              `json:"unreliable"`
	Details      map[string]string `json:"details"`
}

// Analyze runs the solver over a caller-supplied request template. The
// demo harness builds a stub.Request from the JSON body since a real host
// supplies its own hostapi.Request implementation instead of going
// through HTTP at all.
func (h *CookieHandler) Analyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request")
	}
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	names := req.Names
	if len(names) == 0 {
		for name := range req.Cookies {
			names = append(names, name)
		}
	}

	template := stub.NewRequest(req.Method, req.URL, req.Cookies, nil, nil)
	verdict, err := h.service.Analyze(c.Request().Context(), template, names)
	if err != nil {
		return WriteServiceError(c, err)
	}

	return c.JSON(http.StatusOK, toAnalyzeResponse(verdict))
}

func toAnalyzeResponse(v *model.Verdict) analyzeResponse {
	details := make(map[string]string, len(v.Details))
	for id, text := range v.Details {
		details[Itoa(int64(id))] = text
	}
	return analyzeResponse{
		RunID:        v.RunID.String(),
		Required:     v.Required.Names(),
		Optional:     v.Optional.Names(),
		RequestsSent: v.RequestsSent,
		BaselineOK:   v.BaselineOK,
		Unreliable:   v.IsUnreliable(),
		Details:      details,
	}
}

type descriptorResponse struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Vendor            string   `json:"vendor"`
	Category          string   `json:"category"`
	Purpose           string   `json:"purpose"`
	Privacy           string   `json:"privacy"`
	ThirdParty        bool     `json:"thirdParty"`
	TypicalExpiration string   `json:"typicalExpiration"`
	CommonDomains     []string `json:"commonDomains,omitempty"`
	Notes             string   `json:"notes"`
	Confidence        float64  `json:"confidence"`
	Source            string   `json:"source"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
}

func toDescriptorResponse(d model.Descriptor) descriptorResponse {
	return descriptorResponse{
		ID:                d.ID,
		Name:              d.Name,
		Vendor:            d.Vendor,
		Category:          string(d.Category),
		Purpose:           d.Purpose,
		Privacy:           string(d.Privacy),
		ThirdParty:        d.ThirdParty,
		TypicalExpiration: d.TypicalExpiration,
		CommonDomains:     d.CommonDomains,
		Notes:             d.Notes,
		Confidence:        d.Confidence,
		Source:            string(d.Source),
		CreatedAt:         d.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         d.UpdatedAt.Format(time.RFC3339),
	}
}

// Get implements GET /cookies/:name: cache-first, LM on miss, blocking.
func (h *CookieHandler) Get(c echo.Context) error {
	name := c.Param("name")
	domain := c.QueryParam("domain")

	d, err := h.service.GetCookieInfo(c.Request().Context(), name, domain)
	if err != nil {
		return WriteServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDescriptorResponse(d))
}

// GetCached implements GET /cookies/:name/cached: cache-only, never blocks.
func (h *CookieHandler) GetCached(c echo.Context) error {
	name := c.Param("name")
	domain := c.QueryParam("domain")

	d, err := h.service.GetCookieInfoCached(c.Request().Context(), name, domain)
	if err != nil {
		return WriteServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDescriptorResponse(*d))
}

type upsertCookieRequest struct {
	Vendor            string   `json:"vendor"`
	Category          string   `json:"category"`
	Purpose           string   `json:"purpose"`
	Privacy           string   `json:"privacy"`
	ThirdParty        bool     `json:"thirdParty"`
	TypicalExpiration string   `json:"typicalExpiration"`
	CommonDomains     []string `json:"commonDomains"`
	Notes             string   `json:"notes"`
	Confidence        float64  `json:"confidence"`
}

// Upsert implements PUT /cookies/:name.
func (h *CookieHandler) Upsert(c echo.Context) error {
	name := c.Param("name")
	var req upsertCookieRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request")
	}

	d := model.Descriptor{
		Name:              name,
		Vendor:            req.Vendor,
		Category:          model.Category(req.Category),
		Purpose:           req.Purpose,
		Privacy:           model.PrivacyLevel(req.Privacy),
		ThirdParty:        req.ThirdParty,
		TypicalExpiration: req.TypicalExpiration,
		CommonDomains:     req.CommonDomains,
		Notes:             req.Notes,
		Confidence:        req.Confidence,
	}

	stored, err := h.service.UpsertCookieInfo(c.Request().Context(), d)
	if err != nil {
		return WriteServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toDescriptorResponse(stored))
}

// Delete implements DELETE /cookies/:name.
func (h *CookieHandler) Delete(c echo.Context) error {
	name := c.Param("name")
	if err := h.service.DeleteCookieInfo(c.Request().Context(), name); err != nil {
		return WriteServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List implements GET /cookies.
func (h *CookieHandler) List(c echo.Context) error {
	all, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return WriteServiceError(c, err)
	}
	out := make([]descriptorResponse, 0, len(all))
	for _, d := range all {
		out = append(out, toDescriptorResponse(d))
	}
	return c.JSON(http.StatusOK, out)
}

// Statistics implements GET /stats.
func (h *CookieHandler) Statistics(c echo.Context) error {
	stats, err := h.service.Statistics(c.Request().Context())
	if err != nil {
		return WriteServiceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

type replayHistoryRequest struct {
	ForceRefresh bool `json:"forceRefresh"`
}

type replayHistoryResponse struct {
	Enqueued int `json:"enqueued"`
}

// ReplayHistory implements POST /replay-history, draining the host's
// captured traffic history through the pipeline's manual bulk path.
func (h *CookieHandler) ReplayHistory(c echo.Context) error {
	if h.history == nil {
		return Error(c, http.StatusServiceUnavailable, "no traffic history source configured")
	}
	var req replayHistoryRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request")
	}

	n, err := h.service.ReplayHistory(c.Request().Context(), h.history, req.ForceRefresh)
	if err != nil {
		return WriteServiceError(c, err)
	}
	return c.JSON(http.StatusOK, replayHistoryResponse{Enqueued: n})
}
