package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cookieprobe/cookieprobe/internal/api"
	"github.com/cookieprobe/cookieprobe/internal/api/mock"
	"github.com/cookieprobe/cookieprobe/internal/model"
	"github.com/cookieprobe/cookieprobe/internal/service"
)

func TestCookieHandler_Analyze_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock.NewMockCookieServiceAPI(ctrl)
	h := api.NewCookieHandler(mockService, nil)

	e := newTestEcho()
	body := map[string]interface{}{
		"method":  "GET",
		"url":     "https://example.com/",
		"cookies": map[string]string{"sid": "abc"},
		"names":   []string{"sid"},
	}
	req := newJSONRequest(http.MethodPost, "/cookies/analyze", body)
	c, rec := newTestContext(e, req)

	verdict := model.NewVerdict(uuid.New())
	verdict.BaselineOK = true
	verdict.RequestsSent = 2

	mockService.EXPECT().
		Analyze(gomock.Any(), gomock.Any(), []string{"sid"}).
		Return(verdict, nil)

	err := h.Analyze(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCookieHandler_Analyze_InvalidBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock.NewMockCookieServiceAPI(ctrl)
	h := api.NewCookieHandler(mockService, nil)

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/cookies/analyze", newBody(`{"names":`))
	req.Header.Set("Content-Type", "application/json")
	c, rec := newTestContext(e, req)

	err := h.Analyze(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCookieHandler_Analyze_RejectedByService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock.NewMockCookieServiceAPI(ctrl)
	h := api.NewCookieHandler(mockService, nil)

	e := newTestEcho()
	body := map[string]interface{}{"names": []string{"sid"}}
	req := newJSONRequest(http.MethodPost, "/cookies/analyze", body)
	c, rec := newTestContext(e, req)

	mockService.EXPECT().
		Analyze(gomock.Any(), gomock.Any(), []string{"sid"}).
		Return(nil, service.ErrInvalidRequest)

	err := h.Analyze(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCookieHandler_Get_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock.NewMockCookieServiceAPI(ctrl)
	h := api.NewCookieHandler(mockService, nil)

	e := newTestEcho()
	req := newJSONRequest(http.MethodGet, "/cookies/sid", nil)
	c, rec := newTestContext(e, req)
	setPathParams(c, map[string]string{"name": "sid"})

	mockService.EXPECT().
		GetCookieInfo(gomock.Any(), "sid", "").
		Return(model.Descriptor{Name: "sid", Category: model.CategoryEssential}, nil)

	err := h.Get(c)
	require.NoError(t, err)

	var resp map[string]any
	assertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Equal(t, "sid", resp["name"])
}

func TestCookieHandler_GetCached_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock.NewMockCookieServiceAPI(ctrl)
	h := api.NewCookieHandler(mockService, nil)

	e := newTestEcho()
	req := newJSONRequest(http.MethodGet, "/cookies/missing/cached", nil)
	c, rec := newTestContext(e, req)
	setPathParams(c, map[string]string{"name": "missing"})

	mockService.EXPECT().
		GetCookieInfoCached(gomock.Any(), "missing", "").
		Return(nil, service.ErrNotFound)

	err := h.GetCached(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCookieHandler_Upsert_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock.NewMockCookieServiceAPI(ctrl)
	h := api.NewCookieHandler(mockService, nil)

	e := newTestEcho()
	body := map[string]interface{}{"vendor": "acme", "category": "Essential"}
	req := newJSONRequest(http.MethodPut, "/cookies/sid", body)
	c, rec := newTestContext(e, req)
	setPathParams(c, map[string]string{"name": "sid"})

	mockService.EXPECT().
		UpsertCookieInfo(gomock.Any(), gomock.Any()).
		Return(model.Descriptor{Name: "sid", Vendor: "acme", Category: model.CategoryEssential}, nil)

	err := h.Upsert(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCookieHandler_Delete_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock.NewMockCookieServiceAPI(ctrl)
	h := api.NewCookieHandler(mockService, nil)

	e := newTestEcho()
	req := newJSONRequest(http.MethodDelete, "/cookies/sid", nil)
	c, rec := newTestContext(e, req)
	setPathParams(c, map[string]string{"name": "sid"})

	mockService.EXPECT().DeleteCookieInfo(gomock.Any(), "sid").Return(nil)

	err := h.Delete(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCookieHandler_List_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock.NewMockCookieServiceAPI(ctrl)
	h := api.NewCookieHandler(mockService, nil)

	e := newTestEcho()
	req := newJSONRequest(http.MethodGet, "/cookies", nil)
	c, rec := newTestContext(e, req)

	mockService.EXPECT().ListAll(gomock.Any()).Return([]model.Descriptor{
		{Name: "sid"}, {Name: "_ga"},
	}, nil)

	err := h.List(c)
	require.NoError(t, err)

	var resp []map[string]any
	assertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Len(t, resp, 2)
}

func TestCookieHandler_Statistics_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock.NewMockCookieServiceAPI(ctrl)
	h := api.NewCookieHandler(mockService, nil)

	e := newTestEcho()
	req := newJSONRequest(http.MethodGet, "/stats", nil)
	c, rec := newTestContext(e, req)

	mockService.EXPECT().Statistics(gomock.Any()).Return(map[string]any{"total_cookies": 3}, nil)

	err := h.Statistics(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCookieHandler_ReplayHistory_NoHistoryConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock.NewMockCookieServiceAPI(ctrl)
	h := api.NewCookieHandler(mockService, nil)

	e := newTestEcho()
	req := newJSONRequest(http.MethodPost, "/replay-history", map[string]interface{}{})
	c, rec := newTestContext(e, req)

	err := h.ReplayHistory(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
