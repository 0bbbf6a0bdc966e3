package classifier_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cookieprobe/cookieprobe/internal/classifier"
	"github.com/cookieprobe/cookieprobe/internal/config"
	"github.com/cookieprobe/cookieprobe/internal/hostapi"
	"github.com/cookieprobe/cookieprobe/internal/hostapi/stub"
	"github.com/cookieprobe/cookieprobe/internal/model"
)

func testConfig() config.ClassifierConfig {
	return config.ClassifierConfig{
		WorkerThreads: 2,
		QueriesPerMin: 60,
		DomainFilter:  config.DomainFilter{Mode: config.DomainFilterAll},
	}
}

func TestPipeline_GetCookieInfoCached_MissReturnsNil(t *testing.T) {
	store := newFakeStore()
	p := classifier.NewPipeline(testConfig(), store, &stubProvider{}, stub.AllScope{})

	d, err := p.GetCookieInfoCached(context.Background(), "sid", "example.com")
	require.NoError(t, err)
	require.Nil(t, d)
}

func TestPipeline_GetCookieInfo_CacheHitSkipsLM(t *testing.T) {
	store := newFakeStore()
	_, _ = store.UpsertDescriptor(context.Background(), model.Descriptor{Name: "_ga"})
	p := classifier.NewPipeline(testConfig(), store, &raisingProvider{t: t}, stub.AllScope{})

	d, err := p.GetCookieInfo(context.Background(), "_ga", "example.com")
	require.NoError(t, err)
	require.Equal(t, "_ga", d.Name)
}

func TestPipeline_GetCookieInfo_CacheMissCallsLMAndPersists(t *testing.T) {
	store := newFakeStore()
	provider := &stubProvider{}
	p := classifier.NewPipeline(testConfig(), store, provider, stub.AllScope{})

	d, err := p.GetCookieInfo(context.Background(), "sid", "example.com")
	require.NoError(t, err)
	require.Equal(t, "sid", d.Name)
	require.Equal(t, 1, provider.callCount())

	cached, err := p.GetCookieInfoCached(context.Background(), "sid", "example.com")
	require.NoError(t, err)
	require.NotNil(t, cached)
}

func TestPipeline_UpsertDeleteListAll(t *testing.T) {
	store := newFakeStore()
	p := classifier.NewPipeline(testConfig(), store, &stubProvider{}, stub.AllScope{})
	ctx := context.Background()

	stored, err := p.UpsertCookieInfo(ctx, model.Descriptor{Name: "csrftoken", Category: model.CategorySecurity})
	require.NoError(t, err)
	require.Equal(t, model.SourceManual, stored.Source)

	all, err := p.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, p.DeleteCookieInfo(ctx, "csrftoken"))
	all, err = p.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestPipeline_Statistics_MergesStoreAndCounters(t *testing.T) {
	store := newFakeStore()
	p := classifier.NewPipeline(testConfig(), store, &stubProvider{}, stub.AllScope{})

	_, err := p.GetCookieInfo(context.Background(), "sid", "example.com")
	require.NoError(t, err)

	stats, err := p.Statistics(context.Background())
	require.NoError(t, err)
	require.Contains(t, stats, "processed")
	require.Contains(t, stats, "total_cookies")
}

func TestPipeline_StartStopDrivesSubmittedTasks(t *testing.T) {
	store := newFakeStore()
	provider := &stubProvider{}
	p := classifier.NewPipeline(testConfig(), store, provider, stub.AllScope{})

	p.Start()
	defer p.Stop()

	require.True(t, p.Submit("_ga", "example.com"))

	require.Eventually(t, func() bool {
		d, _ := p.GetCookieInfoCached(context.Background(), "_ga", "example.com")
		return d != nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPipeline_ReplayHistory(t *testing.T) {
	store := newFakeStore()
	provider := &stubProvider{}
	p := classifier.NewPipeline(testConfig(), store, provider, stub.AllScope{})
	p.Start()
	defer p.Stop()

	history := &fakeHistoryProvider{
		entries: []hostapi.HistoryEntry{
			{Request: newReq("example.com", map[string]string{"sid": "1"})},
		},
	}

	n, err := p.ReplayHistory(context.Background(), history, true)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

type fakeHistoryProvider struct {
	entries []hostapi.HistoryEntry
}

func (f *fakeHistoryProvider) History(context.Context) ([]hostapi.HistoryEntry, error) {
	return f.entries, nil
}
