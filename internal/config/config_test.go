package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cookieprobe/cookieprobe/internal/config"
)

func clearEnv() {
	for _, k := range []string{
		"COOKIEPROBE_DB_PATH", "COOKIEPROBE_AUTO_PROCESS", "COOKIEPROBE_WORKER_THREADS",
		"COOKIEPROBE_QUERIES_PER_MINUTE", "COOKIEPROBE_DOMAIN_FILTER_MODE",
		"COOKIEPROBE_DOMAIN_FILTER_DOMAINS", "COOKIEPROBE_AI_PROVIDER",
		"COOKIEPROBE_AI_ENDPOINT", "COOKIEPROBE_OPENAI_API_KEY", "COOKIEPROBE_OPENAI_MODEL",
	} {
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv()
	defer clearEnv()

	cfg := config.Load()
	require.Equal(t, 3, cfg.WorkerThreads)
	require.Equal(t, 10, cfg.QueriesPerMin)
	require.False(t, cfg.AutoProcess)
	require.Equal(t, config.DomainFilterAll, cfg.DomainFilter.Mode)
	require.Equal(t, "OpenAI", cfg.AI.Provider)
	require.Equal(t, "gpt-4", cfg.AI.Model)
	require.Contains(t, cfg.StorePath, ".cookieprobe-db")
}

func TestLoad_EnvOverridesAndClamping(t *testing.T) {
	clearEnv()
	defer clearEnv()

	os.Setenv("COOKIEPROBE_WORKER_THREADS", "99")
	os.Setenv("COOKIEPROBE_QUERIES_PER_MINUTE", "0")
	os.Setenv("COOKIEPROBE_AUTO_PROCESS", "true")
	os.Setenv("COOKIEPROBE_DOMAIN_FILTER_MODE", "CUSTOM_LIST")
	os.Setenv("COOKIEPROBE_DOMAIN_FILTER_DOMAINS", "a.com; b.com,  c.com")
	os.Setenv("COOKIEPROBE_DB_PATH", "/tmp/cookieprobe/cookies.db")

	cfg := config.Load()
	require.Equal(t, 10, cfg.WorkerThreads) // clamped to max
	require.Equal(t, 1, cfg.QueriesPerMin)  // clamped to min
	require.True(t, cfg.AutoProcess)
	require.Equal(t, config.DomainFilterCustomList, cfg.DomainFilter.Mode)
	require.Equal(t, []string{"a.com", "b.com", "c.com"}, cfg.DomainFilter.Domains)
	require.Equal(t, "/tmp/cookieprobe/cookies.db", cfg.StorePath)
}

func TestParseDomainList(t *testing.T) {
	require.Equal(t, []string{"x.com", "y.com"}, config.ParseDomainList("x.com;y.com"))
	require.Empty(t, config.ParseDomainList(""))
	require.Empty(t, config.ParseDomainList("   "))
}

type fakePrefs struct {
	strs  map[string]string
	ints  map[string]int
	bools map[string]bool
}

func (f *fakePrefs) GetString(key string) (string, bool) { v, ok := f.strs[key]; return v, ok }
func (f *fakePrefs) GetInt(key string) (int, bool)       { v, ok := f.ints[key]; return v, ok }
func (f *fakePrefs) GetBool(key string) (bool, bool)     { v, ok := f.bools[key]; return v, ok }
func (f *fakePrefs) SetString(key, value string)         { f.strs[key] = value }
func (f *fakePrefs) SetInt(key string, value int)        { f.ints[key] = value }
func (f *fakePrefs) SetBool(key string, value bool)      { f.bools[key] = value }

func TestFromPreferences(t *testing.T) {
	prefs := &fakePrefs{
		strs: map[string]string{
			"cookiedb.path":                "/custom/cookies.db",
			"cookiedb.domainFilter.mode":   "IN_SCOPE",
			"cookiedb.ai.provider":         "Anthropic",
			"cookiedb.openai.model":        "claude-opus",
		},
		ints:  map[string]int{"cookiedb.workerThreads": 7, "cookiedb.queriesPerMinute": 15},
		bools: map[string]bool{"cookiedb.autoProcess": true},
	}

	cfg := config.FromPreferences(prefs)
	require.Equal(t, "/custom/cookies.db", cfg.StorePath)
	require.Equal(t, 7, cfg.WorkerThreads)
	require.Equal(t, 15, cfg.QueriesPerMin)
	require.True(t, cfg.AutoProcess)
	require.Equal(t, config.DomainFilterInScope, cfg.DomainFilter.Mode)
	require.Equal(t, "Anthropic", cfg.AI.Provider)
	require.Equal(t, "claude-opus", cfg.AI.Model)
}
