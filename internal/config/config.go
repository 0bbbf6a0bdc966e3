// Package config loads cookieprobe's settings, either from the process
// environment (the cmd/cookieprobe demo harness) or from a host's
// hostapi.Preferences (when embedded in an interactive-proxy extension).
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cookieprobe/cookieprobe/internal/hostapi"
)

// DomainFilterMode selects how the passive auto-processor gates submissions.
type DomainFilterMode string

const (
	DomainFilterAll        DomainFilterMode = "ALL"
	DomainFilterInScope    DomainFilterMode = "IN_SCOPE"
	DomainFilterCustomList DomainFilterMode = "CUSTOM_LIST"
)

// AIConfig configures the LM Client: which profile to speak, where to send
// requests, and how to authenticate.
type AIConfig struct {
	Provider string // profile selector, e.g. "OpenAI" or "Anthropic"
	Endpoint string
	APIKey   string
	Model    string
}

// DomainFilter configures the passive auto-processor's submission gate.
type DomainFilter struct {
	Mode    DomainFilterMode
	Domains []string // parsed from a comma/semicolon/space list
}

// ClassifierConfig is the full configuration surface for the classifier
// pipeline, spec.md §6's configuration table.
type ClassifierConfig struct {
	StorePath       string
	AutoProcess     bool
	WorkerThreads   int
	QueriesPerMin   int
	DomainFilter    DomainFilter
	AI              AIConfig
}

const (
	minWorkers = 1
	maxWorkers = 10
	defWorkers = 3

	minQPM = 1
	maxQPM = 60
	defQPM = 10
)

// Load reads configuration from environment variables, for standalone
// operation (cmd/cookieprobe): os.Getenv with filepath.Clean'd defaults,
// no external config library.
func Load() ClassifierConfig {
	storePath := os.Getenv("COOKIEPROBE_DB_PATH")
	if storePath == "" {
		storePath = defaultStorePath()
	}

	return ClassifierConfig{
		StorePath:     filepath.Clean(storePath),
		AutoProcess:   envBool("COOKIEPROBE_AUTO_PROCESS", false),
		WorkerThreads: clamp(envInt("COOKIEPROBE_WORKER_THREADS", defWorkers), minWorkers, maxWorkers),
		QueriesPerMin: clamp(envInt("COOKIEPROBE_QUERIES_PER_MINUTE", defQPM), minQPM, maxQPM),
		DomainFilter: DomainFilter{
			Mode:    DomainFilterMode(envOr("COOKIEPROBE_DOMAIN_FILTER_MODE", string(DomainFilterAll))),
			Domains: ParseDomainList(os.Getenv("COOKIEPROBE_DOMAIN_FILTER_DOMAINS")),
		},
		AI: AIConfig{
			Provider: envOr("COOKIEPROBE_AI_PROVIDER", "OpenAI"),
			Endpoint: os.Getenv("COOKIEPROBE_AI_ENDPOINT"),
			APIKey:   os.Getenv("COOKIEPROBE_OPENAI_API_KEY"),
			Model:    envOr("COOKIEPROBE_OPENAI_MODEL", "gpt-4"),
		},
	}
}

// FromPreferences reads the same keys from a host's hostapi.Preferences,
// using spec.md §6's dotted key names verbatim, for the embedded case.
func FromPreferences(p hostapi.Preferences) ClassifierConfig {
	storePath, ok := p.GetString("cookiedb.path")
	if !ok || storePath == "" {
		storePath = defaultStorePath()
	}

	autoProcess, _ := p.GetBool("cookiedb.autoProcess")

	workers, ok := p.GetInt("cookiedb.workerThreads")
	if !ok {
		workers = defWorkers
	}

	qpm, ok := p.GetInt("cookiedb.queriesPerMinute")
	if !ok {
		qpm = defQPM
	}

	mode, ok := p.GetString("cookiedb.domainFilter.mode")
	if !ok || mode == "" {
		mode = string(DomainFilterAll)
	}

	domains, _ := p.GetString("cookiedb.domainFilter.domains")

	provider, ok := p.GetString("cookiedb.ai.provider")
	if !ok || provider == "" {
		provider = "OpenAI"
	}
	endpoint, _ := p.GetString("cookiedb.ai.endpoint")
	apiKey, _ := p.GetString("cookiedb.openai.apiKey")
	model, ok := p.GetString("cookiedb.openai.model")
	if !ok || model == "" {
		model = "gpt-4"
	}

	return ClassifierConfig{
		StorePath:     filepath.Clean(storePath),
		AutoProcess:   autoProcess,
		WorkerThreads: clamp(workers, minWorkers, maxWorkers),
		QueriesPerMin: clamp(qpm, minQPM, maxQPM),
		DomainFilter: DomainFilter{
			Mode:    DomainFilterMode(mode),
			Domains: ParseDomainList(domains),
		},
		AI: AIConfig{
			Provider: provider,
			Endpoint: endpoint,
			APIKey:   apiKey,
			Model:    model,
		},
	}
}

// ParseDomainList splits a comma/semicolon/space-separated domain list into
// trimmed, non-empty entries, per spec.md §6's "comma/semicolon/space list"
// configuration value shape.
func ParseDomainList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// defaultStorePath resolves the platform-neutral per-user store location
// named in spec.md §6: $HOME/.cookieprobe-db/cookies.db, or
// %USERPROFILE%\.cookieprobe-db\cookies.db on Windows.
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".cookieprobe-db", "cookies.db")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
