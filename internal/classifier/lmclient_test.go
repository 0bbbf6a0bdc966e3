package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cookieprobe/cookieprobe/internal/model"
)

func TestStripFencedCodeBlock(t *testing.T) {
	require.Equal(t, `{"a":1}`, stripFencedCodeBlock("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripFencedCodeBlock("```\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripFencedCodeBlock(`{"a":1}`))
}

func TestParseDescriptorJSON(t *testing.T) {
	raw := `{"vendor":"Google","category":"Analytics","purpose":"tracks visitors","privacy":"Medium","thirdParty":true,"typicalExpiration":"2 years","commonDomains":["google.com"],"notes":"n","confidence":0.95}`
	d, err := parseDescriptorJSON("_ga", raw)
	require.NoError(t, err)
	require.Equal(t, "_ga", d.Name)
	require.Equal(t, "Google", d.Vendor)
	require.Equal(t, model.CategoryAnalytics, d.Category)
	require.Equal(t, model.PrivacyMedium, d.Privacy)
	require.True(t, d.ThirdParty)
	require.Equal(t, 0.95, d.Confidence)
	require.Equal(t, model.SourceAI, d.Source)
}

func TestParseDescriptorJSON_MissingOptionalFields(t *testing.T) {
	d, err := parseDescriptorJSON("sid", `{"vendor":"Acme"}`)
	require.NoError(t, err)
	require.Equal(t, model.DefaultConfidence, d.Confidence)
	require.Equal(t, model.CategoryUnknown, d.Category)
	require.Equal(t, model.PrivacyLow, d.Privacy)
}

func TestParseDescriptorJSON_FencedResponse(t *testing.T) {
	d, err := parseDescriptorJSON("sid", "```json\n{\"vendor\":\"Acme\",\"category\":\"Essential\"}\n```")
	require.NoError(t, err)
	require.Equal(t, "Acme", d.Vendor)
	require.Equal(t, model.CategoryEssential, d.Category)
}

func TestParseDescriptorJSON_Malformed(t *testing.T) {
	_, err := parseDescriptorJSON("sid", "not json at all")
	require.Error(t, err)
}

func TestChatCompletionProvider_ListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		_ = json.NewEncoder(w).Encode(modelsResponse{Data: []struct {
			ID string `json:"id"`
		}{{ID: "gpt-4"}, {ID: "gpt-4o"}}})
	}))
	defer server.Close()

	p := NewChatCompletionProvider("test-key", server.URL, "gpt-4")
	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"gpt-4", "gpt-4o"}, models)
}

func TestChatCompletionProvider_ListModels_FallsBackOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewChatCompletionProvider("test-key", server.URL, "gpt-4")
	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	require.Equal(t, staticOpenAIModels, models)
}

func TestMessagesProvider_ListModels_StaticFallback(t *testing.T) {
	p := NewMessagesProvider("test-key", "", "claude-opus-4")
	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	require.Equal(t, staticMessagesModels, models)
}
