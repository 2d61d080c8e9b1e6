package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{"api_key": "sk-test"}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, DefaultBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout())
	assert.Equal(t, time.Second, cfg.PacingDelay())
	assert.Equal(t, "bot_personalities.json", cfg.PersonalitiesFile)
	assert.Equal(t, "debate_topics.json", cfg.TopicsFile)
	assert.Equal(t, "transcripts", cfg.TranscriptDir)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Zero(t, cfg.MaxRounds)
	assert.Zero(t, cfg.HistoryWindow)
	assert.Nil(t, cfg.Temperature)
}

func TestLoadLegacyTokenFallback(t *testing.T) {
	path := writeConfig(t, `{"openAI": {"token": "legacy-token"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "legacy-token", cfg.APIKey)
}

func TestLoadExplicitKeyWinsOverLegacy(t *testing.T) {
	path := writeConfig(t, `{"api_key": "sk-new", "openAI": {"token": "legacy-token"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-new", cfg.APIKey)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing api key",
			content: `{"model": "gpt-4o-mini"}`,
			wantErr: "api_key is required",
		},
		{
			name:    "bad base url scheme",
			content: `{"api_key": "k", "api_base_url": "ftp://example.com"}`,
			wantErr: "not a valid http(s) URL",
		},
		{
			name:    "base url without host",
			content: `{"api_key": "k", "api_base_url": "https://"}`,
			wantErr: "not a valid http(s) URL",
		},
		{
			name:    "negative max rounds",
			content: `{"api_key": "k", "max_rounds": -2}`,
			wantErr: "max_rounds",
		},
		{
			name:    "negative history window",
			content: `{"api_key": "k", "history_window": -1}`,
			wantErr: "history_window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeConfig(t, `{"api_key": `)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestSaveAndReload(t *testing.T) {
	temp := 0.8
	cfg := &Config{
		APIBaseURL:  "https://llm.internal/v1",
		APIKey:      "sk-round",
		Model:       "claude-sonnet",
		Temperature: &temp,
		MaxRounds:   5,
	}

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://llm.internal/v1", got.APIBaseURL)
	assert.Equal(t, "claude-sonnet", got.Model)
	assert.Equal(t, 5, got.MaxRounds)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.8, *got.Temperature, 1e-9)
}

func TestCreateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, CreateDefault(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Starter file carries a placeholder key, so it passes validation on load.
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "YOUR_API_KEY_HERE", cfg.APIKey)
	assert.Equal(t, DefaultBaseURL, cfg.APIBaseURL)

	err = CreateDefault(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
