package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "")
	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)
	require.Equal(t, 10000, cfg.Port)
	require.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	require.Equal(t, "local", cfg.Corpus.Type)
	require.Equal(t, []string{"rag_chunks.json"}, cfg.Corpus.Files)
	require.Equal(t, 2, cfg.Corpus.Weights.Content)
	require.Equal(t, 3, cfg.Corpus.Weights.Title)
	require.Equal(t, 1, cfg.Corpus.Weights.Category)
	require.Equal(t, "gpt-4o", cfg.AI.ChatModel)
	require.Equal(t, "gpt-4o", cfg.AI.VisionModel)
	require.Equal(t, 3, cfg.AI.RAGTopK)
	require.Equal(t, "shimmer", cfg.Speech.Voice)
	require.Equal(t, []string{"text", "audio"}, cfg.Realtime.Modalities)
	require.Len(t, cfg.AI.Providers, 1)
}

func TestLoadFileValues(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load(writeConfig(t, `{
		"port": 8080,
		"cors_allowlist": ["https://app.example.com"],
		"corpus": {"type": "local", "data": {"dir": "/data"}, "files": ["a.json", "b.json"],
			"weights": {"content": 1, "title": 1, "category": 1, "types": {"principle": 2}}},
		"ai": {"chat_model": "gpt-4o-mini", "vision_model": "gpt-4o"}
	}`))
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, []string{"https://app.example.com"}, cfg.CORSAllowlist)
	require.Equal(t, []string{"a.json", "b.json"}, cfg.Corpus.Files)
	require.Equal(t, map[string]int{"principle": 2}, cfg.Corpus.Weights.Types)
	require.Equal(t, "gpt-4o-mini", cfg.AI.ChatModel)
	require.Equal(t, "gpt-4o", cfg.AI.VisionModel)
}

func TestLoadPortFromEnv(t *testing.T) {
	t.Setenv("PORT", "9001")
	cfg, err := Load(writeConfig(t, `{"port": 8080}`))
	require.NoError(t, err)
	require.Equal(t, 9001, cfg.Port)
}

func TestLoadRejectsUnknownCorpus(t *testing.T) {
	t.Setenv("PORT", "")
	_, err := Load(writeConfig(t, `{"corpus": {"type": "ftp"}}`))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
