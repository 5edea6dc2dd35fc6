package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/moneya/internal/config"
)

func TestProviderArgsFillsSharedKey(t *testing.T) {
	shared := config.OpenAIConfig{APIKey: "sk-shared", BaseURL: "https://proxy.local/v1"}

	args := providerArgs(config.ProviderConfig{Type: "openai"}, shared)
	m := args.(map[string]interface{})
	require.Equal(t, "sk-shared", m["api_key"])
	require.Equal(t, "https://proxy.local/v1", m["base_url"])

	args = providerArgs(config.ProviderConfig{Type: "openai", Data: map[string]interface{}{"api_key": "sk-own"}}, shared)
	require.Equal(t, "sk-own", args.(map[string]interface{})["api_key"])
}

func TestProviderArgsLeavesOthersAlone(t *testing.T) {
	data := map[string]interface{}{"api_key": "g"}
	args := providerArgs(config.ProviderConfig{Type: "gemini", Data: data}, config.OpenAIConfig{APIKey: "sk"})
	require.Equal(t, data, args)
}

func TestPreviewCollapsesWhitespace(t *testing.T) {
	require.Equal(t, "a b c", preview("a\n b\t\tc"))
}
