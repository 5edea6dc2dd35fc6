package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	LogConfig     logger.LogConfig `json:"log_config"`
	CORSAllowlist []string         `json:"cors_allowlist"`
	RateLimitMS   int              `json:"rate_limit_ms"`
	OpenAI        OpenAIConfig     `json:"openai"`
	Corpus        CorpusConfig     `json:"corpus"`
	AI            AIConfig         `json:"ai"`
	Vision        VisionConfig     `json:"vision"`
	Speech        SpeechConfig     `json:"speech"`
	Realtime      RealtimeConfig   `json:"realtime"`
}

type OpenAIConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

type CorpusConfig struct {
	Type    string        `json:"type"`
	Data    interface{}   `json:"data"`
	Files   []string      `json:"files"`
	Weights WeightsConfig `json:"weights"`
}

type WeightsConfig struct {
	Content  int            `json:"content"`
	Title    int            `json:"title"`
	Category int            `json:"category"`
	Types    map[string]int `json:"types"`
}

type ProviderConfig struct {
	Name string      `json:"name"`
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type AIConfig struct {
	Providers   []ProviderConfig `json:"providers"`
	ChatModel   string           `json:"chat_model"`
	VisionModel string           `json:"vision_model"`
	MaxTokens   int              `json:"max_tokens"`
	Temperature float32          `json:"temperature"`
	Timeout     int              `json:"timeout"`
	RAGTopK     int              `json:"rag_top_k"`
}

type VisionConfig struct {
	MaxUploadBytes int64 `json:"max_upload_bytes"`
	MaxDimension   int   `json:"max_dimension"`
	JPEGQuality    int   `json:"jpeg_quality"`
}

type SpeechConfig struct {
	Model     string `json:"model"`
	Voice     string `json:"voice"`
	MaxChars  int    `json:"max_chars"`
	CacheSize int    `json:"cache_size"`
	CacheTTL  int    `json:"cache_ttl"`
}

type RealtimeConfig struct {
	URL                string   `json:"url"`
	Model              string   `json:"model"`
	Modalities         []string `json:"modalities"`
	Voice              string   `json:"voice"`
	AudioFormat        string   `json:"audio_format"`
	TranscriptionModel string   `json:"transcription_model"`
	VADThreshold       float64  `json:"vad_threshold"`
	SilenceDurationMS  int      `json:"silence_duration_ms"`
	PrefixPaddingMS    int      `json:"prefix_padding_ms"`
	RAGTopK            int      `json:"rag_top_k"`
	DialTimeout        int      `json:"dial_timeout"`
	IdleTimeout        int      `json:"idle_timeout"`
	ReapSpec           string   `json:"reap_spec"`
}

// Load reads the optional JSON config at path, then applies .env and
// environment overrides (OPENAI_API_KEY, PORT) and defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}
	if err := v.BindEnv("openai.base_url", "OPENAI_BASE_URL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}
	if err := v.BindEnv("port", "PORT"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	settings := v.AllSettings()
	// env values arrive as strings; port must stay numeric for decoding
	if v.IsSet("port") {
		settings["port"] = v.GetInt("port")
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = 10000
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Corpus.Type == "" {
		cfg.Corpus.Type = "local"
	}
	if cfg.Corpus.Data == nil && cfg.Corpus.Type == "local" {
		cfg.Corpus.Data = map[string]interface{}{"dir": "."}
	}
	if len(cfg.Corpus.Files) == 0 {
		cfg.Corpus.Files = []string{"rag_chunks.json"}
	}
	if cfg.Corpus.Weights.Content == 0 && cfg.Corpus.Weights.Title == 0 && cfg.Corpus.Weights.Category == 0 {
		cfg.Corpus.Weights.Content = 2
		cfg.Corpus.Weights.Title = 3
		cfg.Corpus.Weights.Category = 1
	}
	if len(cfg.AI.Providers) == 0 {
		cfg.AI.Providers = []ProviderConfig{{Name: "openai", Type: "openai"}}
	}
	if cfg.AI.ChatModel == "" {
		cfg.AI.ChatModel = "gpt-4o"
	}
	if cfg.AI.VisionModel == "" {
		cfg.AI.VisionModel = cfg.AI.ChatModel
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 1000
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.7
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 60
	}
	if cfg.AI.RAGTopK == 0 {
		cfg.AI.RAGTopK = 3
	}
	if cfg.Vision.MaxUploadBytes == 0 {
		cfg.Vision.MaxUploadBytes = 20 * 1024 * 1024
	}
	if cfg.Vision.MaxDimension == 0 {
		cfg.Vision.MaxDimension = 2048
	}
	if cfg.Vision.JPEGQuality == 0 {
		cfg.Vision.JPEGQuality = 85
	}
	if cfg.Speech.Model == "" {
		cfg.Speech.Model = "tts-1"
	}
	if cfg.Speech.Voice == "" {
		cfg.Speech.Voice = "shimmer"
	}
	if cfg.Speech.MaxChars == 0 {
		cfg.Speech.MaxChars = 4096
	}
	if cfg.Speech.CacheSize == 0 {
		cfg.Speech.CacheSize = 256
	}
	if cfg.Speech.CacheTTL == 0 {
		cfg.Speech.CacheTTL = 3600
	}
	rt := &cfg.Realtime
	if rt.URL == "" {
		rt.URL = "wss://api.openai.com/v1/realtime"
	}
	if rt.Model == "" {
		rt.Model = "gpt-4o-realtime-preview-2024-12-17"
	}
	if len(rt.Modalities) == 0 {
		rt.Modalities = []string{"text", "audio"}
	}
	if rt.Voice == "" {
		rt.Voice = "shimmer"
	}
	if rt.AudioFormat == "" {
		rt.AudioFormat = "pcm16"
	}
	if rt.TranscriptionModel == "" {
		rt.TranscriptionModel = "whisper-1"
	}
	if rt.VADThreshold == 0 {
		rt.VADThreshold = 0.5
	}
	if rt.SilenceDurationMS == 0 {
		rt.SilenceDurationMS = 800
	}
	if rt.RAGTopK == 0 {
		rt.RAGTopK = 3
	}
	if rt.DialTimeout == 0 {
		rt.DialTimeout = 15
	}
	if rt.IdleTimeout == 0 {
		rt.IdleTimeout = 600
	}
	if rt.ReapSpec == "" {
		rt.ReapSpec = "* * * * *"
	}
}

func validate(cfg *Config) error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("port out of range: %d", cfg.Port)
	}
	switch cfg.Corpus.Type {
	case "local", "s3":
	default:
		return fmt.Errorf("corpus.type must be local or s3")
	}
	if cfg.Vision.JPEGQuality < 1 || cfg.Vision.JPEGQuality > 100 {
		return fmt.Errorf("vision.jpeg_quality must be within 1-100")
	}
	for i, p := range cfg.AI.Providers {
		if strings.TrimSpace(p.Type) == "" {
			return fmt.Errorf("ai.providers[%d].type is required", i)
		}
	}
	return nil
}
