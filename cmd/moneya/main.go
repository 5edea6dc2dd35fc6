package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/moneya/internal/ai"
	"github.com/xxxsen/moneya/internal/config"
	"github.com/xxxsen/moneya/internal/corpus"
	"github.com/xxxsen/moneya/internal/handler"
	"github.com/xxxsen/moneya/internal/job"
	"github.com/xxxsen/moneya/internal/metrics"
	"github.com/xxxsen/moneya/internal/middleware"
	"github.com/xxxsen/moneya/internal/rag"
	"github.com/xxxsen/moneya/internal/realtime"
	"github.com/xxxsen/moneya/internal/schedule"
	"github.com/xxxsen/moneya/internal/service"
	"github.com/xxxsen/moneya/internal/speechcache"
)

func main() {
	var (
		configPath string
		query      string
		limit      int
	)

	rootCmd := &cobra.Command{
		Use:   "moneya",
		Short: "moneya financial coach gateway",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run moneya server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(configPath)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "query the knowledge corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return fmt.Errorf("--query is required")
			}
			cfg, err := setup(configPath)
			if err != nil {
				return err
			}
			return runSearch(cmd.Context(), cfg, query, limit)
		},
	}
	searchCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	searchCmd.Flags().StringVar(&query, "query", "", "search text")
	searchCmd.Flags().IntVar(&limit, "limit", 5, "max results")

	rootCmd.AddCommand(runCmd, searchCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func setup(configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
	return cfg, nil
}

func loadSearcher(ctx context.Context, cfg *config.Config) (*rag.Searcher, error) {
	src, err := corpus.NewSource(cfg.Corpus.Type, cfg.Corpus.Data)
	if err != nil {
		return nil, fmt.Errorf("init corpus source: %w", err)
	}
	c := corpus.Load(ctx, src, cfg.Corpus.Files)
	metrics.CorpusChunks.Set(float64(c.Len()))
	return rag.NewSearcher(c, rag.Weights{
		Content:  cfg.Corpus.Weights.Content,
		Title:    cfg.Corpus.Weights.Title,
		Category: cfg.Corpus.Weights.Category,
		Types:    cfg.Corpus.Weights.Types,
	}), nil
}

// providerArgs fills the shared OpenAI credentials into openai-compatible
// providers that do not carry their own.
func providerArgs(p config.ProviderConfig, shared config.OpenAIConfig) interface{} {
	if p.Type != "openai" {
		return p.Data
	}
	args := map[string]interface{}{}
	if m, ok := p.Data.(map[string]interface{}); ok {
		for k, v := range m {
			args[k] = v
		}
	}
	if v, _ := args["api_key"].(string); v == "" {
		args["api_key"] = shared.APIKey
	}
	if v, _ := args["base_url"].(string); v == "" && shared.BaseURL != "" {
		args["base_url"] = shared.BaseURL
	}
	return args
}

func buildProviders(cfg *config.Config) ([]ai.ProviderEntry, error) {
	entries := make([]ai.ProviderEntry, 0, len(cfg.AI.Providers))
	for _, p := range cfg.AI.Providers {
		provider, err := ai.NewProvider(p.Type, providerArgs(p, cfg.OpenAI))
		if err != nil {
			return nil, fmt.Errorf("init ai provider %s: %w", p.Name, err)
		}
		name := p.Name
		if name == "" {
			name = p.Type
		}
		entries = append(entries, ai.ProviderEntry{Name: name, Provider: provider})
	}
	return entries, nil
}

func runServer(cfg *config.Config) error {
	lg := logutil.GetLogger(context.Background())
	lg.Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("corpus", cfg.Corpus.Type),
		zap.Int("providers", len(cfg.AI.Providers)),
	)
	if cfg.OpenAI.APIKey == "" {
		lg.Warn("OPENAI_API_KEY is not set; ai endpoints will degrade")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	searcher, err := loadSearcher(ctx, cfg)
	if err != nil {
		return err
	}
	entries, err := buildProviders(cfg)
	if err != nil {
		return err
	}
	var speaker ai.ISpeaker
	if s := ai.FirstSpeaker(entries); s != nil {
		speaker = speechcache.WrapLruCacheToSpeaker(s, cfg.Speech.CacheSize, time.Duration(cfg.Speech.CacheTTL)*time.Second)
	}
	manager := ai.NewManager(ai.NewGroupCompleter(entries), speaker, ai.ManagerConfig{
		Timeout:     cfg.AI.Timeout,
		ChatModel:   cfg.AI.ChatModel,
		VisionModel: cfg.AI.VisionModel,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
		SpeechModel: cfg.Speech.Model,
		SpeechVoice: cfg.Speech.Voice,
	})

	chatService := service.NewChatService(manager, searcher, cfg.AI.RAGTopK)
	fileService := service.NewFileService(manager, service.FileConfig{
		MaxUploadBytes: cfg.Vision.MaxUploadBytes,
		MaxDimension:   cfg.Vision.MaxDimension,
		JPEGQuality:    cfg.Vision.JPEGQuality,
	})
	speechService := service.NewSpeechService(manager, cfg.Speech.MaxChars)

	rt := cfg.Realtime
	hub := realtime.NewHub(realtime.Options{
		Dialer: &realtime.WSDialer{
			URL:              rt.URL,
			Model:            rt.Model,
			APIKey:           cfg.OpenAI.APIKey,
			HandshakeTimeout: time.Duration(rt.DialTimeout) * time.Second,
		},
		Searcher: searcher,
		TopK:     rt.RAGTopK,
		Params: realtime.SessionParams{
			Modalities:         rt.Modalities,
			Voice:              rt.Voice,
			AudioFormat:        rt.AudioFormat,
			TranscriptionModel: rt.TranscriptionModel,
			VADThreshold:       rt.VADThreshold,
			SilenceDurationMS:  rt.SilenceDurationMS,
			PrefixPaddingMS:    rt.PrefixPaddingMS,
		},
		DialTimeout: time.Duration(rt.DialTimeout) * time.Second,
		IdleTimeout: time.Duration(rt.IdleTimeout) * time.Second,
	})

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewIdleSessionReaperJob(hub), rt.ReapSpec); err != nil {
		return fmt.Errorf("schedule reaper: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	deps := handler.RouterDeps{
		AI:        handler.NewAIHandler(chatService, speechService),
		RAG:       handler.NewRAGHandler(searcher),
		Files:     handler.NewFileHandler(fileService),
		Status:    handler.NewStatusHandler(searcher.Corpus(), hub),
		Realtime:  handler.NewRealtimeHandler(hub),
		RateLimit: time.Duration(cfg.RateLimitMS) * time.Millisecond,
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"/api",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{handler.RealtimePath})),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	lg.Info("http server listening", zap.String("addr", addr))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	lg.Info("server stopping...", zap.Int("sessions", hub.Count()))
	hub.Shutdown()
	return nil
}
