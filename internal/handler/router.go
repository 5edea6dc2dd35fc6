package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xxxsen/moneya/internal/middleware"
)

const RealtimePath = "/api/realtime"

type RouterDeps struct {
	AI       *AIHandler
	RAG      *RAGHandler
	Files    *FileHandler
	Status   *StatusHandler
	Realtime *RealtimeHandler
	// RateLimit is the per-client minimum interval on routes that call the
	// upstream model. Zero disables it.
	RateLimit time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/status", deps.Status.Status)
	api.GET("/health", deps.Status.Health)
	api.GET("/metrics", gin.WrapH(promhttp.Handler()))
	api.POST("/rag-search", deps.RAG.Search)

	costly := api.Group("")
	costly.Use(middleware.RateLimit(deps.RateLimit))
	costly.POST("/chat", deps.AI.Chat)
	costly.POST("/tts", deps.AI.TTS)
	costly.POST("/analyze-file", deps.Files.Analyze)

	if deps.Realtime != nil {
		api.GET("/realtime", deps.Realtime.Connect)
	}
}
