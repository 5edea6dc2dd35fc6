package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/moneya/internal/pkg/response"
)

type corpusCounter interface {
	Len() int
}

type sessionCounter interface {
	Count() int
}

type StatusHandler struct {
	corpus   corpusCounter
	sessions sessionCounter
	now      func() time.Time
}

func NewStatusHandler(corpus corpusCounter, sessions sessionCounter) *StatusHandler {
	return &StatusHandler{corpus: corpus, sessions: sessions, now: time.Now}
}

type ragStatus struct {
	Enabled bool `json:"enabled"`
	Chunks  int  `json:"chunks"`
}

type statusResponse struct {
	Status   string    `json:"status"`
	RAG      ragStatus `json:"rag"`
	Sessions int       `json:"sessions"`
}

func (h *StatusHandler) Status(c *gin.Context) {
	chunks := 0
	if h.corpus != nil {
		chunks = h.corpus.Len()
	}
	sessions := 0
	if h.sessions != nil {
		sessions = h.sessions.Count()
	}
	response.JSON(c, statusResponse{
		Status:   "running",
		RAG:      ragStatus{Enabled: chunks > 0, Chunks: chunks},
		Sessions: sessions,
	})
}

func (h *StatusHandler) Health(c *gin.Context) {
	response.JSON(c, gin.H{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}
