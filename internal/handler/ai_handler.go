package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/moneya/internal/model"
	"github.com/xxxsen/moneya/internal/pkg/errcode"
	appErr "github.com/xxxsen/moneya/internal/pkg/errors"
	"github.com/xxxsen/moneya/internal/pkg/response"
	"github.com/xxxsen/moneya/internal/service"
)

type chatService interface {
	Chat(ctx context.Context, in service.ChatInput) (*service.ChatResult, error)
}

type speechService interface {
	Synthesize(ctx context.Context, text string, voice string) ([]byte, error)
}

type AIHandler struct {
	chat   chatService
	speech speechService
}

func NewAIHandler(chat chatService, speech speechService) *AIHandler {
	return &AIHandler{chat: chat, speech: speech}
}

type chatRequest struct {
	Message   string                  `json:"message"`
	UserName  string                  `json:"userName"`
	Financial *model.FinancialContext `json:"financialContext"`
	Budget    *model.BudgetInfo       `json:"budgetInfo"`
	Design    *model.DesignData       `json:"designData"`
	Analysis  *model.AnalysisContext  `json:"analysisContext"`
}

type chatResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	RAGUsed bool     `json:"ragUsed"`
	Sources []string `json:"sources,omitempty"`
}

func (h *AIHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}
	res, err := h.chat.Chat(c.Request.Context(), service.ChatInput{
		Message:   req.Message,
		UserName:  req.UserName,
		Financial: req.Financial,
		Budget:    req.Budget,
		Design:    req.Design,
		Analysis:  req.Analysis,
	})
	if err != nil {
		if errors.Is(err, appErr.ErrInvalid) {
			badRequest(c, msgMessageRequired)
			return
		}
		if appErr.IsUpstream(err) {
			logutil.GetLogger(c.Request.Context()).Error("chat failed", zap.Error(err))
			response.JSON(c, chatResponse{Success: false, Message: msgApology})
			return
		}
		handleError(c, err, msgApology)
		return
	}
	response.JSON(c, chatResponse{
		Success: true,
		Message: res.Message,
		RAGUsed: res.RAGUsed,
		Sources: res.Sources,
	})
}

type ttsRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type ttsResponse struct {
	Success bool   `json:"success"`
	Audio   string `json:"audio"`
	Format  string `json:"format"`
}

func (h *AIHandler) TTS(c *gin.Context) {
	var req ttsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidRequest)
		return
	}
	if req.Text == "" {
		badRequest(c, msgTextRequired)
		return
	}
	audio, err := h.speech.Synthesize(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		if errors.Is(err, appErr.ErrInvalid) {
			response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, msgInvalidRequest)
			return
		}
		handleError(c, err, msgSpeechFailed)
		return
	}
	response.JSON(c, ttsResponse{
		Success: true,
		Audio:   base64.StdEncoding.EncodeToString(audio),
		Format:  "mp3",
	})
}
