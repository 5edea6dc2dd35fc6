package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/moneya/internal/metrics"
	"github.com/xxxsen/moneya/internal/model"
	appErr "github.com/xxxsen/moneya/internal/pkg/errors"
	"github.com/xxxsen/moneya/internal/prompt"
	"github.com/xxxsen/moneya/internal/rag"
)

type IChatModel interface {
	Chat(ctx context.Context, system string, user string) (string, error)
}

type ISearcher interface {
	Search(query string, maxResults int) []model.Chunk
}

type ChatInput struct {
	Message   string
	UserName  string
	Financial *model.FinancialContext
	Budget    *model.BudgetInfo
	Design    *model.DesignData
	Analysis  *model.AnalysisContext
}

type ChatResult struct {
	Message string
	RAGUsed bool
	Sources []string
}

type ChatService struct {
	model    IChatModel
	searcher ISearcher
	topK     int
}

func NewChatService(m IChatModel, searcher ISearcher, topK int) *ChatService {
	if topK <= 0 {
		topK = 3
	}
	return &ChatService{model: m, searcher: searcher, topK: topK}
}

func (s *ChatService) Chat(ctx context.Context, in ChatInput) (*ChatResult, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, fmt.Errorf("message is required: %w", appErr.ErrInvalid)
	}
	chunks := s.searcher.Search(message, s.topK)
	metrics.ObserveSearch("chat", len(chunks))
	system := prompt.Build(prompt.Input{
		UserName:  in.UserName,
		Financial: in.Financial,
		Budget:    in.Budget,
		Design:    in.Design,
		Analysis:  in.Analysis,
		Retrieved: rag.FormatContext(chunks),
	})

	start := time.Now()
	reply, err := s.model.Chat(ctx, system, message)
	metrics.ObserveGateway("chat", start, err)
	if err != nil {
		logutil.GetLogger(ctx).Error("chat completion failed",
			zap.Int("rag_hits", len(chunks)), zap.Duration("cost", time.Since(start)), zap.Error(err))
		return nil, upstreamError("chat completion", err)
	}
	sources := make([]string, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, c.Label())
	}
	return &ChatResult{
		Message: reply,
		RAGUsed: len(chunks) > 0,
		Sources: sources,
	}, nil
}

func upstreamError(op string, err error) error {
	if appErr.IsUpstream(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, appErr.ErrUpstream, err)
}
