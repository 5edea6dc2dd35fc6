package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/moneya/internal/ai"
	"github.com/xxxsen/moneya/internal/imageutil"
	"github.com/xxxsen/moneya/internal/metrics"
	appErr "github.com/xxxsen/moneya/internal/pkg/errors"
	"github.com/xxxsen/moneya/internal/prompt"
)

const (
	fileAnalysisUserText = "첨부한 파일의 내용을 추출하고 정리해 주세요."
	maxPDFTextRunes      = 20000
)

type IVisionModel interface {
	Analyze(ctx context.Context, system string, user string, img *ai.Image) (string, error)
}

type FileConfig struct {
	MaxUploadBytes int64
	MaxDimension   int
	JPEGQuality    int
}

type FileInput struct {
	FileName   string
	FileType   string
	CurrentTab string
	Data       []byte
}

type FileResult struct {
	Analysis   string
	FileName   string
	FileType   string
	CurrentTab string
}

type FileService struct {
	model IVisionModel
	cfg   FileConfig
}

func NewFileService(m IVisionModel, cfg FileConfig) *FileService {
	return &FileService{model: m, cfg: cfg}
}

func (s *FileService) MaxUploadBytes() int64 {
	return s.cfg.MaxUploadBytes
}

func (s *FileService) Analyze(ctx context.Context, in FileInput) (*FileResult, error) {
	if len(in.Data) == 0 {
		return nil, fmt.Errorf("file is required: %w", appErr.ErrInvalid)
	}
	if s.cfg.MaxUploadBytes > 0 && int64(len(in.Data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("file exceeds %d bytes: %w", s.cfg.MaxUploadBytes, appErr.ErrTooLarge)
	}
	logger := logutil.GetLogger(ctx).With(zap.String("file_name", in.FileName), zap.Int("size", len(in.Data)))
	detected := http.DetectContentType(in.Data)
	fileType := in.FileType
	if fileType == "" {
		fileType = detected
	}
	system := prompt.BuildFileAnalysis(in.FileName, fileType, in.CurrentTab)

	var (
		user = fileAnalysisUserText
		img  *ai.Image
	)
	switch {
	case strings.HasPrefix(detected, "image/"):
		img = s.prepareImage(ctx, in.Data, detected)
	case detected == "application/pdf":
		text, err := extractPDFText(in.Data)
		if err != nil {
			logger.Warn("extract pdf text failed", zap.Error(err))
			return nil, fmt.Errorf("read pdf: %w: %w", appErr.ErrInvalid, err)
		}
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("pdf has no extractable text: %w", appErr.ErrInvalid)
		}
		user = fileAnalysisUserText + "\n\n[문서 텍스트]\n" + text
	default:
		return nil, fmt.Errorf("unsupported file type %s: %w", detected, appErr.ErrInvalid)
	}

	start := time.Now()
	analysis, err := s.model.Analyze(ctx, system, user, img)
	metrics.ObserveGateway("analyze_file", start, err)
	if err != nil {
		logger.Error("file analysis failed", zap.Duration("cost", time.Since(start)), zap.Error(err))
		return nil, upstreamError("file analysis", err)
	}
	logger.Info("file analyzed", zap.String("type", detected), zap.Duration("cost", time.Since(start)))
	return &FileResult{
		Analysis:   analysis,
		FileName:   in.FileName,
		FileType:   fileType,
		CurrentTab: in.CurrentTab,
	}, nil
}

// prepareImage downsamples the upload. The original bytes are sent when
// re-encoding fails.
func (s *FileService) prepareImage(ctx context.Context, data []byte, mime string) *ai.Image {
	out, outMime, err := imageutil.Shrink(data, s.cfg.MaxDimension, s.cfg.JPEGQuality)
	if err != nil {
		logutil.GetLogger(ctx).Warn("image re-encode failed, use original", zap.String("mime", mime), zap.Error(err))
		return &ai.Image{MIMEType: mime, Data: data}
	}
	if len(out) >= len(data) && mime == outMime {
		return &ai.Image{MIMEType: mime, Data: data}
	}
	return &ai.Image{MIMEType: outMime, Data: out}
}

func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(raw))
	if utf8.RuneCountInString(text) > maxPDFTextRunes {
		text = string([]rune(text)[:maxPDFTextRunes])
	}
	return text, nil
}
