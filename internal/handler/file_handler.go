package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/moneya/internal/pkg/errcode"
	appErr "github.com/xxxsen/moneya/internal/pkg/errors"
	"github.com/xxxsen/moneya/internal/pkg/response"
	"github.com/xxxsen/moneya/internal/service"
)

type fileService interface {
	Analyze(ctx context.Context, in service.FileInput) (*service.FileResult, error)
	MaxUploadBytes() int64
}

type FileHandler struct {
	files fileService
	now   func() time.Time
}

func NewFileHandler(files fileService) *FileHandler {
	return &FileHandler{files: files, now: time.Now}
}

type analyzeResponse struct {
	Success    bool   `json:"success"`
	Analysis   string `json:"analysis"`
	FileName   string `json:"fileName"`
	FileType   string `json:"fileType"`
	CurrentTab string `json:"currentTab"`
	Timestamp  string `json:"timestamp"`
}

func (h *FileHandler) Analyze(c *gin.Context) {
	maxBytes := h.files.MaxUploadBytes()
	if limit := requestBodyLimit(maxBytes); limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}
	header, err := formFile(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.tooLarge(c, maxBytes)
			return
		}
		badRequest(c, msgFileRequired)
		return
	}
	if maxBytes > 0 && header.Size > maxBytes {
		h.tooLarge(c, maxBytes)
		return
	}
	data, err := readFormFile(header)
	if err != nil {
		badRequest(c, msgFileRequired)
		return
	}

	fileName := firstNonEmpty(c.PostForm("fileName"), header.Filename)
	fileType := firstNonEmpty(c.PostForm("fileType"), header.Header.Get("Content-Type"))
	res, err := h.files.Analyze(c.Request.Context(), service.FileInput{
		FileName:   fileName,
		FileType:   fileType,
		CurrentTab: c.PostForm("currentTab"),
		Data:       data,
	})
	if err != nil {
		if errors.Is(err, appErr.ErrTooLarge) {
			h.tooLarge(c, maxBytes)
			return
		}
		if errors.Is(err, appErr.ErrInvalid) {
			badRequest(c, msgUnsupportedFile)
			return
		}
		handleError(c, err, msgAnalyzeFailed)
		return
	}
	response.JSON(c, analyzeResponse{
		Success:    true,
		Analysis:   res.Analysis,
		FileName:   res.FileName,
		FileType:   res.FileType,
		CurrentTab: res.CurrentTab,
		Timestamp:  h.now().UTC().Format(time.RFC3339),
	})
}

func (h *FileHandler) tooLarge(c *gin.Context, maxBytes int64) {
	response.Error(c, http.StatusRequestEntityTooLarge, errcode.ErrFileTooLarge,
		"파일 크기는 "+formatUploadLimit(maxBytes)+" 이하만 가능합니다")
}

// formFile accepts the upload under "file" or "image".
func formFile(c *gin.Context) (*multipart.FileHeader, error) {
	header, err := c.FormFile("file")
	if err == nil {
		return header, nil
	}
	if alt, altErr := c.FormFile("image"); altErr == nil {
		return alt, nil
	}
	return nil, err
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
