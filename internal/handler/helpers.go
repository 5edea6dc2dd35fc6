package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/moneya/internal/middleware"
	"github.com/xxxsen/moneya/internal/pkg/errcode"
	appErr "github.com/xxxsen/moneya/internal/pkg/errors"
	"github.com/xxxsen/moneya/internal/pkg/response"
)

const (
	msgApology         = "죄송합니다. 잠시 후 다시 시도해 주세요."
	msgAnalyzeFailed   = "파일 분석에 실패했습니다. 잠시 후 다시 시도해 주세요."
	msgSpeechFailed    = "음성 생성에 실패했습니다. 잠시 후 다시 시도해 주세요."
	msgInvalidRequest  = "요청 형식이 올바르지 않습니다"
	msgInternal        = "서버 오류가 발생했습니다"
	msgMessageRequired = "메시지 필요"
	msgQueryRequired   = "검색어 필요"
	msgFileRequired    = "파일 필요"
	msgTextRequired    = "텍스트 필요"
	msgUnsupportedFile = "지원하지 않는 파일 형식입니다"
	msgTooLarge        = "요청 크기가 너무 큽니다"
)

// handleError maps service errors to responses. Upstream failures are not
// client faults, so they degrade to a 200 with success=false and a friendly
// message; details stay in the log.
func handleError(c *gin.Context, err error, upstreamMsg string) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, errcode.ErrFileTooLarge, msgTooLarge)
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, msgInvalidRequest)
	case errors.Is(err, appErr.ErrUnavailable):
		response.Error(c, http.StatusOK, errcode.ErrAIUnavailable, upstreamMsg)
	case errors.Is(err, appErr.ErrUpstream):
		response.Error(c, http.StatusOK, errcode.ErrUpstream, upstreamMsg)
	default:
		response.Error(c, http.StatusInternalServerError, errcode.ErrInternal, msgInternal)
	}
}

func badRequest(c *gin.Context, message string) {
	response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, message)
}
