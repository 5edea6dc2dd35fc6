package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type failBody struct {
	Success bool   `json:"success"`
	Code    int    `json:"code,omitempty"`
	Error   string `json:"error"`
}

// JSON writes payload as-is; gateway responses carry their own envelope.
func JSON(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

func Error(c *gin.Context, status int, code int, message string) {
	c.JSON(status, failBody{Success: false, Code: code, Error: message})
}

func Abort(c *gin.Context, status int, code int, message string) {
	c.AbortWithStatusJSON(status, failBody{Success: false, Code: code, Error: message})
}
