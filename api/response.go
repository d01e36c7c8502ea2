package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope for successful replies.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the envelope for failed replies.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, Response{
		Code:    0,
		Message: "accepted",
		Data:    data,
	})
}

func fail(c *gin.Context, httpCode int, message string, err error) {
	resp := ErrorResponse{
		Code:    httpCode,
		Message: message,
	}
	if err != nil {
		resp.Detail = err.Error()
	}
	c.JSON(httpCode, resp)
}
