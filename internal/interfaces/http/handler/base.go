// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"blog-writer-api/internal/interfaces/http/dto"
	apperrors "blog-writer-api/pkg/errors"
	"blog-writer-api/pkg/logger"
)

// respondError 把应用错误映射为统一错误响应
func respondError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)

	if appErr.HTTPStatus >= 500 {
		logger.Error(c.Request.Context(), "request failed", err,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
	}

	dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
		ErrorCode: string(appErr.Code),
		Details:   appErr.Detail,
	})
}
