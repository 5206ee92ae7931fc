// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"shortstory-ai-api/internal/interfaces/http/dto"
	"shortstory-ai-api/pkg/errors"
	"shortstory-ai-api/pkg/logger"
)

// respondError 统一错误出口
// AppError 按其映射的 HTTP 状态返回，其余记日志并脱敏为 500
func respondError(c *gin.Context, ctx context.Context, err error, fallback string) {
	if errors.IsAppError(err) {
		appErr := errors.AsAppError(err)
		var detail *dto.ErrorDetail
		if appErr.Detail != "" {
			detail = &dto.ErrorDetail{
				ErrorCode: string(appErr.Code),
				Details:   appErr.Detail,
			}
		}
		c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
			Code:    appErr.HTTPStatus,
			Message: appErr.Message,
			Error:   detail,
			TraceID: c.GetString("trace_id"),
		})
		return
	}
	logger.Error(ctx, fallback, err)
	dto.InternalError(c, fallback)
}
