package handler

import (
	"errors"
	"net/http"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/logger"
	"github.com/blues/cfescrow/internal/logic"
	"github.com/gin-gonic/gin"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// HandleError 按错误类型返回错误响应，托管错误附带错误码
func HandleError(c *gin.Context, err error) {
	var escrowErr *escrow.Error
	if errors.As(err, &escrowErr) {
		status := StatusForCode(escrowErr.Code)
		if status >= http.StatusInternalServerError {
			logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.JSON(status, Response{
			Success: false,
			Message: escrowErr.Message,
			Data:    ErrorData{Code: escrowErr.Code},
		})
		return
	}
	if errors.Is(err, logic.ErrRecordsUnavailable) {
		ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
		return
	}

	logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	ErrorResponse(c, http.StatusInternalServerError, err.Error())
}

// StatusForCode 托管错误码对应的 HTTP 状态码
func StatusForCode(code escrow.Code) int {
	switch code {
	case escrow.CodeProjectDoesntExist, escrow.CodeNoSuchVote:
		return http.StatusNotFound
	case escrow.CodeAlreadyExists, escrow.CodeAlreadyVoted, escrow.CodeAlreadyClaimed, escrow.CodeAlreadyRefunded,
		escrow.CodeDepositUsed:
		return http.StatusConflict
	case escrow.CodeNotAuthor, escrow.CodeSelfDonation:
		return http.StatusForbidden
	case escrow.CodeInvalidCaller:
		return http.StatusUnauthorized
	case escrow.CodeInvalidName, escrow.CodeInvalidGoal, escrow.CodeInvalidAmount,
		escrow.CodeNameTooLong, escrow.CodeDescriptionTooLong, escrow.CodeDeadlineTooEarly, escrow.CodeInvalidDeposit:
		return http.StatusBadRequest
	case escrow.CodeTransferFailed:
		return http.StatusBadGateway
	case escrow.CodeInternal:
		return http.StatusInternalServerError
	default:
		// 时间窗口和决议结果相关的拒绝
		return http.StatusUnprocessableEntity
	}
}
