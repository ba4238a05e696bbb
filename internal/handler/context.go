package handler

import (
	"regexp"
	"strconv"
	"time"

	"github.com/blues/cfescrow/internal/escrow"
	"github.com/blues/cfescrow/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// CallerHeader 调用者身份请求头
const CallerHeader = "X-Caller-Id"

const callKey = "escrow_call"

// Clock 返回当前逻辑时间（毫秒）
type Clock func() int64

// SystemClock 使用系统时间
func SystemClock() int64 {
	return time.Now().UnixMilli()
}

// CallContext 为每个请求生成调用上下文：调用者取自请求头，时间取自 clock
func CallContext(clock Clock) gin.HandlerFunc {
	if clock == nil {
		clock = SystemClock
	}
	return func(c *gin.Context) {
		c.Set(callKey, escrow.Call{
			Caller:    c.GetHeader(CallerHeader),
			Timestamp: clock(),
		})
		c.Next()
	}
}

// callFrom 读取中间件设置的调用上下文
func callFrom(c *gin.Context) escrow.Call {
	if v, ok := c.Get(callKey); ok {
		if call, ok := v.(escrow.Call); ok {
			return call
		}
	}
	return escrow.Call{Caller: c.GetHeader(CallerHeader), Timestamp: SystemClock()}
}

// pageParams 读取分页参数
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return repository.NormalizePage(page, pageSize)
}

var amountPattern = regexp.MustCompile(`^[0-9]{1,78}$`)

// validateAmount 金额为十进制非负整数字符串
func validateAmount(fl validator.FieldLevel) bool {
	return amountPattern.MatchString(fl.Field().String())
}

// RegisterValidators 在 gin 的校验器上注册自定义规则
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("amount", validateAmount)
}
