package public

import (
	"errors"

	"github.com/mealbox-next/internal/http/response"
	"github.com/mealbox-next/internal/logger"
	"github.com/mealbox-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// requestLog 提供携带 request_id 的日志实例。
func requestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// respondError 返回错误响应，并在有原始错误时记录日志。
func respondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		requestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartMutationErrorRules = []mappedHandlerError{
	{target: service.ErrSessionRequired, code: response.CodeBadRequest, msg: "cart session required"},
	{target: service.ErrMenuItemNotFound, code: response.CodeNotFound, msg: "menu item not found"},
	{target: service.ErrMenuItemUnavailable, code: response.CodeBadRequest, msg: "menu item unavailable"},
	{target: service.ErrInvalidDate, code: response.CodeBadRequest, msg: "invalid delivery date"},
	{target: service.ErrInvalidFrequency, code: response.CodeBadRequest, msg: "invalid recurring frequency"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrSessionRequired, code: response.CodeBadRequest, msg: "cart session required"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrCheckoutCodeInvalid, code: response.CodeBadRequest, msg: "confirmation code invalid or expired"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartMutationErrorRules, response.CodeInternal, "cart update failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "checkout failed")
}
