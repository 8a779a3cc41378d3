package public

import (
	"strings"

	"github.com/mealbox-next/internal/constants"
	"github.com/mealbox-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// getSessionID 从请求头提取购物车会话标识。
// 缺失时直接响应 400，调用方返回即可。
func getSessionID(c *gin.Context) (string, bool) {
	sessionID := strings.TrimSpace(c.GetHeader(constants.CartSessionHeader))
	if sessionID == "" {
		respondError(c, response.CodeBadRequest, "cart session required", nil)
		return "", false
	}
	return sessionID, true
}
