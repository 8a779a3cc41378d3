package public

import (
	"github.com/mealbox-next/internal/constants"
	"github.com/mealbox-next/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateSession 颁发购物车会话标识。
// 客户端保存后在后续请求头里携带。
func (h *Handler) CreateSession(c *gin.Context) {
	response.Success(c, gin.H{
		"session_id": uuid.NewString(),
		"header":     constants.CartSessionHeader,
	})
}
