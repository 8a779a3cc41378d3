package public

import (
	"errors"
	"strconv"

	"github.com/mealbox-next/internal/http/response"
	"github.com/mealbox-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListOrders 分页获取会话的历史订单
func (h *Handler) ListOrders(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListBySession(sessionID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "order list failed", err)
		return
	}
	totalPage := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPage++
	}
	response.SuccessWithPage(c, gin.H{"orders": orders}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetOrderByOrderNo 获取会话内的单个订单
func (h *Handler) GetOrderByOrderNo(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetByOrderNo(sessionID, c.Param("order_no"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}
	response.Success(c, order)
}

// normalizePagination 归一化分页参数。
func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
