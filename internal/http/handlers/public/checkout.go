package public

import (
	"github.com/mealbox-next/internal/http/response"
	"github.com/mealbox-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ConfirmCheckoutRequest 结算确认请求
type ConfirmCheckoutRequest struct {
	ContactName  string `json:"contact_name" binding:"required"`
	ContactPhone string `json:"contact_phone" binding:"required"`
	Address      string `json:"address" binding:"required"`
	Code         string `json:"code"`
}

// GetCheckoutPreview 获取结算预览
func (h *Handler) GetCheckoutPreview(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	preview, err := h.CheckoutService.Preview(sessionID)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, preview)
}

// RequestCheckoutCode 请求结算确认码。
// 演示应用没有短信/邮件通道，验证码直接随响应返回。
func (h *Handler) RequestCheckoutCode(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	code, err := h.CheckoutService.RequestCode(c.Request.Context(), sessionID)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, gin.H{"code": code})
}

// ConfirmCheckout 结算确认：生成订单并清空购物车
func (h *Handler) ConfirmCheckout(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	var req ConfirmCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	order, err := h.CheckoutService.Confirm(c.Request.Context(), sessionID, service.ConfirmCheckoutInput{
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
		Code:         req.Code,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, order)
}
