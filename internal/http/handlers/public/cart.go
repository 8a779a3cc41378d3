package public

import (
	"errors"
	"time"

	"github.com/mealbox-next/internal/cart"
	"github.com/mealbox-next/internal/http/response"
	"github.com/mealbox-next/internal/models"
	"github.com/mealbox-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CartGroupView 购物车日期分组视图
type CartGroupView struct {
	Date          string       `json:"date"`
	DateLabel     string       `json:"date_label"`
	DeliveryTime  string       `json:"delivery_time"`
	DeliverySlots []string     `json:"delivery_slots"`
	Expanded      bool         `json:"expanded"`
	Items         []cart.Line  `json:"items"`
	Subtotal      models.Money `json:"subtotal"`
	ItemCount     int          `json:"item_count"`
}

// CartView 购物车视图
type CartView struct {
	Groups             []CartGroupView `json:"groups"`
	Total              models.Money    `json:"total"`
	ItemCount          int             `json:"item_count"`
	IsRecurring        bool            `json:"is_recurring"`
	RecurringFrequency string          `json:"recurring_frequency"`
}

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	Date                string `json:"date"`
	MenuItemID          string `json:"menu_item_id" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required"`
	SpecialInstructions string `json:"special_instructions"`
}

// UpdateCartItemRequest 行数量更新请求
type UpdateCartItemRequest struct {
	Date       string `json:"date" binding:"required"`
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity"`
}

// ChangeDeliveryTimeRequest 分组配送时段请求
type ChangeDeliveryTimeRequest struct {
	Date         string `json:"date" binding:"required"`
	DeliveryTime string `json:"delivery_time" binding:"required"`
}

// SetGroupExpandedRequest 分组展开标记请求
type SetGroupExpandedRequest struct {
	Date     string `json:"date" binding:"required"`
	Expanded bool   `json:"expanded"`
}

// SetRecurringRequest 周期订单开关请求
type SetRecurringRequest struct {
	Enabled bool `json:"enabled"`
}

// SetRecurringFrequencyRequest 周期频率请求
type SetRecurringFrequencyRequest struct {
	Frequency string `json:"frequency" binding:"required"`
}

func buildCartView(state cart.State) CartView {
	now := time.Now()
	groups := make([]CartGroupView, 0, len(state.DateGroups))
	for _, group := range cart.SortedGroups(state) {
		groups = append(groups, CartGroupView{
			Date:          group.Date,
			DateLabel:     cart.DateLabel(group.Date, now),
			DeliveryTime:  group.DeliveryTime,
			DeliverySlots: cart.DeliveryTimeSlots(group.Date),
			Expanded:      group.Expanded,
			Items:         group.Items,
			Subtotal:      cart.GroupSubtotal(group),
			ItemCount:     cart.GroupItemCount(group),
		})
	}
	return CartView{
		Groups:             groups,
		Total:              cart.Total(state),
		ItemCount:          cart.ItemCount(state),
		IsRecurring:        state.Recurring,
		RecurringFrequency: state.RecurringFrequency,
	}
}

func (h *Handler) respondCart(c *gin.Context, sessionID string) {
	state, err := h.CartService.Snapshot(sessionID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, buildCartView(state))
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	h.respondCart(c, sessionID)
}

// AddCartItem 加购
func (h *Handler) AddCartItem(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	err := h.CartService.AddItem(sessionID, service.AddCartItemInput{
		Date:                req.Date,
		MenuItemID:          req.MenuItemID,
		Quantity:            req.Quantity,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			respondError(c, response.CodeBadRequest, "quantity must be at least 1", nil)
			return
		}
		respondCartError(c, err)
		return
	}
	h.respondCart(c, sessionID)
}

// UpdateCartItemQuantity 更新行数量（≤ 0 删除行）
func (h *Handler) UpdateCartItemQuantity(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.CartService.UpdateItemQuantity(sessionID, req.Date, req.MenuItemID, req.Quantity); err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCart(c, sessionID)
}

// DeleteCartItem 删除行
func (h *Handler) DeleteCartItem(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	date := c.Query("date")
	itemID := c.Query("menu_item_id")
	if date == "" || itemID == "" {
		respondError(c, response.CodeBadRequest, "date and menu_item_id required", nil)
		return
	}
	if err := h.CartService.RemoveItem(sessionID, date, itemID); err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCart(c, sessionID)
}

// DeleteCartDateGroup 删除整个日期分组
func (h *Handler) DeleteCartDateGroup(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		respondError(c, response.CodeBadRequest, "date required", nil)
		return
	}
	if err := h.CartService.RemoveDateGroup(sessionID, date); err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCart(c, sessionID)
}

// ChangeDeliveryTime 修改分组配送时段
func (h *Handler) ChangeDeliveryTime(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	var req ChangeDeliveryTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.CartService.ChangeDeliveryTime(sessionID, req.Date, req.DeliveryTime); err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCart(c, sessionID)
}

// SetGroupExpanded 设置分组展开标记
func (h *Handler) SetGroupExpanded(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	var req SetGroupExpandedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.CartService.SetGroupExpanded(sessionID, req.Date, req.Expanded); err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCart(c, sessionID)
}

// SetRecurring 设置周期订单开关
func (h *Handler) SetRecurring(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	var req SetRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.CartService.ToggleRecurring(sessionID, req.Enabled); err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCart(c, sessionID)
}

// SetRecurringFrequency 设置周期频率
func (h *Handler) SetRecurringFrequency(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	var req SetRecurringFrequencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.CartService.SetRecurringFrequency(sessionID, req.Frequency); err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCart(c, sessionID)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(sessionID); err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCart(c, sessionID)
}

// GetDeliverySlots 获取指定日期可选的配送时段
func (h *Handler) GetDeliverySlots(c *gin.Context) {
	date := c.Query("date")
	key, err := cart.NormalizeKey(date)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid delivery date", nil)
		return
	}
	response.Success(c, gin.H{
		"date":  key,
		"slots": cart.DeliveryTimeSlots(key),
	})
}
