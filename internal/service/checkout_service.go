package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/mealbox-next/internal/cache"
	"github.com/mealbox-next/internal/cart"
	"github.com/mealbox-next/internal/config"
	"github.com/mealbox-next/internal/constants"
	"github.com/mealbox-next/internal/logger"
	"github.com/mealbox-next/internal/models"
	"github.com/mealbox-next/internal/queue"
	"github.com/mealbox-next/internal/repository"

	"github.com/google/uuid"
)

// CheckoutPreview 结算预览
type CheckoutPreview struct {
	Groups    []CheckoutPreviewGroup `json:"groups"`
	Total     models.Money           `json:"total"`
	ItemCount int                    `json:"item_count"`
	Recurring bool                   `json:"is_recurring"`
	Frequency string                 `json:"recurring_frequency"`
}

// CheckoutPreviewGroup 结算预览中的单个日期分组
type CheckoutPreviewGroup struct {
	Date         string       `json:"date"`
	DateLabel    string       `json:"date_label"`
	DeliveryTime string       `json:"delivery_time"`
	Items        []cart.Line  `json:"items"`
	Subtotal     models.Money `json:"subtotal"`
	ItemCount    int          `json:"item_count"`
}

// ConfirmCheckoutInput 结算确认输入
type ConfirmCheckoutInput struct {
	ContactName  string
	ContactPhone string
	Address      string
	Code         string // 模拟 OTP
}

// CheckoutService 结算服务：读取购物车总额、生成订单、成功后清空购物车。
// 支付与验证码均为演示性质的模拟实现，仅保留其可观察契约。
type CheckoutService struct {
	carts       *CartService
	orderRepo   repository.OrderRepository
	queueClient *queue.Client
	checkoutCfg config.CheckoutConfig
	deliveryCfg config.DeliveryConfig
	now         func() time.Time
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(carts *CartService, orderRepo repository.OrderRepository, queueClient *queue.Client, checkoutCfg config.CheckoutConfig, deliveryCfg config.DeliveryConfig) *CheckoutService {
	return &CheckoutService{
		carts:       carts,
		orderRepo:   orderRepo,
		queueClient: queueClient,
		checkoutCfg: checkoutCfg,
		deliveryCfg: deliveryCfg,
		now:         time.Now,
	}
}

// Preview 结算预览：分组小计与整车总额
func (s *CheckoutService) Preview(sessionID string) (*CheckoutPreview, error) {
	state, err := s.carts.Snapshot(sessionID)
	if err != nil {
		return nil, err
	}
	if len(state.DateGroups) == 0 {
		return nil, ErrCartEmpty
	}

	now := s.now()
	groups := make([]CheckoutPreviewGroup, 0, len(state.DateGroups))
	for _, group := range cart.SortedGroups(state) {
		groups = append(groups, CheckoutPreviewGroup{
			Date:         group.Date,
			DateLabel:    cart.DateLabel(group.Date, now),
			DeliveryTime: group.DeliveryTime,
			Items:        group.Items,
			Subtotal:     cart.GroupSubtotal(group),
			ItemCount:    cart.GroupItemCount(group),
		})
	}
	return &CheckoutPreview{
		Groups:    groups,
		Total:     cart.Total(state),
		ItemCount: cart.ItemCount(state),
		Recurring: state.Recurring,
		Frequency: state.RecurringFrequency,
	}, nil
}

// RequestCode 生成结算确认码并缓存。
// 演示应用没有短信/邮件通道，验证码直接随响应返回。
func (s *CheckoutService) RequestCode(ctx context.Context, sessionID string) (string, error) {
	state, err := s.carts.Snapshot(sessionID)
	if err != nil {
		return "", err
	}
	if len(state.DateGroups) == 0 {
		return "", ErrCartEmpty
	}

	code, err := randomDigits(s.codeLength())
	if err != nil {
		return "", err
	}
	ttl := time.Duration(s.checkoutCfg.CodeExpireSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if err := cache.SetCheckoutCode(ctx, sessionID, code, ttl); err != nil {
		return "", err
	}
	return code, nil
}

// Confirm 结算确认：校验确认码 → 生成订单 → 清空购物车 → 排配送推进任务
func (s *CheckoutService) Confirm(ctx context.Context, sessionID string, input ConfirmCheckoutInput) (*models.Order, error) {
	state, err := s.carts.Snapshot(sessionID)
	if err != nil {
		return nil, err
	}
	if len(state.DateGroups) == 0 {
		return nil, ErrCartEmpty
	}

	// Redis 未启用时跳过验证码校验（本地演示模式）
	if cache.Enabled() {
		stored, hit, err := cache.GetCheckoutCode(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if !hit || stored.Code != strings.TrimSpace(input.Code) {
			return nil, ErrCheckoutCodeInvalid
		}
	}

	now := s.now()
	order := &models.Order{
		OrderNo:            newOrderNo(now),
		SessionID:          sessionID,
		Status:             constants.OrderStatusPlaced,
		TotalAmount:        cart.Total(state),
		ItemCount:          cart.ItemCount(state),
		ContactName:        strings.TrimSpace(input.ContactName),
		ContactPhone:       strings.TrimSpace(input.ContactPhone),
		Address:            strings.TrimSpace(input.Address),
		IsRecurring:        state.Recurring,
		RecurringFrequency: state.RecurringFrequency,
		PlacedAt:           now,
	}
	items := orderItemsFromState(state)
	if err := s.orderRepo.Create(order, items); err != nil {
		return nil, err
	}

	if err := s.carts.Clear(sessionID); err != nil {
		logger.Warnw("checkout_clear_cart_failed", "session_id", sessionID, "error", err)
	}
	if err := cache.DelCheckoutCode(ctx, sessionID); err != nil {
		logger.Warnw("checkout_del_code_failed", "session_id", sessionID, "error", err)
	}

	s.scheduleDeliveryAdvance(order)
	s.scheduleRecurring(order)
	return order, nil
}

// scheduleDeliveryAdvance 排入首个配送状态推进任务
func (s *CheckoutService) scheduleDeliveryAdvance(order *models.Order) {
	next, ok := NextDeliveryStatus(order.Status)
	if !ok {
		return
	}
	delay := DeliveryAdvanceDelay(s.deliveryCfg, next)
	err := s.queueClient.EnqueueDeliveryAdvance(queue.DeliveryAdvancePayload{
		OrderID:    order.ID,
		NextStatus: next,
	}, delay)
	if err != nil {
		logger.Warnw("checkout_enqueue_delivery_failed", "order_id", order.ID, "error", err)
	}
}

// scheduleRecurring 周期订单排入续排任务
func (s *CheckoutService) scheduleRecurring(order *models.Order) {
	if !order.IsRecurring {
		return
	}
	delay := RecurringInterval(order.RecurringFrequency, order.PlacedAt)
	err := s.queueClient.EnqueueRecurringReschedule(queue.RecurringReschedulePayload{
		OrderID: order.ID,
	}, delay)
	if err != nil {
		logger.Warnw("checkout_enqueue_recurring_failed", "order_id", order.ID, "error", err)
	}
}

func (s *CheckoutService) codeLength() int {
	if s.checkoutCfg.CodeLength > 0 {
		return s.checkoutCfg.CodeLength
	}
	return 6
}

// orderItemsFromState 将购物车快照转为订单明细（按日期排序）
func orderItemsFromState(state cart.State) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(state.DateGroups))
	for _, group := range cart.SortedGroups(state) {
		for _, line := range group.Items {
			items = append(items, models.OrderItem{
				MenuItemPublicID:    line.ItemID,
				Name:                line.Name,
				Restaurant:          line.Restaurant,
				UnitPrice:           line.Price,
				Quantity:            line.Quantity,
				SpecialInstructions: line.SpecialInstructions,
				DeliveryDate:        group.Date,
				DeliveryTime:        group.DeliveryTime,
			})
		}
	}
	return items
}

func newOrderNo(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("MB%s%s", now.Format("20060102150405"), suffix)
}

func randomDigits(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%d", n.Int64())
	}
	return b.String(), nil
}
