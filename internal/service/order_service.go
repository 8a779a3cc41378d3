package service

import (
	"strings"
	"time"

	"github.com/mealbox-next/internal/config"
	"github.com/mealbox-next/internal/constants"
	"github.com/mealbox-next/internal/logger"
	"github.com/mealbox-next/internal/models"
	"github.com/mealbox-next/internal/queue"
	"github.com/mealbox-next/internal/repository"
)

// OrderService 订单查询与配送模拟服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	queueClient *queue.Client
	deliveryCfg config.DeliveryConfig
	now         func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, queueClient *queue.Client, deliveryCfg config.DeliveryConfig) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		queueClient: queueClient,
		deliveryCfg: deliveryCfg,
		now:         time.Now,
	}
}

// ListBySession 分页获取会话的历史订单
func (s *OrderService) ListBySession(sessionID string, page, pageSize int) ([]models.Order, int64, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, 0, ErrSessionRequired
	}
	return s.orderRepo.ListBySession(sessionID, page, pageSize)
}

// GetByOrderNo 获取会话内的单个订单
func (s *OrderService) GetByOrderNo(sessionID, orderNo string) (*models.Order, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNoAndSession(orderNo, sessionID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// AdvanceDelivery 推进订单配送状态并排入下一跳任务。
// 订单不存在或状态已越过目标时静默跳过（延时任务可能迟到）。
func (s *OrderService) AdvanceDelivery(orderID uint, nextStatus string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Warnw("delivery_advance_order_missing", "order_id", orderID)
		return nil
	}
	expected, ok := NextDeliveryStatus(order.Status)
	if !ok || expected != nextStatus {
		logger.Infow("delivery_advance_skipped",
			"order_id", orderID, "status", order.Status, "next_status", nextStatus)
		return nil
	}

	updates := map[string]interface{}{}
	if nextStatus == constants.OrderStatusDelivered {
		updates["delivered_at"] = s.now()
	}
	if err := s.orderRepo.UpdateStatus(order.ID, nextStatus, updates); err != nil {
		return err
	}
	logger.Infow("delivery_advanced", "order_id", order.ID, "order_no", order.OrderNo, "status", nextStatus)

	if following, ok := NextDeliveryStatus(nextStatus); ok {
		delay := DeliveryAdvanceDelay(s.deliveryCfg, following)
		err := s.queueClient.EnqueueDeliveryAdvance(queue.DeliveryAdvancePayload{
			OrderID:    order.ID,
			NextStatus: following,
		}, delay)
		if err != nil {
			logger.Warnw("delivery_advance_enqueue_failed", "order_id", order.ID, "error", err)
		}
	}
	return nil
}

// RescheduleRecurring 周期订单续排：把原订单克隆为向后平移一个周期的新订单，
// 并为新订单排入配送推进与下一次续排任务。
func (s *OrderService) RescheduleRecurring(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Warnw("recurring_reschedule_order_missing", "order_id", orderID)
		return nil
	}
	if !order.IsRecurring {
		return nil
	}

	now := s.now()
	next := &models.Order{
		OrderNo:            newOrderNo(now),
		SessionID:          order.SessionID,
		Status:             constants.OrderStatusPlaced,
		TotalAmount:        order.TotalAmount,
		ItemCount:          order.ItemCount,
		ContactName:        order.ContactName,
		ContactPhone:       order.ContactPhone,
		Address:            order.Address,
		IsRecurring:        order.IsRecurring,
		RecurringFrequency: order.RecurringFrequency,
		PlacedAt:           now,
	}
	items := make([]models.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		shifted, err := ShiftDateKey(item.DeliveryDate, order.RecurringFrequency)
		if err != nil {
			logger.Warnw("recurring_shift_date_failed",
				"order_id", order.ID, "delivery_date", item.DeliveryDate, "error", err)
			shifted = item.DeliveryDate
		}
		items = append(items, models.OrderItem{
			MenuItemPublicID:    item.MenuItemPublicID,
			Name:                item.Name,
			Restaurant:          item.Restaurant,
			UnitPrice:           item.UnitPrice,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
			DeliveryDate:        shifted,
			DeliveryTime:        item.DeliveryTime,
		})
	}
	if err := s.orderRepo.Create(next, items); err != nil {
		return err
	}
	logger.Infow("recurring_order_created",
		"source_order_id", order.ID, "order_id", next.ID, "order_no", next.OrderNo,
		"frequency", next.RecurringFrequency)

	if nextStatus, ok := NextDeliveryStatus(next.Status); ok {
		delay := DeliveryAdvanceDelay(s.deliveryCfg, nextStatus)
		err := s.queueClient.EnqueueDeliveryAdvance(queue.DeliveryAdvancePayload{
			OrderID:    next.ID,
			NextStatus: nextStatus,
		}, delay)
		if err != nil {
			logger.Warnw("recurring_enqueue_delivery_failed", "order_id", next.ID, "error", err)
		}
	}
	delay := RecurringInterval(next.RecurringFrequency, now)
	err = s.queueClient.EnqueueRecurringReschedule(queue.RecurringReschedulePayload{
		OrderID: next.ID,
	}, delay)
	if err != nil {
		logger.Warnw("recurring_enqueue_next_failed", "order_id", next.ID, "error", err)
	}
	return nil
}
