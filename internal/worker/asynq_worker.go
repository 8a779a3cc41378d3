package worker

import (
	"context"
	"encoding/json"

	"github.com/mealbox-next/internal/constants"
	"github.com/mealbox-next/internal/logger"
	"github.com/mealbox-next/internal/provider"
	"github.com/mealbox-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(constants.TaskDeliveryAdvance, c.handleDeliveryAdvance)
	mux.HandleFunc(constants.TaskRecurringReschedule, c.handleRecurringReschedule)
}

func (c *Consumer) handleDeliveryAdvance(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_delivery_advance_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.DeliveryAdvancePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_delivery_advance_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 || payload.NextStatus == "" {
		logger.Debugw("worker_delivery_advance_skip_invalid_payload",
			"order_id", payload.OrderID, "next_status", payload.NextStatus)
		return nil
	}
	if c.OrderService == nil {
		logger.Warnw("worker_delivery_advance_skip_order_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.OrderService.AdvanceDelivery(payload.OrderID, payload.NextStatus); err != nil {
		logger.Warnw("worker_delivery_advance_failed",
			"order_id", payload.OrderID, "next_status", payload.NextStatus, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleRecurringReschedule(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_recurring_reschedule_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.RecurringReschedulePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_recurring_reschedule_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_recurring_reschedule_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.OrderService == nil {
		logger.Warnw("worker_recurring_reschedule_skip_order_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.OrderService.RescheduleRecurring(payload.OrderID); err != nil {
		logger.Warnw("worker_recurring_reschedule_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}
