package queue

import (
	"encoding/json"

	"github.com/mealbox-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskDeliveryAdvance 配送状态推进任务
	TaskDeliveryAdvance = constants.TaskDeliveryAdvance
	// TaskRecurringReschedule 周期订单续排任务
	TaskRecurringReschedule = constants.TaskRecurringReschedule
)

// DeliveryAdvancePayload 配送状态推进任务载荷
type DeliveryAdvancePayload struct {
	OrderID    uint   `json:"order_id"`
	NextStatus string `json:"next_status"`
}

// RecurringReschedulePayload 周期订单续排任务载荷
type RecurringReschedulePayload struct {
	OrderID uint `json:"order_id"`
}

// NewDeliveryAdvanceTask 创建配送状态推进任务
func NewDeliveryAdvanceTask(payload DeliveryAdvancePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDeliveryAdvance, body), nil
}

// NewRecurringRescheduleTask 创建周期订单续排任务
func NewRecurringRescheduleTask(payload RecurringReschedulePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRecurringReschedule, body), nil
}
