package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mealbox-next/internal/constants"
	"github.com/mealbox-next/internal/provider"
	"github.com/mealbox-next/internal/queue"

	"github.com/hibiken/asynq"
)

func TestHandleDeliveryAdvanceSkipsMalformedInput(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	bad := asynq.NewTask(constants.TaskDeliveryAdvance, []byte("not-json"))
	if err := consumer.handleDeliveryAdvance(context.Background(), bad); err == nil {
		t.Fatalf("expected error for malformed payload")
	}

	// 零值 payload 静默跳过，不应触达订单服务
	empty, err := json.Marshal(queue.DeliveryAdvancePayload{})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	task := asynq.NewTask(constants.TaskDeliveryAdvance, empty)
	if err := consumer.handleDeliveryAdvance(context.Background(), task); err != nil {
		t.Fatalf("empty payload must be skipped, got %v", err)
	}
}

func TestHandleRecurringRescheduleSkipsMalformedInput(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	bad := asynq.NewTask(constants.TaskRecurringReschedule, []byte("{"))
	if err := consumer.handleRecurringReschedule(context.Background(), bad); err == nil {
		t.Fatalf("expected error for malformed payload")
	}

	empty, err := json.Marshal(queue.RecurringReschedulePayload{})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	task := asynq.NewTask(constants.TaskRecurringReschedule, empty)
	if err := consumer.handleRecurringReschedule(context.Background(), task); err != nil {
		t.Fatalf("empty payload must be skipped, got %v", err)
	}
}

func TestHandlersSkipWhenOrderServiceMissing(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	payload, err := json.Marshal(queue.DeliveryAdvancePayload{OrderID: 7, NextStatus: constants.OrderStatusPreparing})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	task := asynq.NewTask(constants.TaskDeliveryAdvance, payload)
	if err := consumer.handleDeliveryAdvance(context.Background(), task); err != nil {
		t.Fatalf("missing order service must be skipped, got %v", err)
	}

	payload, err = json.Marshal(queue.RecurringReschedulePayload{OrderID: 7})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	task = asynq.NewTask(constants.TaskRecurringReschedule, payload)
	if err := consumer.handleRecurringReschedule(context.Background(), task); err != nil {
		t.Fatalf("missing order service must be skipped, got %v", err)
	}
}
