package service

import (
	"time"

	"github.com/mealbox-next/internal/cart"
	"github.com/mealbox-next/internal/config"
	"github.com/mealbox-next/internal/constants"
)

// NextDeliveryStatus 配送状态推进链：placed → preparing → out_for_delivery → delivered
func NextDeliveryStatus(status string) (string, bool) {
	switch status {
	case constants.OrderStatusPlaced:
		return constants.OrderStatusPreparing, true
	case constants.OrderStatusPreparing:
		return constants.OrderStatusOutForDelivery, true
	case constants.OrderStatusOutForDelivery:
		return constants.OrderStatusDelivered, true
	default:
		return "", false
	}
}

// DeliveryAdvanceDelay 推进到目标状态前的等待时长（模拟时序，配置驱动）
func DeliveryAdvanceDelay(cfg config.DeliveryConfig, nextStatus string) time.Duration {
	seconds := 0
	switch nextStatus {
	case constants.OrderStatusPreparing:
		seconds = cfg.PreparingDelaySeconds
	case constants.OrderStatusOutForDelivery:
		seconds = cfg.OnTheWayDelaySeconds
	case constants.OrderStatusDelivered:
		seconds = cfg.DeliveredDelaySeconds
	}
	if seconds <= 0 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}

// RecurringInterval 周期订单下一次出现的时间间隔
func RecurringInterval(frequency string, from time.Time) time.Duration {
	switch frequency {
	case constants.RecurringFrequencyBiWeekly:
		return 14 * 24 * time.Hour
	case constants.RecurringFrequencyMonthly:
		return from.AddDate(0, 1, 0).Sub(from)
	default: // weekly
		return 7 * 24 * time.Hour
	}
}

// ShiftDateKey 将日期键按频率向后平移一个周期
func ShiftDateKey(key, frequency string) (string, error) {
	t, err := cart.ParseDateKey(key)
	if err != nil {
		return "", err
	}
	switch frequency {
	case constants.RecurringFrequencyBiWeekly:
		t = t.AddDate(0, 0, 14)
	case constants.RecurringFrequencyMonthly:
		t = t.AddDate(0, 1, 0)
	default: // weekly
		t = t.AddDate(0, 0, 7)
	}
	return cart.NormalizeDate(t), nil
}
