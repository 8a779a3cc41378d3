package constants

// 订单状态常量
const (
	OrderStatusPlaced         = "placed"
	OrderStatusPreparing      = "preparing"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCanceled       = "canceled"
)

// 周期订单频率常量
const (
	RecurringFrequencyWeekly   = "weekly"
	RecurringFrequencyBiWeekly = "bi-weekly"
	RecurringFrequencyMonthly  = "monthly"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskDeliveryAdvance     = "delivery:advance"
	TaskRecurringReschedule = "recurring:reschedule"
)

// 会话与请求头常量
const (
	CartSessionHeader = "X-Cart-Session"
)
