package cart

// 固定配送时段枚举：午市与晚市各五档
var deliverySlots = []string{
	"11:00 AM - 11:30 AM",
	"11:30 AM - 12:00 PM",
	"12:00 PM - 12:30 PM",
	"12:30 PM - 1:00 PM",
	"1:00 PM - 1:30 PM",
	"6:00 PM - 6:30 PM",
	"6:30 PM - 7:00 PM",
	"7:00 PM - 7:30 PM",
	"7:30 PM - 8:00 PM",
	"8:00 PM - 8:30 PM",
}

// DeliveryTimeSlots 返回指定日期可选的配送时段。
// 目前与日期无关，签名保留日期参数以便将来按日期收窄可选档位
func DeliveryTimeSlots(dateKey string) []string {
	_ = dateKey
	slots := make([]string, len(deliverySlots))
	copy(slots, deliverySlots)
	return slots
}

// DefaultDeliveryTime 返回该日期的默认配送时段（首个可选档位）
func DefaultDeliveryTime(dateKey string) string {
	slots := DeliveryTimeSlots(dateKey)
	if len(slots) == 0 {
		return ""
	}
	return slots[0]
}
