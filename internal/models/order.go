package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表（结算成功后由购物车快照生成）
type Order struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                             // 主键
	OrderNo            string         `gorm:"uniqueIndex;not null" json:"order_no"`             // 订单号
	SessionID          string         `gorm:"index;not null" json:"session_id"`                 // 下单会话
	Status             string         `gorm:"type:varchar(30);not null;index" json:"status"`    // 配送状态
	TotalAmount        Money          `gorm:"type:decimal(12,2);not null" json:"total_amount"`  // 订单总额
	ItemCount          int            `gorm:"not null" json:"item_count"`                       // 商品总数
	ContactName        string         `gorm:"type:varchar(100)" json:"contact_name"`            // 联系人
	ContactPhone       string         `gorm:"type:varchar(50)" json:"contact_phone"`            // 联系电话
	Address            string         `gorm:"type:varchar(500)" json:"address"`                 // 配送地址
	IsRecurring        bool           `gorm:"default:false;index" json:"is_recurring"`          // 是否周期订单
	RecurringFrequency string         `gorm:"type:varchar(20)" json:"recurring_frequency"`      // 周期频率
	PlacedAt           time.Time      `gorm:"index" json:"placed_at"`                           // 下单时间
	DeliveredAt        *time.Time     `json:"delivered_at,omitempty"`                           // 送达时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                          // 创建时间
	UpdatedAt          time.Time      `json:"updated_at"`                                       // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                   // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单明细
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
