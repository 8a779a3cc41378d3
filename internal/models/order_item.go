package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单明细表（保留下单时的菜品快照与配送日期分组信息）
type OrderItem struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                           // 主键
	OrderID             uint           `gorm:"not null;index" json:"order_id"`                 // 所属订单
	MenuItemPublicID    string         `gorm:"type:varchar(64);not null" json:"menu_item_id"`  // 菜品对外标识
	Name                string         `gorm:"type:varchar(200);not null" json:"name"`         // 菜品名称快照
	Restaurant          string         `gorm:"type:varchar(200)" json:"restaurant"`            // 餐厅名称快照
	UnitPrice           Money          `gorm:"type:decimal(12,2);not null" json:"unit_price"`  // 单价快照
	Quantity            int            `gorm:"not null" json:"quantity"`                       // 数量
	SpecialInstructions string         `gorm:"type:varchar(500)" json:"special_instructions"`  // 备注
	DeliveryDate        string         `gorm:"type:varchar(40);not null;index" json:"delivery_date"` // 配送日期键
	DeliveryTime        string         `gorm:"type:varchar(50)" json:"delivery_time"`          // 配送时段
	CreatedAt           time.Time      `json:"created_at"`                                     // 创建时间
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
