package models

import (
	"time"

	"gorm.io/gorm"
)

// MenuItem 菜单项表（购物车行的目录来源）
type MenuItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`                          // 主键
	PublicID     string         `gorm:"uniqueIndex;not null" json:"public_id"`         // 对外唯一标识
	RestaurantID uint           `gorm:"not null;index" json:"restaurant_id"`           // 所属餐厅
	Name         string         `gorm:"type:varchar(200);not null" json:"name"`        // 菜品名称
	Description  string         `gorm:"type:varchar(1000)" json:"description"`         // 描述
	PriceAmount  Money          `gorm:"type:decimal(12,2);not null" json:"price"`      // 单价
	ImageURL     string         `gorm:"type:varchar(500)" json:"image_url"`            // 图片
	Category     string         `gorm:"type:varchar(100);index" json:"category"`       // 分类（主食/饮品等）
	IsAvailable  bool           `gorm:"default:true;index" json:"is_available"`        // 是否可售
	SortOrder    int            `gorm:"default:0;index" json:"sort_order"`             // 排序权重
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                    // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间

	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"` // 关联餐厅
}

// TableName 指定表名
func (MenuItem) TableName() string {
	return "menu_items"
}
