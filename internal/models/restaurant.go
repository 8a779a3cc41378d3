package models

import (
	"time"

	"gorm.io/gorm"
)

// Restaurant 餐厅表
type Restaurant struct {
	ID          uint           `gorm:"primarykey" json:"id"`                       // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`           // 唯一标识
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`     // 餐厅名称
	Cuisine     string         `gorm:"type:varchar(100);index" json:"cuisine"`     // 菜系
	Rating      float64        `gorm:"default:0" json:"rating"`                    // 评分（0-5）
	DeliveryETA string         `gorm:"type:varchar(50)" json:"delivery_eta"`       // 预计送达时长（展示用）
	ImageURL    string         `gorm:"type:varchar(500)" json:"image_url"`         // 封面图
	Tags        StringArray    `gorm:"type:json" json:"tags"`                      // 标签
	IsOpen      bool           `gorm:"default:true;index" json:"is_open"`          // 是否营业
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`          // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                    // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                 // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间

	MenuItems []MenuItem `gorm:"foreignKey:RestaurantID" json:"menu_items,omitempty"` // 关联菜单
}

// TableName 指定表名
func (Restaurant) TableName() string {
	return "restaurants"
}
