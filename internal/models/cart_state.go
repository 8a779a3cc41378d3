package models

import (
	"time"
)

// CartState 购物车状态快照表（按会话键值存储，等价于浏览器 localStorage）
type CartState struct {
	SessionID string    `gorm:"primarykey" json:"session_id"` // 会话标识
	ValueJSON JSON      `gorm:"type:json" json:"value"`       // 序列化后的购物车状态
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`      // 更新时间
}

// TableName 指定表名
func (CartState) TableName() string {
	return "cart_states"
}
