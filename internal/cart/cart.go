package cart

import (
	"github.com/mealbox-next/internal/constants"
	"github.com/mealbox-next/internal/models"
)

// Item 目录菜品条目（由外部目录提供方校验后传入）
type Item struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Price       models.Money `json:"price"`
	ImageURL    string       `json:"image_url"`
	Restaurant  string       `json:"restaurant"`
	Description string       `json:"description,omitempty"`
}

// Line 购物车行：菜品快照 + 数量与备注
type Line struct {
	ItemID              string       `json:"item_id"`
	Name                string       `json:"name"`
	Price               models.Money `json:"price"`
	ImageURL            string       `json:"image_url"`
	Restaurant          string       `json:"restaurant"`
	Description         string       `json:"description,omitempty"`
	Quantity            int          `json:"quantity"`
	SpecialInstructions string       `json:"special_instructions,omitempty"`
}

// DateGroup 某个配送日期下的全部购物车行
type DateGroup struct {
	Date         string `json:"date"`          // 规范化日期键
	Items        []Line `json:"items"`         // 行列表（展示顺序为加入顺序）
	DeliveryTime string `json:"delivery_time"` // 配送时段
	Expanded     bool   `json:"expanded"`      // 展示用折叠标记
}

// State 购物车根聚合
type State struct {
	DateGroups         map[string]DateGroup `json:"date_groups"`
	Recurring          bool                 `json:"is_recurring"`
	RecurringFrequency string               `json:"recurring_frequency"`
}

// NewState 返回规范空购物车
func NewState() State {
	return State{
		DateGroups:         make(map[string]DateGroup),
		Recurring:          false,
		RecurringFrequency: constants.RecurringFrequencyWeekly,
	}
}

// Clone 深拷贝购物车状态
func (s State) Clone() State {
	clone := State{
		DateGroups:         make(map[string]DateGroup, len(s.DateGroups)),
		Recurring:          s.Recurring,
		RecurringFrequency: s.RecurringFrequency,
	}
	for key, group := range s.DateGroups {
		items := make([]Line, len(group.Items))
		copy(items, group.Items)
		group.Items = items
		clone.DateGroups[key] = group
	}
	return clone
}

// normalize 修复反序列化后的缺省字段，保证不变式成立
func (s *State) normalize() {
	if s.DateGroups == nil {
		s.DateGroups = make(map[string]DateGroup)
	}
	if s.RecurringFrequency == "" {
		s.RecurringFrequency = constants.RecurringFrequencyWeekly
	}
	for key, group := range s.DateGroups {
		kept := group.Items[:0]
		for _, line := range group.Items {
			if line.Quantity >= 1 {
				kept = append(kept, line)
			}
		}
		group.Items = kept
		if len(group.Items) == 0 {
			delete(s.DateGroups, key)
			continue
		}
		if group.Date == "" {
			group.Date = key
		}
		if group.DeliveryTime == "" {
			group.DeliveryTime = DefaultDeliveryTime(key)
		}
		s.DateGroups[key] = group
	}
}
