package cart

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mealbox-next/internal/logger"
)

// ErrInvalidQuantity 新增行数量不合法（≤ 0）
var ErrInvalidQuantity = errors.New("cart: quantity must be at least 1 for a new line")

// Persister 购物车状态持久化接口。
// Load 在无数据或数据损坏时返回规范空购物车而不是错误；
// Save 的失败由调用方记录日志，不回滚内存状态。
type Persister interface {
	Load() (State, error)
	Save(state State) error
}

// Store 购物车状态唯一持有者。
// 所有变更经由其操作完成，操作内部持锁，保证多协程下
// 读取-判断-写入的原子性；每次变更成功后立即持久化。
type Store struct {
	mu        sync.Mutex
	state     State
	persister Persister
	now       func() time.Time
}

// NewStore 创建并水合购物车
func NewStore(persister Persister) *Store {
	s := &Store{
		persister: persister,
		now:       time.Now,
	}
	s.state = NewState()
	if persister != nil {
		state, err := persister.Load()
		if err != nil {
			logger.Warnw("cart_load_failed", "error", err)
		} else {
			state.normalize()
			s.state = state
		}
	}
	return s
}

// AddItem 向指定日期的分组加入菜品。
// date 为零值时取当前时间；同一日期下相同菜品合并数量，
// 备注仅在传入非空时覆盖。新增行数量 ≤ 0 视为非法。
func (s *Store) AddItem(date time.Time, item Item, quantity int, instructions string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if date.IsZero() {
		date = s.now()
	}
	key := NormalizeDate(date)

	group, ok := s.state.DateGroups[key]
	if !ok {
		group = DateGroup{
			Date:         key,
			Items:        nil,
			DeliveryTime: DefaultDeliveryTime(key),
			Expanded:     true,
		}
	}

	idx := -1
	for i, line := range group.Items {
		if line.ItemID == item.ID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		group.Items[idx].Quantity += quantity
		if group.Items[idx].Quantity < 1 {
			group.Items[idx].Quantity = 1
		}
		if strings.TrimSpace(instructions) != "" {
			group.Items[idx].SpecialInstructions = instructions
		}
	} else {
		if quantity <= 0 {
			return ErrInvalidQuantity
		}
		group.Items = append(group.Items, Line{
			ItemID:              item.ID,
			Name:                item.Name,
			Price:               item.Price,
			ImageURL:            item.ImageURL,
			Restaurant:          item.Restaurant,
			Description:         item.Description,
			Quantity:            quantity,
			SpecialInstructions: instructions,
		})
	}

	s.state.DateGroups[key] = group
	s.persist()
	return nil
}

// UpdateItemQuantity 更新行数量；≤ 0 等价于删除该行，行不存在则静默忽略
func (s *Store) UpdateItemQuantity(dateKey, itemID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(dateKey, itemID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.state.DateGroups[dateKey]
	if !ok {
		return
	}
	for i, line := range group.Items {
		if line.ItemID == itemID {
			group.Items[i].Quantity = quantity
			s.state.DateGroups[dateKey] = group
			s.persist()
			return
		}
	}
}

// RemoveItem 删除行；删除后分组为空则整组移除。重复调用为幂等
func (s *Store) RemoveItem(dateKey, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.state.DateGroups[dateKey]
	if !ok {
		return
	}
	kept := make([]Line, 0, len(group.Items))
	for _, line := range group.Items {
		if line.ItemID != itemID {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(group.Items) {
		return
	}
	if len(kept) == 0 {
		delete(s.state.DateGroups, dateKey)
	} else {
		group.Items = kept
		s.state.DateGroups[dateKey] = group
	}
	s.persist()
}

// RemoveDateGroup 整组删除；组不存在则静默忽略
func (s *Store) RemoveDateGroup(dateKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.DateGroups[dateKey]; !ok {
		return
	}
	delete(s.state.DateGroups, dateKey)
	s.persist()
}

// ChangeDeliveryTime 修改分组配送时段。
// 不校验时段枚举（校验属于 UI 层职责），组不存在则静默忽略
func (s *Store) ChangeDeliveryTime(dateKey, deliveryTime string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.state.DateGroups[dateKey]
	if !ok {
		return
	}
	group.DeliveryTime = deliveryTime
	s.state.DateGroups[dateKey] = group
	s.persist()
}

// SetGroupExpanded 设置分组展开标记（纯展示状态）
func (s *Store) SetGroupExpanded(dateKey string, expanded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.state.DateGroups[dateKey]
	if !ok {
		return
	}
	group.Expanded = expanded
	s.state.DateGroups[dateKey] = group
	s.persist()
}

// ToggleRecurring 设置周期订单开关，不改动已选频率
func (s *Store) ToggleRecurring(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Recurring = on
	s.persist()
}

// SetRecurringFrequency 设置周期频率（仅在开关开启时有业务含义）
func (s *Store) SetRecurringFrequency(frequency string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.RecurringFrequency = frequency
	s.persist()
}

// Clear 重置为规范空购物车（结算成功或用户主动清空）
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = NewState()
	s.persist()
}

// Snapshot 返回当前状态的深拷贝
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// persist 持锁调用；写失败仅记录日志，内存状态仍为事实来源
func (s *Store) persist() {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(s.state.Clone()); err != nil {
		logger.Warnw("cart_persist_failed", "error", err)
	}
}
