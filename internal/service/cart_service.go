package service

import (
	"strings"
	"sync"
	"time"

	"github.com/mealbox-next/internal/cart"
	"github.com/mealbox-next/internal/constants"
	"github.com/mealbox-next/internal/repository"
)

// AddCartItemInput 加购输入
type AddCartItemInput struct {
	Date                string // 可为空：默认今天
	MenuItemID          string
	Quantity            int
	SpecialInstructions string
}

// CartService 购物车服务。
// 每个会话对应一个 cart.Store（带数据库持久化），服务负责
// 目录校验并把 HTTP 层的日期字符串规范化为核心的日期键。
type CartService struct {
	mu        sync.Mutex
	stores    map[string]*cart.Store
	stateRepo repository.CartStateRepository
	catalog   *CatalogService
}

// NewCartService 创建购物车服务
func NewCartService(stateRepo repository.CartStateRepository, catalog *CatalogService) *CartService {
	return &CartService{
		stores:    make(map[string]*cart.Store),
		stateRepo: stateRepo,
		catalog:   catalog,
	}
}

// StoreFor 获取（必要时水合）会话的购物车
func (s *CartService) StoreFor(sessionID string) (*cart.Store, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if store, ok := s.stores[sessionID]; ok {
		return store, nil
	}
	store := cart.NewStore(repository.NewCartStatePersister(s.stateRepo, sessionID))
	s.stores[sessionID] = store
	return store, nil
}

// Snapshot 获取会话购物车状态快照
func (s *CartService) Snapshot(sessionID string) (cart.State, error) {
	store, err := s.StoreFor(sessionID)
	if err != nil {
		return cart.State{}, err
	}
	return store.Snapshot(), nil
}

// AddItem 加购：目录校验 → 日期规范化 → 核心 AddItem
func (s *CartService) AddItem(sessionID string, input AddCartItemInput) error {
	store, err := s.StoreFor(sessionID)
	if err != nil {
		return err
	}

	menuItem, err := s.catalog.ResolveMenuItem(input.MenuItemID)
	if err != nil {
		return err
	}

	var date time.Time
	if strings.TrimSpace(input.Date) != "" {
		key, err := cart.NormalizeKey(input.Date)
		if err != nil {
			return ErrInvalidDate
		}
		date, err = cart.ParseDateKey(key)
		if err != nil {
			return ErrInvalidDate
		}
	}

	restaurantName := ""
	if menuItem.Restaurant != nil {
		restaurantName = menuItem.Restaurant.Name
	}
	return store.AddItem(date, cart.Item{
		ID:          menuItem.PublicID,
		Name:        menuItem.Name,
		Price:       menuItem.PriceAmount,
		ImageURL:    menuItem.ImageURL,
		Restaurant:  restaurantName,
		Description: menuItem.Description,
	}, input.Quantity, input.SpecialInstructions)
}

// UpdateItemQuantity 更新行数量（≤ 0 删除行）
func (s *CartService) UpdateItemQuantity(sessionID, dateKey, itemID string, quantity int) error {
	store, err := s.StoreFor(sessionID)
	if err != nil {
		return err
	}
	key, err := cart.NormalizeKey(dateKey)
	if err != nil {
		return ErrInvalidDate
	}
	store.UpdateItemQuantity(key, itemID, quantity)
	return nil
}

// RemoveItem 删除行
func (s *CartService) RemoveItem(sessionID, dateKey, itemID string) error {
	store, err := s.StoreFor(sessionID)
	if err != nil {
		return err
	}
	key, err := cart.NormalizeKey(dateKey)
	if err != nil {
		return ErrInvalidDate
	}
	store.RemoveItem(key, itemID)
	return nil
}

// RemoveDateGroup 删除整个日期分组
func (s *CartService) RemoveDateGroup(sessionID, dateKey string) error {
	store, err := s.StoreFor(sessionID)
	if err != nil {
		return err
	}
	key, err := cart.NormalizeKey(dateKey)
	if err != nil {
		return ErrInvalidDate
	}
	store.RemoveDateGroup(key)
	return nil
}

// ChangeDeliveryTime 修改分组配送时段
func (s *CartService) ChangeDeliveryTime(sessionID, dateKey, deliveryTime string) error {
	store, err := s.StoreFor(sessionID)
	if err != nil {
		return err
	}
	key, err := cart.NormalizeKey(dateKey)
	if err != nil {
		return ErrInvalidDate
	}
	store.ChangeDeliveryTime(key, deliveryTime)
	return nil
}

// SetGroupExpanded 设置分组展开标记
func (s *CartService) SetGroupExpanded(sessionID, dateKey string, expanded bool) error {
	store, err := s.StoreFor(sessionID)
	if err != nil {
		return err
	}
	key, err := cart.NormalizeKey(dateKey)
	if err != nil {
		return ErrInvalidDate
	}
	store.SetGroupExpanded(key, expanded)
	return nil
}

// ToggleRecurring 设置周期订单开关
func (s *CartService) ToggleRecurring(sessionID string, on bool) error {
	store, err := s.StoreFor(sessionID)
	if err != nil {
		return err
	}
	store.ToggleRecurring(on)
	return nil
}

// SetRecurringFrequency 设置周期频率
func (s *CartService) SetRecurringFrequency(sessionID, frequency string) error {
	store, err := s.StoreFor(sessionID)
	if err != nil {
		return err
	}
	switch frequency {
	case constants.RecurringFrequencyWeekly,
		constants.RecurringFrequencyBiWeekly,
		constants.RecurringFrequencyMonthly:
	default:
		return ErrInvalidFrequency
	}
	store.SetRecurringFrequency(frequency)
	return nil
}

// Clear 清空会话购物车
func (s *CartService) Clear(sessionID string) error {
	store, err := s.StoreFor(sessionID)
	if err != nil {
		return err
	}
	store.Clear()
	return nil
}
