package repository

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/mealbox-next/internal/cart"
	"github.com/mealbox-next/internal/logger"
	"github.com/mealbox-next/internal/models"

	"gorm.io/gorm"
)

// CartStateRepository 购物车状态键值存取接口
type CartStateRepository interface {
	GetBySession(sessionID string) (*models.CartState, error)
	Upsert(sessionID string, value models.JSON) error
	DeleteBySession(sessionID string) error
}

// GormCartStateRepository GORM 实现
type GormCartStateRepository struct {
	db *gorm.DB
}

// NewCartStateRepository 创建购物车状态仓库
func NewCartStateRepository(db *gorm.DB) *GormCartStateRepository {
	return &GormCartStateRepository{db: db}
}

// GetBySession 获取会话的购物车状态快照
func (r *GormCartStateRepository) GetBySession(sessionID string) (*models.CartState, error) {
	var state models.CartState
	if err := r.db.Where("session_id = ?", sessionID).First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

// Upsert 写入会话的购物车状态快照
func (r *GormCartStateRepository) Upsert(sessionID string, value models.JSON) error {
	existing, err := r.GetBySession(sessionID)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(&models.CartState{
			SessionID: sessionID,
			ValueJSON: value,
			UpdatedAt: time.Now(),
		}).Error
	}
	return r.db.Model(existing).Updates(map[string]interface{}{
		"value_json": value,
		"updated_at": time.Now(),
	}).Error
}

// DeleteBySession 删除会话的购物车状态
func (r *GormCartStateRepository) DeleteBySession(sessionID string) error {
	return r.db.Where("session_id = ?", sessionID).Delete(&models.CartState{}).Error
}

// CartStatePersister 将仓库绑定到单个会话，实现 cart.Persister
type CartStatePersister struct {
	repo      CartStateRepository
	sessionID string
}

// NewCartStatePersister 创建会话级持久化器
func NewCartStatePersister(repo CartStateRepository, sessionID string) *CartStatePersister {
	return &CartStatePersister{repo: repo, sessionID: sessionID}
}

// Load 读取会话状态；无记录或数据损坏时返回规范空购物车
func (p *CartStatePersister) Load() (cart.State, error) {
	record, err := p.repo.GetBySession(p.sessionID)
	if err != nil {
		return cart.NewState(), err
	}
	if record == nil || record.ValueJSON == nil {
		return cart.NewState(), nil
	}
	payload, err := json.Marshal(record.ValueJSON)
	if err != nil {
		logger.Warnw("cart_state_marshal_failed", "session_id", p.sessionID, "error", err)
		return cart.NewState(), nil
	}
	var state cart.State
	if err := json.Unmarshal(payload, &state); err != nil {
		// 损坏的快照按空购物车处理，不向上层抛错
		logger.Warnw("cart_state_corrupt", "session_id", p.sessionID, "error", err)
		return cart.NewState(), nil
	}
	return state, nil
}

// Save 写入会话状态
func (p *CartStatePersister) Save(state cart.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	var value models.JSON
	if err := json.Unmarshal(payload, &value); err != nil {
		return err
	}
	return p.repo.Upsert(p.sessionID, value)
}
