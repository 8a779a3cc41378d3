package repository

import (
	"errors"

	"github.com/mealbox-next/internal/models"

	"gorm.io/gorm"
)

// MenuItemRepository 菜单数据访问接口
type MenuItemRepository interface {
	ListByRestaurant(restaurantID uint) ([]models.MenuItem, error)
	GetByPublicID(publicID string) (*models.MenuItem, error)
	Create(item *models.MenuItem) error
}

// GormMenuItemRepository GORM 实现
type GormMenuItemRepository struct {
	db *gorm.DB
}

// NewMenuItemRepository 创建菜单仓库
func NewMenuItemRepository(db *gorm.DB) *GormMenuItemRepository {
	return &GormMenuItemRepository{db: db}
}

// ListByRestaurant 获取餐厅的可售菜单项
func (r *GormMenuItemRepository) ListByRestaurant(restaurantID uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.Where("restaurant_id = ? AND is_available = ?", restaurantID, true).
		Order("sort_order asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetByPublicID 根据对外标识获取菜单项（含餐厅）
func (r *GormMenuItemRepository) GetByPublicID(publicID string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.Preload("Restaurant").Where("public_id = ?", publicID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create 创建菜单项
func (r *GormMenuItemRepository) Create(item *models.MenuItem) error {
	return r.db.Create(item).Error
}
