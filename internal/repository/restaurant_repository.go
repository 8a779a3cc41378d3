package repository

import (
	"errors"

	"github.com/mealbox-next/internal/models"

	"gorm.io/gorm"
)

// RestaurantRepository 餐厅数据访问接口
type RestaurantRepository interface {
	List(onlyOpen bool) ([]models.Restaurant, error)
	GetBySlug(slug string) (*models.Restaurant, error)
	Create(restaurant *models.Restaurant) error
}

// GormRestaurantRepository GORM 实现
type GormRestaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository 创建餐厅仓库
func NewRestaurantRepository(db *gorm.DB) *GormRestaurantRepository {
	return &GormRestaurantRepository{db: db}
}

// List 获取餐厅列表
func (r *GormRestaurantRepository) List(onlyOpen bool) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	query := r.db.Order("sort_order asc, id asc")
	if onlyOpen {
		query = query.Where("is_open = ?", true)
	}
	if err := query.Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

// GetBySlug 根据 slug 获取餐厅（含菜单）
func (r *GormRestaurantRepository) GetBySlug(slug string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	query := r.db.Preload("MenuItems", func(db *gorm.DB) *gorm.DB {
		return db.Where("is_available = ?", true).Order("sort_order asc, id asc")
	})
	if err := query.Where("slug = ?", slug).First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &restaurant, nil
}

// Create 创建餐厅
func (r *GormRestaurantRepository) Create(restaurant *models.Restaurant) error {
	return r.db.Create(restaurant).Error
}
