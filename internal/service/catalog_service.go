package service

import (
	"strings"

	"github.com/mealbox-next/internal/models"
	"github.com/mealbox-next/internal/repository"
)

// CatalogService 餐厅与菜单目录服务
type CatalogService struct {
	restaurantRepo repository.RestaurantRepository
	menuRepo       repository.MenuItemRepository
}

// NewCatalogService 创建目录服务
func NewCatalogService(restaurantRepo repository.RestaurantRepository, menuRepo repository.MenuItemRepository) *CatalogService {
	return &CatalogService{
		restaurantRepo: restaurantRepo,
		menuRepo:       menuRepo,
	}
}

// ListRestaurants 获取营业中的餐厅列表
func (s *CatalogService) ListRestaurants() ([]models.Restaurant, error) {
	return s.restaurantRepo.List(true)
}

// GetRestaurant 根据 slug 获取餐厅（含可售菜单）
func (s *CatalogService) GetRestaurant(slug string) (*models.Restaurant, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrRestaurantNotFound
	}
	restaurant, err := s.restaurantRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}
	return restaurant, nil
}

// ResolveMenuItem 解析可售菜单项（购物车加购前的目录校验）
func (s *CatalogService) ResolveMenuItem(publicID string) (*models.MenuItem, error) {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return nil, ErrMenuItemNotFound
	}
	item, err := s.menuRepo.GetByPublicID(publicID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	if !item.IsAvailable {
		return nil, ErrMenuItemUnavailable
	}
	return item, nil
}
