package public

import (
	"errors"

	"github.com/mealbox-next/internal/http/response"
	"github.com/mealbox-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetRestaurants 获取营业中的餐厅列表
func (h *Handler) GetRestaurants(c *gin.Context) {
	restaurants, err := h.CatalogService.ListRestaurants()
	if err != nil {
		respondError(c, response.CodeInternal, "restaurant list failed", err)
		return
	}
	response.Success(c, gin.H{"restaurants": restaurants})
}

// GetRestaurantBySlug 获取餐厅详情（含可售菜单）
func (h *Handler) GetRestaurantBySlug(c *gin.Context) {
	restaurant, err := h.CatalogService.GetRestaurant(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			respondError(c, response.CodeNotFound, "restaurant not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "restaurant fetch failed", err)
		return
	}
	response.Success(c, restaurant)
}
