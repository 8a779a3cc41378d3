package service

import "errors"

// 服务层业务错误
var (
	ErrSessionRequired     = errors.New("session id required")
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrMenuItemUnavailable = errors.New("menu item unavailable")
	ErrInvalidDate         = errors.New("invalid delivery date")
	ErrInvalidFrequency    = errors.New("invalid recurring frequency")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrCheckoutCodeInvalid = errors.New("checkout code invalid or expired")
	ErrOrderNotFound       = errors.New("order not found")
)
