package main

import (
	"fmt"

	"github.com/mealbox-next/internal/config"
	"github.com/mealbox-next/internal/logger"
	"github.com/mealbox-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加餐厅
	restaurants := []models.Restaurant{
		{
			Slug:        "golden-wok",
			Name:        "Golden Wok",
			Cuisine:     "Chinese",
			Rating:      4.7,
			DeliveryETA: "25-35 min",
			ImageURL:    "https://images.unsplash.com/photo-1526318896980-cf78c088247c?w=800",
			Tags:        models.StringArray([]string{"Spicy", "Wok", "Family"}),
			IsOpen:      true,
			SortOrder:   1,
		},
		{
			Slug:        "bella-italia",
			Name:        "Bella Italia",
			Cuisine:     "Italian",
			Rating:      4.5,
			DeliveryETA: "30-40 min",
			ImageURL:    "https://images.unsplash.com/photo-1513104890138-7c749659a591?w=800",
			Tags:        models.StringArray([]string{"Pizza", "Pasta"}),
			IsOpen:      true,
			SortOrder:   2,
		},
		{
			Slug:        "sakura-sushi",
			Name:        "Sakura Sushi",
			Cuisine:     "Japanese",
			Rating:      4.8,
			DeliveryETA: "20-30 min",
			ImageURL:    "https://images.unsplash.com/photo-1579871494447-9811cf80d66c?w=800",
			Tags:        models.StringArray([]string{"Sushi", "Fresh"}),
			IsOpen:      true,
			SortOrder:   3,
		},
		{
			Slug:        "green-bowl",
			Name:        "Green Bowl",
			Cuisine:     "Healthy",
			Rating:      4.3,
			DeliveryETA: "15-25 min",
			ImageURL:    "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?w=800",
			Tags:        models.StringArray([]string{"Salad", "Vegan"}),
			IsOpen:      true,
			SortOrder:   4,
		},
	}

	restaurantIDs := map[string]uint{}
	for _, restaurant := range restaurants {
		var existing models.Restaurant
		if err := models.DB.Where("slug = ?", restaurant.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&restaurant).Error; err != nil {
				stdLog.Printf("Failed to create restaurant %s: %v", restaurant.Slug, err)
				continue
			}
			stdLog.Printf("Created restaurant: %s", restaurant.Slug)
			restaurantIDs[restaurant.Slug] = restaurant.ID
			continue
		}
		stdLog.Printf("Restaurant already exists: %s", existing.Slug)
		restaurantIDs[existing.Slug] = existing.ID
	}

	type seedMenuItem struct {
		restaurantSlug string
		name           string
		description    string
		price          float64
		category       string
		imageURL       string
	}

	menuItems := []seedMenuItem{
		{"golden-wok", "Kung Pao Chicken", "Stir-fried chicken with peanuts and dried chili", 12.50, "Mains", "https://images.unsplash.com/photo-1525755662778-989d0524087e?w=600"},
		{"golden-wok", "Mapo Tofu", "Silken tofu in a fiery Sichuan pepper sauce", 10.80, "Mains", "https://images.unsplash.com/photo-1582878826629-29b7ad1cdc43?w=600"},
		{"golden-wok", "Spring Rolls", "Crispy vegetable rolls with sweet chili dip", 7.25, "Starters", "https://images.unsplash.com/photo-1544025162-d76694265947?w=600"},
		{"golden-wok", "Jasmine Tea", "Fragrant loose-leaf jasmine tea", 3.50, "Drinks", ""},
		{"bella-italia", "Margherita Pizza", "San Marzano tomatoes, mozzarella, fresh basil", 14.00, "Pizza", "https://images.unsplash.com/photo-1574071318508-1cdbab80d002?w=600"},
		{"bella-italia", "Carbonara", "Spaghetti with guanciale, egg and pecorino", 13.50, "Pasta", "https://images.unsplash.com/photo-1612874742237-6526221588e3?w=600"},
		{"bella-italia", "Tiramisu", "Classic mascarpone dessert with espresso", 6.90, "Desserts", ""},
		{"sakura-sushi", "Salmon Nigiri Set", "Eight pieces of fresh salmon nigiri", 16.40, "Sushi", "https://images.unsplash.com/photo-1611143669185-af224c5e3252?w=600"},
		{"sakura-sushi", "California Roll", "Crab, avocado and cucumber roll", 9.80, "Rolls", ""},
		{"sakura-sushi", "Miso Soup", "Tofu, wakame and scallion", 4.20, "Sides", ""},
		{"green-bowl", "Buddha Bowl", "Quinoa, roasted chickpeas, avocado, tahini", 11.90, "Bowls", "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=600"},
		{"green-bowl", "Matcha Smoothie", "Matcha, banana, oat milk", 5.60, "Drinks", ""},
	}

	for index, item := range menuItems {
		restaurantID, ok := restaurantIDs[item.restaurantSlug]
		if !ok {
			stdLog.Printf("Skip menu item %s: restaurant %s missing", item.name, item.restaurantSlug)
			continue
		}
		publicID := fmt.Sprintf("%s-%02d", item.restaurantSlug, index+1)
		var existing models.MenuItem
		if err := models.DB.Where("public_id = ?", publicID).First(&existing).Error; err == nil {
			stdLog.Printf("Menu item already exists: %s", publicID)
			continue
		}
		record := models.MenuItem{
			PublicID:     publicID,
			RestaurantID: restaurantID,
			Name:         item.name,
			Description:  item.description,
			PriceAmount:  models.NewMoneyFromDecimal(decimal.NewFromFloat(item.price)),
			ImageURL:     item.imageURL,
			Category:     item.category,
			IsAvailable:  true,
			SortOrder:    index,
		}
		if err := models.DB.Create(&record).Error; err != nil {
			stdLog.Printf("Failed to create menu item %s: %v", publicID, err)
			continue
		}
		stdLog.Printf("Created menu item: %s (%s)", item.name, publicID)
	}

	stdLog.Printf("Seed finished")
}
