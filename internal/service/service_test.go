package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/mealbox-next/internal/cart"
	"github.com/mealbox-next/internal/config"
	"github.com/mealbox-next/internal/constants"
	"github.com/mealbox-next/internal/models"
	"github.com/mealbox-next/internal/queue"
	"github.com/mealbox-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var seedSeq atomic.Int64

type serviceTestEnv struct {
	catalog    *CatalogService
	carts      *CartService
	checkout   *CheckoutService
	orders     *OrderService
	restaurant *models.Restaurant
	mainDish   *models.MenuItem
	sideDish   *models.MenuItem
	offMenu    *models.MenuItem
}

func setupServiceTest(t *testing.T) *serviceTestEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.Restaurant{},
		&models.MenuItem{},
		&models.CartState{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	seq := seedSeq.Add(1)
	restaurantRepo := repository.NewRestaurantRepository(db)
	menuRepo := repository.NewMenuItemRepository(db)
	restaurant := &models.Restaurant{
		Slug:   fmt.Sprintf("golden-wok-%d", seq),
		Name:   "Golden Wok",
		IsOpen: true,
	}
	if err := restaurantRepo.Create(restaurant); err != nil {
		t.Fatalf("seed restaurant failed: %v", err)
	}
	mainDish := &models.MenuItem{
		PublicID:     fmt.Sprintf("dish-main-%d", seq),
		RestaurantID: restaurant.ID,
		Name:         "Kung Pao Chicken",
		PriceAmount:  models.NewMoneyFromFloat(12.50),
		IsAvailable:  true,
	}
	sideDish := &models.MenuItem{
		PublicID:     fmt.Sprintf("dish-side-%d", seq),
		RestaurantID: restaurant.ID,
		Name:         "Spring Rolls",
		PriceAmount:  models.NewMoneyFromFloat(7.25),
		IsAvailable:  true,
	}
	offMenu := &models.MenuItem{
		PublicID:     fmt.Sprintf("dish-off-%d", seq),
		RestaurantID: restaurant.ID,
		Name:         "Seasonal Special",
		PriceAmount:  models.NewMoneyFromFloat(19.99),
		IsAvailable:  false,
	}
	for _, item := range []*models.MenuItem{mainDish, sideDish, offMenu} {
		if err := menuRepo.Create(item); err != nil {
			t.Fatalf("seed menu item failed: %v", err)
		}
	}

	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}
	catalog := NewCatalogService(restaurantRepo, menuRepo)
	carts := NewCartService(repository.NewCartStateRepository(db), catalog)
	orderRepo := repository.NewOrderRepository(db)
	checkoutCfg := config.CheckoutConfig{CodeExpireSeconds: 300, CodeLength: 6}
	deliveryCfg := config.DeliveryConfig{PreparingDelaySeconds: 5, OnTheWayDelaySeconds: 5, DeliveredDelaySeconds: 5}
	return &serviceTestEnv{
		catalog:    catalog,
		carts:      carts,
		checkout:   NewCheckoutService(carts, orderRepo, queueClient, checkoutCfg, deliveryCfg),
		orders:     NewOrderService(orderRepo, queueClient, deliveryCfg),
		restaurant: restaurant,
		mainDish:   mainDish,
		sideDish:   sideDish,
		offMenu:    offMenu,
	}
}

func newSessionID(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("sess-%s-%d", t.Name(), seedSeq.Add(1))
}

func TestCatalogServiceGetRestaurant(t *testing.T) {
	env := setupServiceTest(t)

	got, err := env.catalog.GetRestaurant(env.restaurant.Slug)
	if err != nil {
		t.Fatalf("GetRestaurant error: %v", err)
	}
	// 详情只带可售菜单
	if len(got.MenuItems) != 2 {
		t.Fatalf("expected 2 available menu items, got %d", len(got.MenuItems))
	}

	if _, err := env.catalog.GetRestaurant("no-such-slug"); !errors.Is(err, ErrRestaurantNotFound) {
		t.Fatalf("expected ErrRestaurantNotFound, got %v", err)
	}
}

func TestCartServiceAddItemValidatesCatalog(t *testing.T) {
	env := setupServiceTest(t)
	sessionID := newSessionID(t)

	err := env.carts.AddItem(sessionID, AddCartItemInput{MenuItemID: "ghost-item", Quantity: 1})
	if !errors.Is(err, ErrMenuItemNotFound) {
		t.Fatalf("expected ErrMenuItemNotFound, got %v", err)
	}
	err = env.carts.AddItem(sessionID, AddCartItemInput{MenuItemID: env.offMenu.PublicID, Quantity: 1})
	if !errors.Is(err, ErrMenuItemUnavailable) {
		t.Fatalf("expected ErrMenuItemUnavailable, got %v", err)
	}
	state, err := env.carts.Snapshot(sessionID)
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if len(state.DateGroups) != 0 {
		t.Fatalf("rejected adds must leave cart empty, got %+v", state.DateGroups)
	}
}

func TestCartServiceAddItemSnapshotsCatalogFields(t *testing.T) {
	env := setupServiceTest(t)
	sessionID := newSessionID(t)

	err := env.carts.AddItem(sessionID, AddCartItemInput{
		Date:                "2024-06-10",
		MenuItemID:          env.mainDish.PublicID,
		Quantity:            2,
		SpecialInstructions: "extra spicy",
	})
	if err != nil {
		t.Fatalf("AddItem error: %v", err)
	}

	state, err := env.carts.Snapshot(sessionID)
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	group, ok := state.DateGroups["2024-06-10T00:00:00Z"]
	if !ok {
		t.Fatalf("expected day-truncated group key, got %+v", state.DateGroups)
	}
	line := group.Items[0]
	if line.Name != "Kung Pao Chicken" || line.Restaurant != "Golden Wok" {
		t.Fatalf("catalog snapshot missing on line: %+v", line)
	}
	if line.Price.String() != "12.50" || line.Quantity != 2 {
		t.Fatalf("unexpected line price/quantity: %+v", line)
	}
}

func TestCartServiceRejectsMalformedDate(t *testing.T) {
	env := setupServiceTest(t)
	sessionID := newSessionID(t)

	err := env.carts.AddItem(sessionID, AddCartItemInput{
		Date:       "next tuesday",
		MenuItemID: env.mainDish.PublicID,
		Quantity:   1,
	})
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if err := env.carts.RemoveItem(sessionID, "06/10/2024", "x"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate on remove, got %v", err)
	}
}

func TestCartServiceRejectsUnknownFrequency(t *testing.T) {
	env := setupServiceTest(t)
	sessionID := newSessionID(t)

	if err := env.carts.SetRecurringFrequency(sessionID, "daily"); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
	if err := env.carts.SetRecurringFrequency(sessionID, constants.RecurringFrequencyMonthly); err != nil {
		t.Fatalf("monthly must be accepted, got %v", err)
	}
}

func TestCartServiceRequiresSession(t *testing.T) {
	env := setupServiceTest(t)
	if _, err := env.carts.Snapshot("  "); !errors.Is(err, ErrSessionRequired) {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}
}

func TestCheckoutPreview(t *testing.T) {
	env := setupServiceTest(t)
	sessionID := newSessionID(t)

	if _, err := env.checkout.Preview(sessionID); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}

	mustAdd(t, env, sessionID, env.mainDish.PublicID, "2024-06-12", 2)
	mustAdd(t, env, sessionID, env.sideDish.PublicID, "2024-06-10", 1)

	preview, err := env.checkout.Preview(sessionID)
	if err != nil {
		t.Fatalf("Preview error: %v", err)
	}
	if len(preview.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(preview.Groups))
	}
	// 分组按日期升序
	if preview.Groups[0].Date != "2024-06-10T00:00:00Z" {
		t.Fatalf("groups not sorted: %+v", preview.Groups)
	}
	if preview.Groups[0].Subtotal.String() != "7.25" || preview.Groups[1].Subtotal.String() != "25.00" {
		t.Fatalf("unexpected subtotals: %s / %s", preview.Groups[0].Subtotal, preview.Groups[1].Subtotal)
	}
	if preview.Total.String() != "32.25" || preview.ItemCount != 3 {
		t.Fatalf("unexpected totals: total=%s count=%d", preview.Total, preview.ItemCount)
	}
}

func TestCheckoutRequestCodeNeedsNonEmptyCart(t *testing.T) {
	env := setupServiceTest(t)
	sessionID := newSessionID(t)

	if _, err := env.checkout.RequestCode(context.Background(), sessionID); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}

	mustAdd(t, env, sessionID, env.mainDish.PublicID, "2024-06-10", 1)
	code, err := env.checkout.RequestCode(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("RequestCode error: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("code must be digits only, got %q", code)
		}
	}
}

func TestCheckoutConfirmCreatesOrderAndClearsCart(t *testing.T) {
	env := setupServiceTest(t)
	sessionID := newSessionID(t)

	mustAdd(t, env, sessionID, env.mainDish.PublicID, "2024-06-12", 2)
	mustAdd(t, env, sessionID, env.sideDish.PublicID, "2024-06-10", 1)
	if err := env.carts.ChangeDeliveryTime(sessionID, "2024-06-10", "7:00 PM - 7:30 PM"); err != nil {
		t.Fatalf("ChangeDeliveryTime error: %v", err)
	}

	order, err := env.checkout.Confirm(context.Background(), sessionID, ConfirmCheckoutInput{
		ContactName:  "Li Lei",
		ContactPhone: "13800000000",
		Address:      "1 Demo Street",
	})
	if err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	if order.Status != constants.OrderStatusPlaced {
		t.Fatalf("new order must be placed, got %s", order.Status)
	}
	if order.TotalAmount.String() != "32.25" || order.ItemCount != 3 {
		t.Fatalf("unexpected order totals: %s / %d", order.TotalAmount, order.ItemCount)
	}
	if order.OrderNo == "" {
		t.Fatalf("order number missing")
	}

	// 订单明细按日期排序并带上分组的配送时段
	got, err := env.orders.GetByOrderNo(sessionID, order.OrderNo)
	if err != nil {
		t.Fatalf("GetByOrderNo error: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(got.Items))
	}
	if got.Items[0].DeliveryDate != "2024-06-10T00:00:00Z" || got.Items[0].DeliveryTime != "7:00 PM - 7:30 PM" {
		t.Fatalf("unexpected first item delivery: %+v", got.Items[0])
	}
	if got.Items[1].DeliveryDate != "2024-06-12T00:00:00Z" || got.Items[1].Quantity != 2 {
		t.Fatalf("unexpected second item: %+v", got.Items[1])
	}

	state, err := env.carts.Snapshot(sessionID)
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if len(state.DateGroups) != 0 {
		t.Fatalf("cart must be cleared after confirm, got %+v", state.DateGroups)
	}
}

func TestCheckoutConfirmEmptyCart(t *testing.T) {
	env := setupServiceTest(t)
	_, err := env.checkout.Confirm(context.Background(), newSessionID(t), ConfirmCheckoutInput{})
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestOrderServiceScopesOrdersToSession(t *testing.T) {
	env := setupServiceTest(t)
	sessionID := newSessionID(t)

	mustAdd(t, env, sessionID, env.mainDish.PublicID, "2024-06-10", 1)
	order, err := env.checkout.Confirm(context.Background(), sessionID, ConfirmCheckoutInput{})
	if err != nil {
		t.Fatalf("Confirm error: %v", err)
	}

	if _, err := env.orders.GetByOrderNo("other-session", order.OrderNo); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign session, got %v", err)
	}
	orders, total, err := env.orders.ListBySession(sessionID, 1, 10)
	if err != nil {
		t.Fatalf("ListBySession error: %v", err)
	}
	if total != 1 || len(orders) != 1 || orders[0].OrderNo != order.OrderNo {
		t.Fatalf("unexpected order list: total=%d orders=%+v", total, orders)
	}
}

func TestOrderServiceAdvanceDelivery(t *testing.T) {
	env := setupServiceTest(t)
	sessionID := newSessionID(t)

	mustAdd(t, env, sessionID, env.mainDish.PublicID, "2024-06-10", 1)
	order, err := env.checkout.Confirm(context.Background(), sessionID, ConfirmCheckoutInput{})
	if err != nil {
		t.Fatalf("Confirm error: %v", err)
	}

	// 非法跳跃静默跳过
	if err := env.orders.AdvanceDelivery(order.ID, constants.OrderStatusDelivered); err != nil {
		t.Fatalf("AdvanceDelivery error: %v", err)
	}
	got, err := env.orders.GetByOrderNo(sessionID, order.OrderNo)
	if err != nil {
		t.Fatalf("GetByOrderNo error: %v", err)
	}
	if got.Status != constants.OrderStatusPlaced {
		t.Fatalf("out-of-order advance must be ignored, got %s", got.Status)
	}

	for _, status := range []string{
		constants.OrderStatusPreparing,
		constants.OrderStatusOutForDelivery,
		constants.OrderStatusDelivered,
	} {
		if err := env.orders.AdvanceDelivery(order.ID, status); err != nil {
			t.Fatalf("AdvanceDelivery(%s) error: %v", status, err)
		}
	}
	got, err = env.orders.GetByOrderNo(sessionID, order.OrderNo)
	if err != nil {
		t.Fatalf("GetByOrderNo error: %v", err)
	}
	if got.Status != constants.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", got.Status)
	}
	if got.DeliveredAt == nil {
		t.Fatalf("delivered_at must be set on final hop")
	}

	// 终态后不再推进
	if err := env.orders.AdvanceDelivery(order.ID, constants.OrderStatusPreparing); err != nil {
		t.Fatalf("AdvanceDelivery after delivered error: %v", err)
	}

	// 不存在的订单静默跳过（延时任务可能指向已清理的数据）
	if err := env.orders.AdvanceDelivery(99999999, constants.OrderStatusPreparing); err != nil {
		t.Fatalf("missing order must not error: %v", err)
	}
}

func TestOrderServiceRescheduleRecurring(t *testing.T) {
	env := setupServiceTest(t)
	sessionID := newSessionID(t)

	mustAdd(t, env, sessionID, env.mainDish.PublicID, "2024-06-10", 2)
	if err := env.carts.ToggleRecurring(sessionID, true); err != nil {
		t.Fatalf("ToggleRecurring error: %v", err)
	}
	order, err := env.checkout.Confirm(context.Background(), sessionID, ConfirmCheckoutInput{ContactName: "Li Lei"})
	if err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	if !order.IsRecurring || order.RecurringFrequency != constants.RecurringFrequencyWeekly {
		t.Fatalf("recurring metadata lost: %+v", order)
	}

	if err := env.orders.RescheduleRecurring(order.ID); err != nil {
		t.Fatalf("RescheduleRecurring error: %v", err)
	}
	orders, total, err := env.orders.ListBySession(sessionID, 1, 10)
	if err != nil {
		t.Fatalf("ListBySession error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected cloned order, total=%d", total)
	}
	var clone *models.Order
	for i := range orders {
		if orders[i].OrderNo != order.OrderNo {
			clone = &orders[i]
		}
	}
	if clone == nil {
		t.Fatalf("clone not found in %+v", orders)
	}
	if clone.Status != constants.OrderStatusPlaced || !clone.IsRecurring {
		t.Fatalf("clone must restart the delivery chain: %+v", clone)
	}
	if clone.ContactName != "Li Lei" || clone.TotalAmount.String() != "25.00" {
		t.Fatalf("clone must carry contact and totals: %+v", clone)
	}
	// weekly：配送日期向后平移 7 天
	if clone.Items[0].DeliveryDate != "2024-06-17T00:00:00Z" {
		t.Fatalf("delivery date not shifted: %s", clone.Items[0].DeliveryDate)
	}
	if clone.Items[0].Quantity != 2 {
		t.Fatalf("clone line quantity lost: %+v", clone.Items[0])
	}
}

func TestOrderServiceRescheduleIgnoresOneOffOrders(t *testing.T) {
	env := setupServiceTest(t)
	sessionID := newSessionID(t)

	mustAdd(t, env, sessionID, env.mainDish.PublicID, "2024-06-10", 1)
	order, err := env.checkout.Confirm(context.Background(), sessionID, ConfirmCheckoutInput{})
	if err != nil {
		t.Fatalf("Confirm error: %v", err)
	}

	if err := env.orders.RescheduleRecurring(order.ID); err != nil {
		t.Fatalf("RescheduleRecurring error: %v", err)
	}
	_, total, err := env.orders.ListBySession(sessionID, 1, 10)
	if err != nil {
		t.Fatalf("ListBySession error: %v", err)
	}
	if total != 1 {
		t.Fatalf("one-off order must not be cloned, total=%d", total)
	}
}

func TestShiftDateKey(t *testing.T) {
	cases := []struct {
		frequency string
		want      string
	}{
		{constants.RecurringFrequencyWeekly, "2024-06-17T00:00:00Z"},
		{constants.RecurringFrequencyBiWeekly, "2024-06-24T00:00:00Z"},
		{constants.RecurringFrequencyMonthly, "2024-07-10T00:00:00Z"},
	}
	for _, tc := range cases {
		got, err := ShiftDateKey("2024-06-10T00:00:00Z", tc.frequency)
		if err != nil {
			t.Fatalf("ShiftDateKey(%s) error: %v", tc.frequency, err)
		}
		if got != tc.want {
			t.Fatalf("ShiftDateKey(%s) = %s, want %s", tc.frequency, got, tc.want)
		}
	}
	if _, err := ShiftDateKey("garbage", constants.RecurringFrequencyWeekly); err == nil {
		t.Fatalf("expected error for malformed key")
	}
}

func TestNextDeliveryStatusChain(t *testing.T) {
	chain := []string{constants.OrderStatusPlaced}
	status := constants.OrderStatusPlaced
	for {
		next, ok := NextDeliveryStatus(status)
		if !ok {
			break
		}
		chain = append(chain, next)
		status = next
	}
	want := []string{
		constants.OrderStatusPlaced,
		constants.OrderStatusPreparing,
		constants.OrderStatusOutForDelivery,
		constants.OrderStatusDelivered,
	}
	if len(chain) != len(want) {
		t.Fatalf("unexpected chain: %v", chain)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Fatalf("unexpected chain: %v", chain)
		}
	}
	if _, ok := NextDeliveryStatus(constants.OrderStatusCanceled); ok {
		t.Fatalf("canceled must be terminal")
	}
}

func mustAdd(t *testing.T, env *serviceTestEnv, sessionID, menuItemID, date string, quantity int) {
	t.Helper()
	err := env.carts.AddItem(sessionID, AddCartItemInput{
		Date:       date,
		MenuItemID: menuItemID,
		Quantity:   quantity,
	})
	if err != nil {
		t.Fatalf("AddItem(%s) error: %v", menuItemID, err)
	}
}

// 确认后的购物车水合自持久层，避免仅测内存路径
func TestCheckoutConfirmPersistsClearedCart(t *testing.T) {
	env := setupServiceTest(t)
	sessionID := newSessionID(t)

	mustAdd(t, env, sessionID, env.mainDish.PublicID, "2024-06-10", 1)
	if _, err := env.checkout.Confirm(context.Background(), sessionID, ConfirmCheckoutInput{}); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}

	// 新的 CartService 实例强制从数据库重新加载
	fresh := NewCartService(env.carts.stateRepo, env.catalog)
	state, err := fresh.Snapshot(sessionID)
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if len(state.DateGroups) != 0 {
		t.Fatalf("cleared cart must persist, got %+v", state.DateGroups)
	}
	if !cartStateEqual(state, cart.NewState()) {
		t.Fatalf("cleared cart must be canonical empty state: %+v", state)
	}
}

func cartStateEqual(a, b cart.State) bool {
	return len(a.DateGroups) == len(b.DateGroups) &&
		a.Recurring == b.Recurring &&
		a.RecurringFrequency == b.RecurringFrequency
}
