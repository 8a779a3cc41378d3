package repository

import (
	"testing"
	"time"

	"github.com/mealbox-next/internal/cart"
	"github.com/mealbox-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCartStateRepositoryTest(t *testing.T) *GormCartStateRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.CartState{}); err != nil {
		t.Fatalf("migrate cart_states failed: %v", err)
	}
	return NewCartStateRepository(db)
}

func TestCartStatePersisterRoundTrip(t *testing.T) {
	repo := setupCartStateRepositoryTest(t)
	persister := NewCartStatePersister(repo, "session-1")

	store := cart.NewStore(persister)
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	item := cart.Item{ID: "p1", Name: "Kung Pao Chicken", Price: models.NewMoneyFromFloat(12.5), Restaurant: "Golden Wok"}
	if err := store.AddItem(date, item, 2, "less oil"); err != nil {
		t.Fatalf("AddItem error: %v", err)
	}
	store.ToggleRecurring(true)

	reloaded := cart.NewStore(NewCartStatePersister(repo, "session-1")).Snapshot()
	key := cart.NormalizeDate(date)
	group, ok := reloaded.DateGroups[key]
	if !ok {
		t.Fatalf("expected group %s after reload, got %+v", key, reloaded.DateGroups)
	}
	if len(group.Items) != 1 || group.Items[0].Quantity != 2 {
		t.Fatalf("unexpected reloaded lines: %+v", group.Items)
	}
	if group.Items[0].SpecialInstructions != "less oil" {
		t.Fatalf("instructions lost: %q", group.Items[0].SpecialInstructions)
	}
	if group.Items[0].Price.String() != "12.50" {
		t.Fatalf("price lost: %s", group.Items[0].Price)
	}
	if !reloaded.Recurring {
		t.Fatalf("recurring flag lost")
	}
}

func TestCartStatePersisterSessionsAreIsolated(t *testing.T) {
	repo := setupCartStateRepositoryTest(t)
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	item := cart.Item{ID: "p1", Price: models.NewMoneyFromFloat(5)}

	storeA := cart.NewStore(NewCartStatePersister(repo, "session-a"))
	if err := storeA.AddItem(date, item, 1, ""); err != nil {
		t.Fatalf("AddItem error: %v", err)
	}

	storeB := cart.NewStore(NewCartStatePersister(repo, "session-b"))
	if len(storeB.Snapshot().DateGroups) != 0 {
		t.Fatalf("session-b must start empty")
	}
}

func TestCartStatePersisterCorruptBlobFallsBack(t *testing.T) {
	repo := setupCartStateRepositoryTest(t)
	// 写入无法映射回 State 的脏数据
	if err := repo.Upsert("session-x", models.JSON{"date_groups": "not-a-map"}); err != nil {
		t.Fatalf("upsert corrupt blob failed: %v", err)
	}

	state, err := NewCartStatePersister(repo, "session-x").Load()
	if err != nil {
		t.Fatalf("corrupt blob must not surface an error, got %v", err)
	}
	if len(state.DateGroups) != 0 {
		t.Fatalf("expected canonical empty cart, got %+v", state)
	}
}

func TestCartStateDeleteBySession(t *testing.T) {
	repo := setupCartStateRepositoryTest(t)
	if err := repo.Upsert("session-1", models.JSON{"is_recurring": false}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := repo.DeleteBySession("session-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	record, err := repo.GetBySession("session-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if record != nil {
		t.Fatalf("expected record deleted, got %+v", record)
	}
}
