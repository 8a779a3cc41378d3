package cart

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mealbox-next/internal/models"
)

// 日期键规范形式：按日截断到 UTC 午夜的 RFC3339 串。
// 参考实现以完整"当前时刻"时间戳作键，同一天两次加购会落进
// 两个分组；这里按日截断，见 DESIGN.md 的决策记录。
const dateKeyLayout = time.RFC3339

var dateInputLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeDate 将时间规范化为日期键（按日截断，UTC）
func NormalizeDate(t time.Time) string {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.Format(dateKeyLayout)
}

// NormalizeKey 将任意日期字符串规范化为日期键
func NormalizeKey(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("cart: empty date")
	}
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return NormalizeDate(t), nil
		}
	}
	return "", fmt.Errorf("cart: unrecognized date %q", raw)
}

// ParseDateKey 解析规范日期键
func ParseDateKey(key string) (time.Time, error) {
	return time.Parse(dateKeyLayout, key)
}

// FormatDateHeader 展示用日期标题："Monday, June 10"
func FormatDateHeader(key string) string {
	t, err := ParseDateKey(key)
	if err != nil {
		return key
	}
	return t.Format("Monday, January 2")
}

// IsToday 判断日期键是否为 now 所在日历日
func IsToday(key string, now time.Time) bool {
	t, err := ParseDateKey(key)
	if err != nil {
		return false
	}
	return sameCalendarDay(t, now.UTC())
}

// IsTomorrow 判断日期键是否为 now 的次日
func IsTomorrow(key string, now time.Time) bool {
	t, err := ParseDateKey(key)
	if err != nil {
		return false
	}
	return sameCalendarDay(t, now.UTC().AddDate(0, 0, 1))
}

// DateLabel 返回 "Today" / "Tomorrow" / 日期标题，按此优先级
func DateLabel(key string, now time.Time) string {
	switch {
	case IsToday(key, now):
		return "Today"
	case IsTomorrow(key, now):
		return "Tomorrow"
	default:
		return FormatDateHeader(key)
	}
}

func sameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// GroupSubtotal 分组小计：Σ 单价 × 数量
func GroupSubtotal(group DateGroup) models.Money {
	total := decimal.Zero
	for _, line := range group.Items {
		total = total.Add(line.Price.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return models.NewMoneyFromDecimal(total)
}

// GroupItemCount 分组商品总数：Σ 数量
func GroupItemCount(group DateGroup) int {
	count := 0
	for _, line := range group.Items {
		count += line.Quantity
	}
	return count
}

// Total 整车总额
func Total(state State) models.Money {
	total := decimal.Zero
	for _, group := range state.DateGroups {
		total = total.Add(GroupSubtotal(group).Decimal)
	}
	return models.NewMoneyFromDecimal(total)
}

// ItemCount 整车商品总数
func ItemCount(state State) int {
	count := 0
	for _, group := range state.DateGroups {
		count += GroupItemCount(group)
	}
	return count
}

// SortedGroups 按日期键升序返回分组。
// 展示顺序必须显式排序产生，不依赖 map 遍历顺序
func SortedGroups(state State) []DateGroup {
	groups := make([]DateGroup, 0, len(state.DateGroups))
	for _, group := range state.DateGroups {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date < groups[j].Date
	})
	return groups
}
