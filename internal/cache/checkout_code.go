package cache

import (
	"context"
	"fmt"
	"time"
)

// CheckoutCode 结算确认码快照（仅服务端缓存，演示用的模拟 OTP）
type CheckoutCode struct {
	SessionID string `json:"session_id"`
	Code      string `json:"code"`
	IssuedAt  int64  `json:"issued_at"`
}

func checkoutCodeKey(sessionID string) string {
	return fmt.Sprintf("checkout:code:%s", sessionID)
}

// SetCheckoutCode 写入会话的结算确认码
func SetCheckoutCode(ctx context.Context, sessionID, code string, ttl time.Duration) error {
	if sessionID == "" || code == "" {
		return nil
	}
	state := &CheckoutCode{
		SessionID: sessionID,
		Code:      code,
		IssuedAt:  time.Now().Unix(),
	}
	return SetJSON(ctx, checkoutCodeKey(sessionID), state, ttl)
}

// GetCheckoutCode 获取会话的结算确认码
func GetCheckoutCode(ctx context.Context, sessionID string) (*CheckoutCode, bool, error) {
	if sessionID == "" {
		return nil, false, nil
	}
	var state CheckoutCode
	hit, err := GetJSON(ctx, checkoutCodeKey(sessionID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// DelCheckoutCode 删除会话的结算确认码（验证通过后一次性失效）
func DelCheckoutCode(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return Del(ctx, checkoutCodeKey(sessionID))
}
