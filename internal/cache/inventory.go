package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix  = "user:%d"
	tokenKeyPrefix = "token:%s"
)

const (
	UserTTL  = 5 * time.Minute
	TokenTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func TokenKey(key string) string {
	return fmt.Sprintf(tokenKeyPrefix, key)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateToken(ctx context.Context, key string) {
	Invalidate(ctx, TokenKey(key))
}
