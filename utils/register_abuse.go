package utils

import (
	"context"
	"strconv"
	"time"

	"github.com/dimas0315/AI-Social-Platform/config"
)

// Registration abuse controls. Every check fails open on redis errors so a
// cache outage cannot lock registration out entirely.

func abuseCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 500*time.Millisecond)
}

// RegistrationCooldownTry consumes the per-IP cooldown slot. It returns
// false while a previous attempt is still inside the window.
func RegistrationCooldownTry(ip string) bool {
	sec := config.Get().RegisterAttemptCooldownSec
	if sec <= 0 {
		return true
	}
	ctx, cancel := abuseCtx()
	defer cancel()
	ok, err := GetRedis().SetNX(ctx, "register:cooldown:"+ip, "1", time.Duration(sec)*time.Second).Result()
	return err != nil || ok
}

// RegistrationDailyLimitCheck reports whether the IP is still under its
// daily registration cap.
func RegistrationDailyLimitCheck(ip string) bool {
	limit := config.Get().RegisterMaxPerIPPerDay
	if limit <= 0 {
		return true
	}
	ctx, cancel := abuseCtx()
	defer cancel()
	// A missing counter reads as redis.Nil and is treated like any error.
	n, err := GetRedis().Get(ctx, dailyCountKey(ip)).Int()
	if err != nil {
		return true
	}
	return n < limit
}

// RegistrationDailyIncrement counts a successful registration against the
// IP's daily cap. The counter expires at local midnight.
func RegistrationDailyIncrement(ip string) {
	ctx, cancel := abuseCtx()
	defer cancel()
	key := dailyCountKey(ip)
	if err := GetRedis().Incr(ctx, key).Err(); err != nil {
		return
	}
	_ = GetRedis().ExpireAt(ctx, key, nextMidnight()).Err()
}

// RegistrationFailRecord counts a failed attempt in the current hour and
// returns the running total.
func RegistrationFailRecord(ip string) int {
	ctx, cancel := abuseCtx()
	defer cancel()
	key := "register:fail:" + ip + ":" + time.Now().Format("2006010215")
	n, err := GetRedis().Incr(ctx, key).Result()
	if err != nil {
		return 0
	}
	_ = GetRedis().Expire(ctx, key, time.Hour).Err()
	return int(n)
}

// RegistrationIsBanned reports whether the IP is under a temporary ban.
func RegistrationIsBanned(ip string) bool {
	ctx, cancel := abuseCtx()
	defer cancel()
	n, err := GetRedis().Exists(ctx, "register:ban:"+ip).Result()
	return err == nil && n > 0
}

// RegistrationBan places a temporary ban on the IP.
func RegistrationBan(ip string) {
	minutes := config.Get().RegisterTempBanMinutes
	if minutes <= 0 {
		minutes = 60
	}
	ctx, cancel := abuseCtx()
	defer cancel()
	_ = GetRedis().Set(ctx, "register:ban:"+ip, strconv.FormatInt(time.Now().Unix(), 10), time.Duration(minutes)*time.Minute).Err()
}

func dailyCountKey(ip string) string {
	return "register:daily:" + ip + ":" + time.Now().Format("20060102")
}

func nextMidnight() time.Time {
	now := time.Now()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
}
