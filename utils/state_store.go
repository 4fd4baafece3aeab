package utils

import (
	"context"
	"sync"
	"time"
)

const stateKeyPrefix = "oauth:state:"

var (
	localStates   = map[string]time.Time{}
	localStatesMu sync.Mutex
)

// SaveState records an OAuth state token for the login round-trip. States
// are single use and expire after ttl.
func SaveState(state string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := GetRedis().Set(ctx, stateKeyPrefix+state, "1", ttl).Err(); err == nil {
		return
	}
	// Redis down: keep the state on this instance so the callback can land.
	localStatesMu.Lock()
	localStates[state] = time.Now().Add(ttl)
	localStatesMu.Unlock()
}

// ConsumeState burns a state token, reporting whether it was live.
func ConsumeState(state string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := GetRedis().GetDel(ctx, stateKeyPrefix+state).Result()
	if err == nil {
		return v != ""
	}

	localStatesMu.Lock()
	expiresAt, ok := localStates[state]
	if ok {
		delete(localStates, state)
	}
	localStatesMu.Unlock()
	return ok && time.Now().Before(expiresAt)
}
