package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimas0315/AI-Social-Platform/utils"
)

func TestCacheRoundTripAndInvalidate(t *testing.T) {
	testRedis.FlushAll()

	utils.CacheSetJSON("cache:test:a", map[string]int{"n": 1}, time.Minute)
	utils.CacheSetJSON("cache:test:b", map[string]int{"n": 2}, time.Minute)
	utils.CacheSetJSON("cache:other:c", map[string]int{"n": 3}, time.Minute)

	b, ok := utils.CacheGetBytes("cache:test:a")
	require.True(t, ok)
	assert.JSONEq(t, `{"n":1}`, string(b))

	utils.InvalidateByPrefix("cache:test:")

	_, ok = utils.CacheGetBytes("cache:test:a")
	assert.False(t, ok)
	_, ok = utils.CacheGetBytes("cache:test:b")
	assert.False(t, ok)
	_, ok = utils.CacheGetBytes("cache:other:c")
	assert.True(t, ok, "unrelated keys survive")
}

func TestCacheSetBytes_DefaultTTL(t *testing.T) {
	testRedis.FlushAll()

	utils.CacheSetBytes("cache:ttl:x", []byte("v"), 0)
	assert.Equal(t, time.Hour, testRedis.TTL("cache:ttl:x"))
}

func TestCacheGetBytes_Miss(t *testing.T) {
	_, ok := utils.CacheGetBytes("cache:absent:key")
	assert.False(t, ok)
}
