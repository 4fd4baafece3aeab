package utils_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

var testRedis *miniredis.Miniredis

// TestMain pins JWT and redis settings before the lazy config load so every
// helper that talks to redis lands on the embedded instance.
func TestMain(m *testing.M) {
	mr, err := miniredis.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "miniredis: %v\n", err)
		os.Exit(1)
	}
	testRedis = mr

	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("REDIS_HOST", mr.Host())
	os.Setenv("REDIS_PORT", mr.Port())

	code := m.Run()

	mr.Close()
	os.Exit(code)
}
