package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dimas0315/AI-Social-Platform/utils"
)

func TestOAuthStateSingleUse(t *testing.T) {
	assert.False(t, utils.ConsumeState("state-unknown"))

	utils.SaveState("state-once", time.Minute)
	assert.True(t, utils.ConsumeState("state-once"))
	assert.False(t, utils.ConsumeState("state-once"), "state must be single use")
}

func TestOAuthStateExpires(t *testing.T) {
	utils.SaveState("state-brief", 2*time.Second)
	testRedis.FastForward(3 * time.Second)
	assert.False(t, utils.ConsumeState("state-brief"))
}
