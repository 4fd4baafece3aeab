package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimas0315/AI-Social-Platform/utils"
)

func TestRegistrationCooldown(t *testing.T) {
	ip := "198.51.100.10"

	require.True(t, utils.RegistrationCooldownTry(ip))
	assert.False(t, utils.RegistrationCooldownTry(ip), "second attempt inside the cooldown window")

	testRedis.FastForward(6 * time.Second)
	assert.True(t, utils.RegistrationCooldownTry(ip))
}

func TestRegistrationDailyLimit(t *testing.T) {
	ip := "198.51.100.20"

	require.True(t, utils.RegistrationDailyLimitCheck(ip))
	for i := 0; i < 10; i++ {
		utils.RegistrationDailyIncrement(ip)
	}
	assert.False(t, utils.RegistrationDailyLimitCheck(ip))
}

func TestRegistrationFailuresAndBan(t *testing.T) {
	ip := "198.51.100.30"

	assert.False(t, utils.RegistrationIsBanned(ip))
	assert.Equal(t, 1, utils.RegistrationFailRecord(ip))
	assert.Equal(t, 2, utils.RegistrationFailRecord(ip))

	utils.RegistrationBan(ip)
	assert.True(t, utils.RegistrationIsBanned(ip))
}
