package utils_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimas0315/AI-Social-Platform/utils"
)

func TestCaptchaRoundTrip(t *testing.T) {
	id, image, err := utils.GenerateCaptcha()
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.True(t, strings.HasPrefix(image, "data:image/"), "image should be a data URI, got %q", image)

	answer, err := testRedis.Get("captcha:" + id)
	require.NoError(t, err)
	require.Len(t, answer, 5)

	require.True(t, utils.VerifyCaptcha(id, answer))
	// Consumed on success; replays fail.
	assert.False(t, utils.VerifyCaptcha(id, answer))
}

func TestCaptchaSingleAttempt(t *testing.T) {
	id, _, err := utils.GenerateCaptcha()
	require.NoError(t, err)

	answer, err := testRedis.Get("captcha:" + id)
	require.NoError(t, err)

	// A wrong guess burns the captcha, so the right answer no longer lands.
	assert.False(t, utils.VerifyCaptcha(id, "wrong"))
	assert.False(t, utils.VerifyCaptcha(id, answer))
}

func TestVerifyCaptcha_EmptyArguments(t *testing.T) {
	assert.False(t, utils.VerifyCaptcha("", "12345"))
	assert.False(t, utils.VerifyCaptcha("some-id", ""))
}
