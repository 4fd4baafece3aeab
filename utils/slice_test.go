package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dimas0315/AI-Social-Platform/utils"
)

func TestUniqueUint(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, utils.UniqueUint([]uint{3, 1, 3, 2, 1}))
	assert.Equal(t, []uint{7}, utils.UniqueUint([]uint{7, 7, 7}))
	assert.Empty(t, utils.UniqueUint(nil))
}
