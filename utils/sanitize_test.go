package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dimas0315/AI-Social-Platform/utils"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello world", "hello world"},
		{"script dropped with its body", "<script>alert(1)</script>hi", "hi"},
		{"formatting kept", "say <b>it</b> <i>loud</i>", "say <b>it</b> <i>loud</i>"},
		{"event handler stripped", `<b onclick="x()">bold</b>`, "<b>bold</b>"},
		{"links get nofollow", `<a href="https://example.com">ref</a>`, `<a href="https://example.com" rel="nofollow">ref</a>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, utils.Sanitize(tc.in))
		})
	}
}
