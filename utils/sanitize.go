package utils

import "github.com/microcosm-cc/bluemonday"

// ugcPolicy keeps basic formatting tags and strips scripts, event handlers
// and other active content from user-authored HTML.
var ugcPolicy = bluemonday.UGCPolicy()

// Sanitize cleans user-authored content before it is stored.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}
