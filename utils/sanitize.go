package utils

import "github.com/microcosm-cc/bluemonday"

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML content to prevent XSS while keeping the user-generated
// markup a post body is allowed to carry.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}

// SanitizePlain strips all markup. Used for titles, names and subjects.
func SanitizePlain(input string) string {
	return strictPolicy.Sanitize(input)
}
