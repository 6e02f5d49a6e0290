// Package sanitizer cleans user-supplied text before it is stored.
//
// StripMarkup removes every tag and attribute and escapes what remains, so
// the result is plain text that is safe to place in HTML as is. It is
// idempotent: running it on its own output returns the same string.
//
// Form structs declare their sanitizers with a struct tag:
//
//	type postForm struct {
//		Title string `form:"title" sanitize:"text"`
//	}
//	err := sanitizer.SanitizeStruct(&form)
package sanitizer
