package files

import "strings"

// fallbackName is used when sanitization leaves nothing usable.
const fallbackName = "untitled"

var invalidChars = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	`"`, "_",
	"/", "_",
	`\`, "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// Sanitize makes name safe to use as a file or folder name: characters that
// are invalid on common filesystems become underscores, surrounding
// whitespace and dots are trimmed, and an empty result falls back to a
// placeholder.
func Sanitize(name string) string {
	s := invalidChars.Replace(name)
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".")

	if s == "" {
		return fallbackName
	}

	return s
}
