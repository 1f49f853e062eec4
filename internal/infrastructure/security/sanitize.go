package security

import (
	"regexp"
	"strings"
)

var (
	scriptBlockRegex = regexp.MustCompile(`(?is)<script.*?</script>`)
	styleBlockRegex  = regexp.MustCompile(`(?is)<style.*?</style>`)
	tagRegex         = regexp.MustCompile(`<[^>]*>`)
)

// StripTags removes HTML markup from user-supplied text. Script and style
// blocks are dropped wholesale, including their contents, then any remaining
// tags are stripped and the result trimmed.
func StripTags(input string) string {
	out := scriptBlockRegex.ReplaceAllString(input, "")
	out = styleBlockRegex.ReplaceAllString(out, "")
	out = tagRegex.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}
