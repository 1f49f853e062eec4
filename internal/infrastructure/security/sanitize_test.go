package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"trims whitespace", "  hello  ", "hello"},
		{"strips simple tags", "<b>hello</b>", "hello"},
		{"strips nested tags", "<div><p>hello</p></div>", "hello"},
		{"script contents removed", "before<script>alert(1)</script>after", "beforeafter"},
		{"style contents removed", "a<style>body{color:red}</style>b", "ab"},
		{"case-insensitive script", "<SCRIPT>alert(1)</SCRIPT>ok", "ok"},
		{"multiline script removed", "x<script>\nalert(1)\n</script>y", "xy"},
		{"attributes stripped with tag", `<a href="https://evil.test">link</a>`, "link"},
		{"markup only becomes empty", "<script>alert(1)</script>", ""},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.input))
		})
	}
}
