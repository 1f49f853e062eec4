package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Transcript
	}{
		{
			name:  "array of turns",
			input: `[{"sender":"user","text":"hi"},{"sender":"bot","text":"Hello!"}]`,
			want:  Transcript{{Sender: SenderUser, Text: "hi"}, {Sender: SenderBot, Text: "Hello!"}},
		},
		{
			name:  "string-encoded array",
			input: `"[{\"sender\":\"user\",\"text\":\"hi\"}]"`,
			want:  Transcript{{Sender: SenderUser, Text: "hi"}},
		},
		{
			name:  "free text becomes a single user turn",
			input: `"just some words"`,
			want:  Transcript{{Sender: SenderUser, Text: "just some words"}},
		},
		{
			name:  "empty string is empty transcript",
			input: `""`,
			want:  nil,
		},
		{
			name:  "null is empty transcript",
			input: `null`,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Transcript
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranscript_UnmarshalJSON_RejectsOtherTypes(t *testing.T) {
	var got Transcript
	assert.Error(t, json.Unmarshal([]byte(`42`), &got))
	assert.Error(t, json.Unmarshal([]byte(`{"sender":"user"}`), &got))
}

func TestTranscript_Render(t *testing.T) {
	transcript := Transcript{
		{Sender: SenderUser, Text: "hi"},
		{Sender: SenderBot, Text: "Hello!"},
	}
	assert.Equal(t, "user: hi\nbot: Hello!\n", transcript.Render())
	assert.Empty(t, Transcript{}.Render())
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: []string{"name", "email"}}
	assert.Equal(t, "missing required fields: name, email", err.Error())
}
