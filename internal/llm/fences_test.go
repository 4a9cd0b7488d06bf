package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"fence without newline", "```json{\"a\": 1}```", `{"a": 1}`},
		{"surrounding whitespace", "  ```json\n{}\n```  ", "{}"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindModeUnsupported, KindOf(&ServiceError{Kind: KindModeUnsupported}))
	assert.Equal(t, KindUnknown, KindOf(assert.AnError))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindForStatus(t *testing.T) {
	assert.Equal(t, KindUnauthorized, KindForStatus(401))
	assert.Equal(t, KindUnauthorized, KindForStatus(403))
	assert.Equal(t, KindRateLimited, KindForStatus(429))
	assert.Equal(t, KindInvalidRequest, KindForStatus(400))
	assert.Equal(t, KindInvalidRequest, KindForStatus(422))
	assert.Equal(t, KindUnknown, KindForStatus(500))
	assert.Equal(t, KindUnknown, KindForStatus(200))
}
