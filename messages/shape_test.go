package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  Shape
	}{
		{
			name:  "string",
			input: "Hello, how are you?",
			want:  ShapeText,
		},
		{
			name:  "message with role",
			input: map[string]interface{}{"role": "user", "content": "hi"},
			want:  ShapeMessage,
		},
		{
			name:  "message without role still classifies by shape",
			input: map[string]interface{}{"content": "hi"},
			want:  ShapeMessage,
		},
		{
			name:  "typed message",
			input: Construct("hi", RoleUser),
			want:  ShapeMessage,
		},
		{
			name: "flat thread",
			input: []interface{}{
				map[string]interface{}{"role": "user", "content": "hi"},
				map[string]interface{}{"role": "assistant", "content": "hello"},
			},
			want: ShapeThread,
		},
		{
			name:  "typed thread",
			input: Thread{Construct("hi", RoleUser)},
			want:  ShapeThread,
		},
		{
			name: "batch",
			input: []interface{}{
				[]interface{}{map[string]interface{}{"role": "user", "content": "hi"}},
			},
			want: ShapeBatch,
		},
		{
			name:  "typed batch",
			input: Batch{{Construct("hi", RoleUser)}},
			want:  ShapeBatch,
		},
		{
			name:  "empty sequence is a flat thread, never a batch",
			input: []interface{}{},
			want:  ShapeThread,
		},
		{
			name:  "integer",
			input: 42,
			want:  ShapeInvalid,
		},
		{
			name:  "nil",
			input: nil,
			want:  ShapeInvalid,
		},
		{
			name:  "sequence of strings",
			input: []interface{}{"not", "messages"},
			want:  ShapeInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.input))
		})
	}
}

func TestDetermineIfBatch(t *testing.T) {
	flat := []interface{}{
		map[string]interface{}{"role": "user", "content": "hi"},
	}
	batch := []interface{}{
		[]interface{}{
			map[string]interface{}{"role": "user", "content": "hi"},
		},
	}

	assert.False(t, DetermineIfBatch(flat))
	assert.True(t, DetermineIfBatch(batch))
	assert.False(t, DetermineIfBatch("a string is never a batch"))
	assert.False(t, DetermineIfBatch([]interface{}{}))
}

func TestRoleKnown(t *testing.T) {
	for _, r := range []Role{RoleSystem, RoleUser, RoleAssistant, RoleTool} {
		assert.True(t, r.Known())
	}
	assert.False(t, Role("moderator").Known())
}
