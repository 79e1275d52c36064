// Package messages normalizes chat message payloads into the canonical
// shape consumed by LLM completion requests.
//
// Input arrives in one of four shapes: a bare string, a single message,
// a flat thread (ordered messages of one conversation), or a batch
// (ordered threads of independent conversations). FormatMessages coerces
// any of them into a Normalized value that is always a thread or a batch,
// failing fast on the first invalid element. AddContext and
// SwapSystemPrompt then splice a system instruction into an
// already-normalized thread.
//
// The package holds no state between calls. Editing functions return
// fresh threads rather than mutating their arguments, so a caller can
// keep reusing the input it passed in.
package messages

import "maps"

// Role tags the sender of a message. The set is closed.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Known reports whether r is one of the recognized role tags.
func (r Role) Known() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// Message is a single conversation turn. It is a map rather than a struct
// so that the absence of the "role" key is representable: validation must
// distinguish a missing role from an empty one, and inputs commonly arrive
// as decoded JSON objects carrying extra provider-specific keys that must
// survive normalization untouched.
type Message map[string]interface{}

// Construct builds a message from content and a role tag. It never fails;
// role validity is the caller's concern.
func Construct(content interface{}, role Role) Message {
	return Message{"role": string(role), "content": content}
}

// Role returns the message's role tag and whether the "role" key exists
// with a string value.
func (m Message) Role() (Role, bool) {
	v, ok := m["role"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return Role(s), true
}

// Content returns the message's content, which may be absent (nil).
func (m Message) Content() interface{} {
	return m["content"]
}

// IsSystem reports whether the message carries the system role.
func (m Message) IsSystem() bool {
	r, ok := m.Role()
	return ok && r == RoleSystem
}

// Clone returns a shallow copy of the message.
func (m Message) Clone() Message {
	return Message(maps.Clone(map[string]interface{}(m)))
}

// Thread is one conversation: an ordered sequence of messages.
type Thread []Message

// Batch is an ordered sequence of independent threads, used to normalize
// many conversations in one call.
type Batch []Thread
