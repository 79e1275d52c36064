package client

import "github.com/nanograph-ai/nanograph/errors"

// Mode selects how structured output is requested from the model.
type Mode string

const (
	ModeToolCall     Mode = "tool_call"
	ModeJSON         Mode = "json"
	ModeJSONSchema   Mode = "json_schema"
	ModeMarkdownJSON Mode = "md_json"
)

// Modes lists the known structured-output modes.
func Modes() []string {
	return []string{
		string(ModeToolCall),
		string(ModeJSON),
		string(ModeJSONSchema),
		string(ModeMarkdownJSON),
	}
}

// ParseMode validates a mode string. Empty input selects ModeToolCall;
// anything outside the known set fails with an invalid-mode error.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeToolCall, nil
	}
	switch m := Mode(s); m {
	case ModeToolCall, ModeJSON, ModeJSONSchema, ModeMarkdownJSON:
		return m, nil
	}
	return "", errors.NewInvalidModeError(s, Modes())
}
