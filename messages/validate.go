package messages

import (
	"go.uber.org/zap"

	"github.com/nanograph-ai/nanograph/errors"
)

// ValidateMessage fails if m has no "role" key. Content is deliberately
// not checked here; an absent or empty content key only matters to the
// system-prompt editors.
func ValidateMessage(m Message) error {
	if _, ok := m.Role(); !ok {
		return errors.NewInvalidMessageError(-1, m)
	}
	return nil
}

// ValidateThread checks every message in order and fails on the first one
// missing a role, reporting its index and content. The input is never
// mutated.
func ValidateThread(t Thread) error {
	for i, m := range t {
		if _, ok := m.Role(); !ok {
			errors.DefaultLogger.Error("message in thread is missing a role",
				zap.Int("index", i),
				zap.Any("message", m),
			)
			return errors.NewInvalidMessageError(i, m)
		}
	}
	return nil
}

// ValidateBatch checks every thread in order, failing on the first invalid
// message and reporting both the thread index and the message index
// within it.
func ValidateBatch(b Batch) error {
	for ti, t := range b {
		for mi, m := range t {
			if _, ok := m.Role(); !ok {
				errors.DefaultLogger.Error("message in batch is missing a role",
					zap.Int("thread_index", ti),
					zap.Int("index", mi),
					zap.Any("message", m),
				)
				return errors.NewInvalidMessageError(mi, m).WithDetail("thread_index", ti)
			}
		}
	}
	return nil
}
