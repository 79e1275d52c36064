package messages

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/nanograph-ai/nanograph/errors"
)

// Normalized is the canonical output of FormatMessages: always a thread
// or a batch, never a bare string or message. Downstream consumers can
// rely on every contained message carrying a role.
type Normalized struct {
	threads Batch
	isBatch bool
}

// NormalizedThread wraps a single thread.
func NormalizedThread(t Thread) Normalized {
	return Normalized{threads: Batch{t}}
}

// NormalizedBatch wraps a batch of threads.
func NormalizedBatch(b Batch) Normalized {
	return Normalized{threads: b, isBatch: true}
}

// IsBatch reports whether the value holds a batch rather than a single
// thread.
func (n Normalized) IsBatch() bool {
	return n.isBatch
}

// Thread returns the single-thread form, or nil when the value is a
// batch.
func (n Normalized) Thread() Thread {
	if n.isBatch || len(n.threads) == 0 {
		return nil
	}
	return n.threads[0]
}

// Batch returns the batch form, or nil when the value is a single thread.
func (n Normalized) Batch() Batch {
	if !n.isBatch {
		return nil
	}
	return n.threads
}

// Threads returns a uniform thread view regardless of form: a single
// thread appears as a one-element slice.
func (n Normalized) Threads() Batch {
	return n.threads
}

// FormatMessages coerces input of any accepted shape into its canonical
// form:
//
//	string        -> one-element thread with a user message
//	message       -> one-element thread aliasing the input
//	thread        -> validated and returned structurally unchanged
//	batch         -> every thread validated, returned structurally unchanged
//
// Any other shape, including a mapping without a role key, fails with an
// invalid-format error. An element missing its role fails with an
// invalid-message error naming the element. The first failure aborts the
// whole call; no partially normalized value is ever returned.
func FormatMessages(v interface{}) (Normalized, error) {
	switch Classify(v) {
	case ShapeText:
		s := v.(string)
		return NormalizedThread(Thread{Construct(s, RoleUser)}), nil

	case ShapeMessage:
		m := asMessage(v)
		if _, ok := m.Role(); !ok {
			errors.DefaultLogger.Error("message mapping has no role", zap.Any("input", v))
			return Normalized{}, errors.NewInvalidMessagesFormatError(v)
		}
		return NormalizedThread(Thread{m}), nil

	case ShapeThread:
		t, err := toThread(v)
		if err != nil {
			return Normalized{}, err
		}
		return NormalizedThread(t), nil

	case ShapeBatch:
		b, err := toBatch(v)
		if err != nil {
			return Normalized{}, err
		}
		return NormalizedBatch(b), nil
	}

	errors.DefaultLogger.Error("invalid messages format", zap.Any("input", v))
	return Normalized{}, errors.NewInvalidMessagesFormatError(v)
}

func asMessage(v interface{}) Message {
	switch m := v.(type) {
	case Message:
		return m
	case map[string]interface{}:
		return Message(m)
	}
	return nil
}

// toThread coerces a sequence of message-like values into a Thread and
// validates it. Already-typed threads are returned as-is so that
// formatting valid input is the identity.
func toThread(v interface{}) (Thread, error) {
	switch s := v.(type) {
	case Thread:
		return s, ValidateThread(s)
	case []Message:
		t := Thread(s)
		return t, ValidateThread(t)
	case []map[string]interface{}:
		t := make(Thread, len(s))
		for i, m := range s {
			t[i] = Message(m)
		}
		return t, ValidateThread(t)
	case []interface{}:
		t := make(Thread, len(s))
		for i, e := range s {
			m := asMessage(e)
			if m == nil {
				errors.DefaultLogger.Error("thread element is not a message mapping",
					zap.Int("index", i),
					zap.Any("element", e),
				)
				return nil, errors.NewInvalidMessageError(i, e)
			}
			t[i] = m
		}
		return t, ValidateThread(t)
	}
	return nil, errors.NewInvalidMessagesFormatError(v)
}

// toBatch coerces a sequence of thread-like values into a Batch and
// validates every thread. Errors from inner threads are annotated with
// the failing thread's index.
func toBatch(v interface{}) (Batch, error) {
	switch s := v.(type) {
	case Batch:
		return s, ValidateBatch(s)
	case []Thread:
		b := Batch(s)
		return b, ValidateBatch(b)
	case [][]map[string]interface{}:
		b := make(Batch, len(s))
		for i, t := range s {
			ct, err := toThread(t)
			if err != nil {
				return nil, annotateThread(err, i)
			}
			b[i] = ct
		}
		return b, nil
	case [][]interface{}:
		b := make(Batch, len(s))
		for i, t := range s {
			ct, err := toThread(t)
			if err != nil {
				return nil, annotateThread(err, i)
			}
			b[i] = ct
		}
		return b, nil
	case []interface{}:
		b := make(Batch, len(s))
		for i, e := range s {
			ct, err := toThread(e)
			if err != nil {
				return nil, annotateThread(err, i)
			}
			b[i] = ct
		}
		return b, nil
	}
	return nil, errors.NewInvalidMessagesFormatError(v)
}

func annotateThread(err error, threadIdx int) error {
	var nerr *errors.NanographError
	if stderrors.As(err, &nerr) {
		nerr.WithDetail("thread_index", threadIdx)
	}
	return err
}
