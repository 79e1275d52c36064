package messages

// Shape classifies the structure of an arbitrary input value. The four
// valid cases form a closed set; everything else is ShapeInvalid.
type Shape int

const (
	ShapeInvalid Shape = iota
	ShapeText
	ShapeMessage
	ShapeThread
	ShapeBatch
)

func (s Shape) String() string {
	switch s {
	case ShapeText:
		return "text"
	case ShapeMessage:
		return "message"
	case ShapeThread:
		return "thread"
	case ShapeBatch:
		return "batch"
	}
	return "invalid"
}

// Classify inspects only the structure of v, never role or content
// validity. A mapping classifies as ShapeMessage whether or not it has a
// role key; the formatter rejects roleless mappings later. The decision
// table:
//
//	string                          -> ShapeText
//	mapping                         -> ShapeMessage
//	sequence, first element mapping -> ShapeThread
//	sequence, first element sequence-> ShapeBatch
//	empty sequence                  -> ShapeThread (fixed policy: there is
//	                                   no element to inspect, so it is a
//	                                   flat empty thread, never a batch)
//	anything else                   -> ShapeInvalid
func Classify(v interface{}) Shape {
	switch x := v.(type) {
	case string:
		return ShapeText
	case Message, map[string]interface{}:
		return ShapeMessage
	case Thread, []Message, []map[string]interface{}:
		return ShapeThread
	case Batch, []Thread, [][]map[string]interface{}, [][]interface{}:
		return ShapeBatch
	case []interface{}:
		if len(x) == 0 {
			return ShapeThread
		}
		switch x[0].(type) {
		case Message, map[string]interface{}:
			return ShapeThread
		case Thread, []Message, []map[string]interface{}, []interface{}:
			return ShapeBatch
		}
		return ShapeInvalid
	}
	return ShapeInvalid
}

// DetermineIfBatch reports whether v is a batch of threads. A string is
// never a batch, and neither is an empty sequence.
func DetermineIfBatch(v interface{}) bool {
	return Classify(v) == ShapeBatch
}
