package localize

// Variables carries the named values a backend substitutes into a message's
// placeables. Interpretation of names and values is entirely the backend's.
type Variables map[string]any

// Clone returns a shallow copy of the variable map, nil when empty.
func (v Variables) Clone() Variables {
	if len(v) == 0 {
		return nil
	}
	out := make(Variables, len(v))
	for name, value := range v {
		out[name] = value
	}
	return out
}

// Sink receives a resolved translation. Bound messages write their result
// through their sink when a batch containing them is formatted.
type Sink interface {
	Assign(value string) error
}

// SinkFunc adapters allow bare functions to act as a Sink.
type SinkFunc func(value string) error

// Assign implements Sink for SinkFunc
func (fn SinkFunc) Assign(value string) error {
	return fn(value)
}

// Field returns a Sink that writes the translation into the given string
// location, typically a struct field. A nil target yields a nil Sink.
func Field(target *string) Sink {
	if target == nil {
		return nil
	}
	return SinkFunc(func(value string) error {
		*target = value
		return nil
	})
}

// Message describes one translation request: a message id, the variables the
// backend substitutes into it, and an optional sink binding. Messages are
// immutable once constructed and are consumed by a single formatting call.
type Message struct {
	id    string
	vars  Variables
	sink  Sink
	bound bool
}

// NewMessage builds an unbound request for id. The id and variables are not
// validated here; the backend interprets both.
func NewMessage(id string, vars Variables) Message {
	return Message{id: id, vars: vars.Clone()}
}

// BoundMessage builds a request whose result is also written through sink
// when the batch containing it is formatted.
func BoundMessage(sink Sink, id string, vars Variables) Message {
	return Message{id: id, vars: vars.Clone(), sink: sink, bound: true}
}

// ID returns the message identifier.
func (m Message) ID() string {
	return m.id
}

// Variables returns a copy of the request's variables, nil when there are
// none.
func (m Message) Variables() Variables {
	return m.vars.Clone()
}

// Sink returns the bound sink, nil for unbound requests.
func (m Message) Sink() Sink {
	return m.sink
}

// Bound reports whether the request carries a sink binding.
func (m Message) Bound() bool {
	return m.bound
}
