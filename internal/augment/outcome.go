package augment

// Outcome is the result of one AI sub-request: either a value or the reason
// it is unavailable. The zero Outcome is unavailable with no reason.
type Outcome[T any] struct {
	value  T
	reason string
	ok     bool
}

// Success wraps a parsed sub-analysis.
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{value: v, ok: true}
}

// Unavailable records why a sub-analysis is absent.
func Unavailable[T any](reason string) Outcome[T] {
	if reason == "" {
		reason = "unavailable"
	}
	return Outcome[T]{reason: reason}
}

// Get returns the value and whether it is present.
func (o Outcome[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Outcome[T]) Available() bool { return o.ok }

// Reason is empty for successful outcomes.
func (o Outcome[T]) Reason() string { return o.reason }

// Ptr returns a pointer to the value, or nil when unavailable.
func (o Outcome[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.value
	return &v
}
