package policy

// Key is a typed policy identity. It carries the unique policy name and
// binds, at the type level, to the concrete State implementation the policy
// uses. A lookup made with a key whose state type does not match the
// registered component misses instead of returning a wrongly-typed handler.
type Key[T State] struct {
	name string
}

// NewKey creates a typed key for the given policy name.
func NewKey[T State](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the unique policy name this key identifies.
func (k Key[T]) Name() string { return k.name }

// String returns the policy name.
func (k Key[T]) String() string { return k.name }
