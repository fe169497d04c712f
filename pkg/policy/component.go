package policy

import (
	"context"
	"errors"
	"fmt"
)

// Component construction errors.
var (
	// ErrEmptyPolicyName indicates a component spec without a policy name.
	ErrEmptyPolicyName = errors.New("policy name cannot be empty")

	// ErrNilHandler indicates a component spec without a handler.
	ErrNilHandler = errors.New("policy handler cannot be nil")
)

// ComponentSpec describes one policy registration. It is consumed by
// NewComponent and holds the typed pieces (key, default state, handler)
// together with the display metadata and declared capabilities.
type ComponentSpec[T State] struct {
	// Key is the typed identity of the policy. Key.Name is the primary key
	// and must be unique within a registry.
	Key Key[T]

	// Title is the short display name.
	Title string

	// Description explains what the policy controls.
	Description string

	// Category classifies the policy for presentation.
	Category Category

	// Capabilities are the declarative facts about this policy. They are
	// fixed for the component's lifetime.
	Capabilities []Capability

	// DefaultState is the state assumed before the handler has been asked.
	DefaultState T

	// Handler performs the actual state reads and writes.
	Handler Handler[T]
}

// Component is the canonical, type-erased registration unit held by the
// registry. It is constructed once (by hand or by generated registration
// code) and never mutated afterwards; replacing a policy means publishing a
// new component set.
type Component struct {
	name         string
	title        string
	description  string
	category     Category
	capabilities CapabilitySet
	defaultState State

	// handler retains the typed Handler[T] value; HandlerFor recovers it
	// with a checked type assertion.
	handler any

	// getState and setState are type-erased adapters created at
	// construction time so the registry can invoke the handler without
	// knowing T.
	getState func(ctx context.Context) (State, error)
	setState func(ctx context.Context, state State) error
}

// NewComponent builds an immutable Component from a spec.
// It fails when the policy name is empty or the handler is nil.
func NewComponent[T State](spec ComponentSpec[T]) (*Component, error) {
	if spec.Key.Name() == "" {
		return nil, ErrEmptyPolicyName
	}
	if spec.Handler == nil {
		return nil, ErrNilHandler
	}

	handler := spec.Handler
	name := spec.Key.Name()

	return &Component{
		name:         name,
		title:        spec.Title,
		description:  spec.Description,
		category:     spec.Category,
		capabilities: NewCapabilitySet(spec.Capabilities...),
		defaultState: spec.DefaultState,
		handler:      handler,
		getState: func(ctx context.Context) (State, error) {
			return handler.GetState(ctx)
		},
		setState: func(ctx context.Context, state State) error {
			typed, ok := state.(T)
			if !ok {
				return WrapStateError(ErrCodeTypeMismatch,
					fmt.Sprintf("policy %q expects state type %T, got %T", name, *new(T), state), nil)
			}
			return handler.SetState(ctx, typed)
		},
	}, nil
}

// MustNewComponent is like NewComponent but panics on error. It is intended
// for static registration tables where a bad spec is a programming error.
func MustNewComponent[T State](spec ComponentSpec[T]) *Component {
	c, err := NewComponent(spec)
	if err != nil {
		panic(fmt.Sprintf("policy: invalid component %q: %v", spec.Key.Name(), err))
	}
	return c
}

// Name returns the unique policy name (the primary key).
func (c *Component) Name() string { return c.name }

// Title returns the short display name.
func (c *Component) Title() string { return c.title }

// Description returns the display description.
func (c *Component) Description() string { return c.description }

// Category returns the presentation category.
func (c *Component) Category() Category { return c.category }

// Capabilities returns a copy of the declared capability set.
func (c *Component) Capabilities() CapabilitySet {
	return c.capabilities.Clone()
}

// HasCapability reports whether the component declares cap.
func (c *Component) HasCapability(cap Capability) bool {
	return c.capabilities.Contains(cap)
}

// HasAnyCapability reports whether the component declares at least one of
// the given capabilities.
func (c *Component) HasAnyCapability(caps ...Capability) bool {
	return c.capabilities.ContainsAny(caps...)
}

// HasAllCapabilities reports whether the component declares every
// capability in caps.
func (c *Component) HasAllCapabilities(caps CapabilitySet) bool {
	return c.capabilities.ContainsAll(caps)
}

// DefaultState returns the state assumed before the handler has been asked.
func (c *Component) DefaultState() State { return c.defaultState }

// GetState reads the policy's current state through its handler.
func (c *Component) GetState(ctx context.Context) (State, error) {
	return c.getState(ctx)
}

// SetState applies a new state through the policy's handler. It fails with
// a type_mismatch StateError when the dynamic type of state does not match
// the component's registered state type.
func (c *Component) SetState(ctx context.Context, state State) error {
	return c.setState(ctx, state)
}

// String returns the policy name.
func (c *Component) String() string { return c.name }

// HandlerFor recovers the typed handler from a component. It returns false
// when the component's name differs from the key's, or when the component
// was registered with a different State type than the key requests. The
// second case guards against type confusion between distinct policies that
// share a name, which a well-formed registry never contains.
func HandlerFor[T State](c *Component, key Key[T]) (Handler[T], bool) {
	if c == nil || c.name != key.Name() {
		return nil, false
	}
	h, ok := c.handler.(Handler[T])
	return h, ok
}
