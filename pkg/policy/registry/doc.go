// Package registry provides a capability-indexed catalog of policy
// components with atomic whole-set replacement and lock-free reads.
//
// The catalog is the central lookup point for everything built on the
// policy package: UI layers enumerate components by category or group,
// automation selects targets by capability, and the use-case layer resolves
// typed handlers by key. All of those run against an immutable snapshot, so
// a replacement never tears a query.
//
// # Core Components
//
// Registry holds the current catalog generation and answers lookups by
// name, capability, and category from prebuilt indexes.
//
// QueryFilter combines category and capability constraints for compound
// queries.
//
// PolicyStatus carries the per-policy outcome of a state sweep, keeping
// individual handler failures from aborting whole-catalog reads.
//
// # Basic Usage
//
// Building and populating a registry:
//
//	reg := registry.New(
//	    registry.WithLogger(logger),
//	    registry.WithMetrics(collector),
//	)
//
//	if err := reg.ReplaceAll(ctx, components); err != nil {
//	    log.Fatal(err)
//	}
//
//	wifi, ok := reg.Component("wifi")
//	if !ok {
//	    // not registered
//	}
//
// Resolving a typed handler:
//
//	key := policy.NewKey[policy.ToggleState]("wifi")
//	h, ok := registry.Handler(reg, key)
//	if ok {
//	    state, err := h.GetState(ctx)
//	    // ...
//	}
//
// # Queries
//
// Capability queries come in single and compound forms:
//
//	radios := reg.ByCapability(policy.ModifiesRadio)
//
//	// Union: declares radio OR wifi.
//	any := reg.ByCapabilities([]policy.Capability{
//	    policy.ModifiesRadio,
//	    policy.ModifiesWifi,
//	}, false)
//
//	// Intersection: declares radio AND wifi.
//	both := reg.ByCapabilities([]policy.Capability{
//	    policy.ModifiesRadio,
//	    policy.ModifiesWifi,
//	}, true)
//
// Results preserve registration order and contain no duplicates. An empty
// capability list matches the whole catalog in both modes.
//
// # Error Handling
//
// Lookups report absence through an ok-bool or an empty slice; they never
// return errors. Errors are reserved for mutations:
//
// ErrNilComponents, ErrNilComponent: malformed replacement input.
//
// DuplicateNameError: two components in a replacement set share a name.
// The whole set is rejected and the current catalog is kept.
//
// NotFoundError: SetPolicyState addressed a policy that is not registered.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Reads load the current snapshot
// atomically and take no locks, so they stay wait-free under concurrent
// replacement. ReplaceAll serializes writers with a mutex, builds the next
// generation off-line, and publishes it with a single pointer swap.
package registry
