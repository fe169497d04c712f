// Package policy defines the core data model for the Knox policy catalog:
// policy state values, capability and category enumerations, typed policy
// keys, registration components, and display groups.
//
// All types in this package are immutable values or contracts. A policy's
// live state is owned by its Handler; the model only describes the policy
// (name, presentation metadata, declared capabilities) and the shape of its
// state. "Updating" a policy never mutates a Component; the whole component
// set is replaced through the registry.
//
// # Core Types
//
// State: immutable per-policy state value (enabled, supported, error) with
// pure WithEnabled/WithError transitions
//
// ToggleState: the canonical State implementation for on/off policies
//
// Capability: closed enumeration of declarative policy facts (what subsystem
// a policy modifies, what device preconditions it requires, what impact it
// has)
//
// Category: presentation-oriented classification, orthogonal to capabilities
//
// Key: typed policy identity binding a unique name to a concrete State type
//
// Component: the registration unit handed to the registry, carrying metadata,
// capabilities, a default state, and the policy's Handler
//
// Group / ResolvedGroup: display buckets produced by grouping strategies
//
// # Basic Usage
//
// Declare a key and register a component:
//
//	key := policy.NewKey[policy.ToggleState]("wifi-restriction")
//
//	component, err := policy.NewComponent(policy.ComponentSpec[policy.ToggleState]{
//	    Key:          key,
//	    Title:        "Wi-Fi restriction",
//	    Description:  "Blocks joining unmanaged Wi-Fi networks.",
//	    Category:     policy.CategoryToggle,
//	    Capabilities: []policy.Capability{policy.ModifiesWifi, policy.AffectsConnectivity},
//	    DefaultState: policy.NewToggleState(false),
//	    Handler:      wifiHandler,
//	})
//
// # Error Model
//
// Absence (unknown name, key type mismatch) is reported with ok-booleans,
// never errors. Handler failures are described by StateError values carrying
// a stable code, a message, and the underlying cause.
package policy
