// Package grouping buckets catalog policies into display groups.
//
// A Strategy decides which group a policy belongs to; ResolveAll turns a
// strategy plus the current registry contents into ordered, member-filled
// groups ready for rendering. Assignment is always many-to-one: a policy
// resolves into exactly one group or none, never two.
//
// # Strategies
//
// CapabilityStrategy is the default. It maps each modifies capability to a
// predefined group (radio, wifi, bluetooth, display, audio, charging,
// calling, hardware, browser, security, network) and collects the rest
// into a trailing "other" group. A policy with several modifies
// capabilities is assigned by the first matching rule in declaration
// order.
//
// ConfiguredStrategy is driven by an explicit Config: an ordered group
// list plus a policy-to-group assignment map, supplied by a builder or
// loaded from a source (see the source subpackage). Unassigned policies
// resolve into no group.
//
// # Basic Usage
//
// Resolving the default grouping for display:
//
//	strategy := grouping.NewCapabilityStrategy()
//	resolved := grouping.ResolveAll(strategy, reg, grouping.ResolveOptions{})
//	for _, g := range resolved {
//	    fmt.Printf("%s (%d)\n", g.Group.DisplayName, g.Len())
//	}
//
// Building a custom grouping:
//
//	cfg, err := grouping.NewConfigBuilder().
//	    AddGroup("connectivity", "Connectivity").
//	    AddGroup("device", "Device").
//	    Assign("wifi", "connectivity").
//	    Assign("camera", "device").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	strategy := grouping.NewConfiguredStrategy(cfg)
//
// # Determinism
//
// Strategies hold no registry state: every ComponentsInGroup and
// ResolveAll call re-queries the registry, so results always reflect the
// catalog generation current at call time. Group membership preserves
// registration order, and ResolveAll sorts stably by SortOrder so equal
// orders keep declaration order.
package grouping
