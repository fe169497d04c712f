package grouping

import (
	"sort"

	"github.com/jpicklyk/knox-core/pkg/policy"
	"github.com/jpicklyk/knox-core/pkg/policy/registry"
)

// Strategy is the interface that all grouping strategies implement. It
// defines how policy components are bucketed into display groups.
//
// Implementations must be thread-safe as they are called concurrently from
// goroutines rendering different views of the same catalog. Strategies
// never cache registry contents; every call re-queries the registry so a
// catalog replacement is reflected immediately.
//
// Example usage:
//
//	strategy := grouping.NewCapabilityStrategy()
//	groups := grouping.ResolveAll(strategy, reg, grouping.ResolveOptions{})
//	for _, g := range groups {
//	    fmt.Printf("%s: %d policies\n", g.Group.DisplayName, g.Len())
//	}
type Strategy interface {
	// Groups returns every group the strategy defines, in declaration
	// order. The result is independent of registry contents.
	Groups() []policy.Group

	// GroupFor returns the group the component belongs to. The ok result
	// is false when the strategy does not assign the component to any
	// group. A component is never assigned to more than one group.
	GroupFor(c *policy.Component) (policy.Group, bool)

	// ComponentsInGroup returns the members of the named group, in
	// registry registration order. Unknown group IDs yield an empty
	// result.
	ComponentsInGroup(groupID string, reg *registry.Registry) []*policy.Component

	// Name returns the strategy name for logging.
	// Examples: "capability", "configured"
	Name() string
}

// ResolveOptions controls ResolveAll output.
type ResolveOptions struct {
	// IncludeEmpty keeps groups with no members in the result.
	// Default: false (empty groups are dropped).
	IncludeEmpty bool
}

// ResolveAll resolves every group the strategy defines against the current
// catalog. Groups with no members are dropped unless opts.IncludeEmpty is
// set. The result is sorted by SortOrder; groups with equal sort orders
// keep their declaration order.
func ResolveAll(s Strategy, reg *registry.Registry, opts ResolveOptions) []policy.ResolvedGroup {
	groups := s.Groups()
	resolved := make([]policy.ResolvedGroup, 0, len(groups))
	for _, g := range groups {
		members := s.ComponentsInGroup(g.ID, reg)
		if len(members) == 0 && !opts.IncludeEmpty {
			continue
		}
		resolved = append(resolved, policy.ResolvedGroup{Group: g, Components: members})
	}
	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].Group.SortOrder < resolved[j].Group.SortOrder
	})
	return resolved
}
