package policy

// Group is a display bucket for policies, produced by a grouping strategy.
// Groups are definition-only: they carry no policy data themselves.
type Group struct {
	// ID uniquely identifies the group within a strategy.
	ID string

	// DisplayName is the human-readable group title.
	DisplayName string

	// Description explains what the group collects.
	Description string

	// Icon is an optional reference to a display icon resource.
	Icon string

	// SortOrder positions the group in resolved output. Equal sort orders
	// keep their declaration order (sorting is stable).
	SortOrder int
}

// ResolvedGroup pairs a group definition with the components currently
// assigned to it. Resolved groups are derived on demand from a registry
// snapshot and never persisted.
type ResolvedGroup struct {
	// Group is the group definition.
	Group Group

	// Components are the members, in registry registration order.
	Components []*Component
}

// Len returns the number of member components.
func (g ResolvedGroup) Len() int { return len(g.Components) }

// Empty reports whether the group has no members.
func (g ResolvedGroup) Empty() bool { return len(g.Components) == 0 }
