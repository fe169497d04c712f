package registry

import (
	"context"

	"github.com/jpicklyk/knox-core/pkg/policy"
)

// QueryFilter narrows a catalog query. Zero-value fields are unconstrained:
// a nil Category matches every category and an empty Capabilities slice
// matches every component.
type QueryFilter struct {
	// Category restricts results to one category when non-nil.
	Category *policy.Category

	// Capabilities restricts results by declared capabilities. Empty means
	// no capability constraint.
	Capabilities []policy.Capability

	// MatchAllCapabilities selects intersection semantics: a component must
	// declare every listed capability. When false, declaring any one of
	// them is enough.
	MatchAllCapabilities bool
}

// ByCapability returns every component declaring cap, in registration
// order. Unknown capabilities yield an empty result, never an error.
func (r *Registry) ByCapability(cap policy.Capability) []*policy.Component {
	r.metrics.RecordCatalogQuery("by_capability")
	return copyComponents(r.snap.Load().byCapability[cap])
}

// ByCapabilities returns components matching the capability list, in
// registration order with no duplicates. With matchAll false a component
// qualifies by declaring any listed capability; with matchAll true it must
// declare all of them. An empty list matches every component in both modes.
func (r *Registry) ByCapabilities(caps []policy.Capability, matchAll bool) []*policy.Component {
	r.metrics.RecordCatalogQuery("by_capabilities")
	snap := r.snap.Load()
	if len(caps) == 0 {
		return copyComponents(snap.components)
	}
	return filterByCapabilities(snap.components, caps, matchAll)
}

// ByCategory returns every component in cat, in registration order.
func (r *Registry) ByCategory(cat policy.Category) []*policy.Component {
	r.metrics.RecordCatalogQuery("by_category")
	return copyComponents(r.snap.Load().byCategory[cat])
}

// Query returns components matching every constraint in filter, in
// registration order. An empty filter returns the whole catalog.
func (r *Registry) Query(filter QueryFilter) []*policy.Component {
	r.metrics.RecordCatalogQuery("query")
	snap := r.snap.Load()

	base := snap.components
	if filter.Category != nil {
		base = snap.byCategory[*filter.Category]
	}
	if len(filter.Capabilities) == 0 {
		return copyComponents(base)
	}
	return filterByCapabilities(base, filter.Capabilities, filter.MatchAllCapabilities)
}

// AllComponents returns every registered component in registration order.
func (r *Registry) AllComponents() []*policy.Component {
	r.metrics.RecordCatalogQuery("all")
	return copyComponents(r.snap.Load().components)
}

// PolicyStatus pairs a component with the outcome of reading its state.
// Exactly one of State and Err is set.
type PolicyStatus struct {
	// Component is the catalog entry the read targeted.
	Component *policy.Component

	// State is the handler-reported state when the read succeeded.
	State policy.State

	// Err is the handler failure when the read did not succeed.
	Err error
}

// AllPolicies reads the current state of every registered policy. Handler
// failures are captured per entry and never abort the sweep; the only error
// return is ctx cancellation, which stops the sweep early.
func (r *Registry) AllPolicies(ctx context.Context) ([]PolicyStatus, error) {
	r.metrics.RecordCatalogQuery("all_policies")
	return r.sweep(ctx, r.snap.Load().components)
}

// PoliciesByCategory reads the current state of every policy in cat. Error
// semantics match AllPolicies.
func (r *Registry) PoliciesByCategory(ctx context.Context, cat policy.Category) ([]PolicyStatus, error) {
	r.metrics.RecordCatalogQuery("policies_by_category")
	return r.sweep(ctx, r.snap.Load().byCategory[cat])
}

func (r *Registry) sweep(ctx context.Context, components []*policy.Component) ([]PolicyStatus, error) {
	statuses := make([]PolicyStatus, 0, len(components))
	for _, c := range components {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		state, err := c.GetState(ctx)
		if err != nil {
			statuses = append(statuses, PolicyStatus{Component: c, Err: err})
			continue
		}
		statuses = append(statuses, PolicyStatus{Component: c, State: state})
	}
	return statuses, nil
}

// filterByCapabilities walks components in order keeping capability matches.
// Capabilities outside the enum match nothing.
func filterByCapabilities(components []*policy.Component, caps []policy.Capability, matchAll bool) []*policy.Component {
	out := []*policy.Component{}
	if matchAll {
		for _, cap := range caps {
			if !cap.Valid() {
				// No component can declare it, so requiring it
				// excludes everything.
				return out
			}
		}
		want := policy.NewCapabilitySet(caps...)
		for _, c := range components {
			if c.HasAllCapabilities(want) {
				out = append(out, c)
			}
		}
		return out
	}
	for _, c := range components {
		if c.HasAnyCapability(caps...) {
			out = append(out, c)
		}
	}
	return out
}

// copyComponents returns a defensive copy so callers cannot mutate a
// snapshot's index slices.
func copyComponents(components []*policy.Component) []*policy.Component {
	out := make([]*policy.Component, len(components))
	copy(out, components)
	return out
}
