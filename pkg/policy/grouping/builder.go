package grouping

import "github.com/jpicklyk/knox-core/pkg/policy"

// GroupOption customizes one group added through ConfigBuilder.
type GroupOption func(*policy.Group)

// WithDescription sets the group description.
func WithDescription(description string) GroupOption {
	return func(g *policy.Group) {
		g.Description = description
	}
}

// WithIcon sets the group icon reference.
func WithIcon(icon string) GroupOption {
	return func(g *policy.Group) {
		g.Icon = icon
	}
}

// WithSortOrder overrides the group's default sort order.
func WithSortOrder(order int) GroupOption {
	return func(g *policy.Group) {
		g.SortOrder = order
	}
}

// ConfigBuilder accumulates a grouping configuration incrementally.
//
// Example usage:
//
//	cfg, err := grouping.NewConfigBuilder().
//	    AddGroup("connectivity", "Connectivity", grouping.WithIcon("ic_network")).
//	    AddGroup("device", "Device").
//	    Assign("wifi", "connectivity").
//	    Assign("bluetooth", "connectivity").
//	    Assign("camera", "device").
//	    Build()
type ConfigBuilder struct {
	groups      []policy.Group
	assignments map[string]string
}

// NewConfigBuilder creates an empty builder.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		assignments: make(map[string]string),
	}
}

// AddGroup appends a group definition. Unless WithSortOrder is given, the
// sort order defaults to the group's declaration index.
func (b *ConfigBuilder) AddGroup(id, displayName string, opts ...GroupOption) *ConfigBuilder {
	g := policy.Group{
		ID:          id,
		DisplayName: displayName,
		SortOrder:   len(b.groups),
	}
	for _, opt := range opts {
		opt(&g)
	}
	b.groups = append(b.groups, g)
	return b
}

// Assign maps a policy name to a group ID. Assigning the same policy again
// overwrites the previous assignment.
func (b *ConfigBuilder) Assign(policyName, groupID string) *ConfigBuilder {
	b.assignments[policyName] = groupID
	return b
}

// Build validates the accumulated configuration and returns it. Duplicate
// group IDs and assignments to unknown groups are reported as typed errors;
// the builder stays usable after a failed Build.
func (b *ConfigBuilder) Build() (*Config, error) {
	cfg := &Config{
		Groups:      b.groups,
		Assignments: b.assignments,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg.Clone(), nil
}
