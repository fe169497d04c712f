package grouping

import (
	"github.com/jpicklyk/knox-core/pkg/policy"
	"github.com/jpicklyk/knox-core/pkg/policy/registry"
)

// Config is an externally supplied grouping definition: an ordered list of
// groups plus an explicit policy-to-group assignment map. It is typically
// produced by ConfigBuilder or loaded from a source (file, git).
type Config struct {
	// Groups are the group definitions in declaration order.
	Groups []policy.Group

	// Assignments maps policy name to group ID.
	Assignments map[string]string
}

// Validate checks the configuration for structural problems: empty or
// duplicate group IDs, and assignments that name no policy or reference an
// undefined group. The first problem found is returned.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Groups))
	for _, g := range c.Groups {
		if g.ID == "" {
			return ErrEmptyGroupID
		}
		if _, dup := seen[g.ID]; dup {
			return &DuplicateGroupError{GroupID: g.ID}
		}
		seen[g.ID] = struct{}{}
	}
	for name, groupID := range c.Assignments {
		if name == "" {
			return ErrEmptyAssignment
		}
		if _, ok := seen[groupID]; !ok {
			return &UnknownGroupError{PolicyName: name, GroupID: groupID}
		}
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := &Config{
		Groups:      make([]policy.Group, len(c.Groups)),
		Assignments: make(map[string]string, len(c.Assignments)),
	}
	copy(clone.Groups, c.Groups)
	for name, groupID := range c.Assignments {
		clone.Assignments[name] = groupID
	}
	return clone
}

// ConfiguredStrategy groups policies by an explicit Config instead of
// capabilities. It is the strategy behind remotely managed grouping: the
// config typically arrives from a file or git source and is swapped in by
// rebuilding the strategy.
type ConfiguredStrategy struct {
	groups      []policy.Group
	byID        map[string]policy.Group
	assignments map[string]string
}

// NewConfiguredStrategy creates a strategy from cfg. The config is copied,
// so later mutation of cfg does not affect the strategy. A nil cfg yields
// an empty strategy that defines no groups and assigns nothing.
//
// The config is used as given; callers that accept untrusted input should
// run Config.Validate first. Assignments to undefined groups are treated
// as unassigned.
func NewConfiguredStrategy(cfg *Config) *ConfiguredStrategy {
	s := &ConfiguredStrategy{
		byID:        make(map[string]policy.Group),
		assignments: make(map[string]string),
	}
	if cfg == nil {
		return s
	}
	s.groups = make([]policy.Group, len(cfg.Groups))
	copy(s.groups, cfg.Groups)
	for _, g := range s.groups {
		s.byID[g.ID] = g
	}
	for name, groupID := range cfg.Assignments {
		s.assignments[name] = groupID
	}
	return s
}

// Groups returns the configured groups in declaration order.
func (s *ConfiguredStrategy) Groups() []policy.Group {
	groups := make([]policy.Group, len(s.groups))
	copy(groups, s.groups)
	return groups
}

// GroupFor looks the component up in the assignment map. The ok result is
// false when the policy is unassigned or assigned to an undefined group.
func (s *ConfiguredStrategy) GroupFor(c *policy.Component) (policy.Group, bool) {
	groupID, ok := s.assignments[c.Name()]
	if !ok {
		return policy.Group{}, false
	}
	g, ok := s.byID[groupID]
	return g, ok
}

// ComponentsInGroup filters the catalog by the assignment map, preserving
// registration order.
func (s *ConfiguredStrategy) ComponentsInGroup(groupID string, reg *registry.Registry) []*policy.Component {
	out := []*policy.Component{}
	if _, ok := s.byID[groupID]; !ok {
		return out
	}
	for _, c := range reg.AllComponents() {
		if s.assignments[c.Name()] == groupID {
			out = append(out, c)
		}
	}
	return out
}

// Name returns the strategy name.
func (s *ConfiguredStrategy) Name() string {
	return "configured"
}
