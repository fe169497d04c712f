package grouping

import (
	"github.com/jpicklyk/knox-core/pkg/policy"
	"github.com/jpicklyk/knox-core/pkg/policy/registry"
)

// capabilityRule binds one modifies capability to its display group.
type capabilityRule struct {
	capability policy.Capability
	group      policy.Group
}

// CapabilityStrategy is the default grouping strategy. It maps each
// modifies capability to one predefined group and collects everything that
// declares none of them into a trailing "other" group.
//
// A component with several modifies capabilities is assigned by the first
// matching rule in declaration order, so assignment is deterministic and
// many-to-one regardless of the iteration order of the component's own
// capability set.
type CapabilityStrategy struct {
	rules []capabilityRule
	other policy.Group
}

// NewCapabilityStrategy creates the default capability-based strategy.
func NewCapabilityStrategy() *CapabilityStrategy {
	rules := []capabilityRule{
		{policy.ModifiesRadio, policy.Group{ID: "radio", DisplayName: "Radio", Description: "Cellular radio and airplane controls", Icon: "ic_radio"}},
		{policy.ModifiesWifi, policy.Group{ID: "wifi", DisplayName: "Wi-Fi", Description: "Wireless network controls", Icon: "ic_wifi"}},
		{policy.ModifiesBluetooth, policy.Group{ID: "bluetooth", DisplayName: "Bluetooth", Description: "Bluetooth and pairing controls", Icon: "ic_bluetooth"}},
		{policy.ModifiesDisplay, policy.Group{ID: "display", DisplayName: "Display", Description: "Screen and brightness controls", Icon: "ic_display"}},
		{policy.ModifiesAudio, policy.Group{ID: "audio", DisplayName: "Audio", Description: "Volume and sound controls", Icon: "ic_audio"}},
		{policy.ModifiesCharging, policy.Group{ID: "charging", DisplayName: "Charging", Description: "Battery and charging controls", Icon: "ic_charging"}},
		{policy.ModifiesCalling, policy.Group{ID: "calling", DisplayName: "Calling", Description: "Call and telephony controls", Icon: "ic_calling"}},
		{policy.ModifiesHardware, policy.Group{ID: "hardware", DisplayName: "Hardware", Description: "Camera, microphone and peripheral controls", Icon: "ic_hardware"}},
		{policy.ModifiesBrowser, policy.Group{ID: "browser", DisplayName: "Browser", Description: "Browsing restrictions", Icon: "ic_browser"}},
		{policy.ModifiesSecurity, policy.Group{ID: "security", DisplayName: "Security", Description: "Lock, encryption and security controls", Icon: "ic_security"}},
		{policy.ModifiesNetwork, policy.Group{ID: "network", DisplayName: "Network", Description: "APN, VPN and data controls", Icon: "ic_network"}},
	}
	for i := range rules {
		rules[i].group.SortOrder = i
	}
	return &CapabilityStrategy{
		rules: rules,
		other: policy.Group{
			ID:          "other",
			DisplayName: "Other",
			Description: "Policies outside the standard groups",
			Icon:        "ic_other",
			SortOrder:   len(rules),
		},
	}
}

// Groups returns the mapped groups in rule order, followed by "other".
func (s *CapabilityStrategy) Groups() []policy.Group {
	groups := make([]policy.Group, 0, len(s.rules)+1)
	for _, r := range s.rules {
		groups = append(groups, r.group)
	}
	return append(groups, s.other)
}

// GroupFor assigns the component to the first rule group whose capability
// it declares, or to "other" when none match. Every component is assigned,
// so ok is always true.
func (s *CapabilityStrategy) GroupFor(c *policy.Component) (policy.Group, bool) {
	for _, r := range s.rules {
		if c.HasCapability(r.capability) {
			return r.group, true
		}
	}
	return s.other, true
}

// ComponentsInGroup returns the group's members in registration order.
//
// Mapped groups start from the registry's capability index and keep only
// components the group actually owns, so a component declaring an
// earlier-mapped capability does not show up here a second time. The
// "other" group is an exclusion and always scans the full component list.
func (s *CapabilityStrategy) ComponentsInGroup(groupID string, reg *registry.Registry) []*policy.Component {
	out := []*policy.Component{}
	if groupID == s.other.ID {
		for _, c := range reg.AllComponents() {
			if !s.hasMappedCapability(c) {
				out = append(out, c)
			}
		}
		return out
	}

	for _, r := range s.rules {
		if r.group.ID != groupID {
			continue
		}
		for _, c := range reg.ByCapability(r.capability) {
			if g, _ := s.GroupFor(c); g.ID == groupID {
				out = append(out, c)
			}
		}
		return out
	}
	return out
}

// Name returns the strategy name.
func (s *CapabilityStrategy) Name() string {
	return "capability"
}

func (s *CapabilityStrategy) hasMappedCapability(c *policy.Component) bool {
	for _, r := range s.rules {
		if c.HasCapability(r.capability) {
			return true
		}
	}
	return false
}
