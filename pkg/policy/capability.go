package policy

import "fmt"

// Capability is a declarative fact about a policy, fixed at registration
// time: what device subsystem it modifies, what device preconditions it
// requires, or what operational impact it has. Capabilities are never
// derived at runtime.
type Capability int

const (
	// Modifies capabilities describe the device subsystem a policy changes.

	ModifiesRadio Capability = iota
	ModifiesWifi
	ModifiesBluetooth
	ModifiesDisplay
	ModifiesAudio
	ModifiesCharging
	ModifiesCalling
	ModifiesHardware
	ModifiesBrowser
	ModifiesSecurity
	ModifiesNetwork

	// Requires capabilities describe device preconditions.

	RequiresSim
	RequiresDualSim
	RequiresManagedHardware

	// Impact capabilities describe operational consequences.

	SecuritySensitive
	AffectsConnectivity
	AffectsBattery
	RequiresReboot
	PersistsAcrossReboot

	// Compliance marks policies that participate in compliance reporting.
	Compliance

	capabilityCount // sentinel, keep last
)

var capabilityNames = [capabilityCount]string{
	ModifiesRadio:           "modifies_radio",
	ModifiesWifi:            "modifies_wifi",
	ModifiesBluetooth:       "modifies_bluetooth",
	ModifiesDisplay:         "modifies_display",
	ModifiesAudio:           "modifies_audio",
	ModifiesCharging:        "modifies_charging",
	ModifiesCalling:         "modifies_calling",
	ModifiesHardware:        "modifies_hardware",
	ModifiesBrowser:         "modifies_browser",
	ModifiesSecurity:        "modifies_security",
	ModifiesNetwork:         "modifies_network",
	RequiresSim:             "requires_sim",
	RequiresDualSim:         "requires_dual_sim",
	RequiresManagedHardware: "requires_managed_hardware",
	SecuritySensitive:       "security_sensitive",
	AffectsConnectivity:     "affects_connectivity",
	AffectsBattery:          "affects_battery",
	RequiresReboot:          "requires_reboot",
	PersistsAcrossReboot:    "persists_across_reboot",
	Compliance:              "compliance",
}

// String returns the stable snake_case name of the capability.
func (c Capability) String() string {
	if c < 0 || c >= capabilityCount {
		return fmt.Sprintf("capability(%d)", int(c))
	}
	return capabilityNames[c]
}

// Valid reports whether c is a declared capability value.
func (c Capability) Valid() bool {
	return c >= 0 && c < capabilityCount
}

// ParseCapability resolves a capability from its stable name.
func ParseCapability(name string) (Capability, bool) {
	for i, n := range capabilityNames {
		if n == name {
			return Capability(i), true
		}
	}
	return 0, false
}

// Capabilities returns every capability value in declaration order.
// The returned slice is a fresh copy on each call.
func Capabilities() []Capability {
	caps := make([]Capability, capabilityCount)
	for i := range caps {
		caps[i] = Capability(i)
	}
	return caps
}

// CapabilitySet is an unordered set of capabilities.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from the given capabilities.
// Invalid values are ignored.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		if c.Valid() {
			set[c] = struct{}{}
		}
	}
	return set
}

// Contains reports whether the set contains c.
func (s CapabilitySet) Contains(c Capability) bool {
	_, ok := s[c]
	return ok
}

// ContainsAll reports whether the set is a superset of other.
// The empty set is a subset of everything, so ContainsAll(nil) is true.
func (s CapabilitySet) ContainsAll(other CapabilitySet) bool {
	for c := range other {
		if !s.Contains(c) {
			return false
		}
	}
	return true
}

// ContainsAny reports whether the set shares at least one capability with
// caps. An empty caps slice matches nothing.
func (s CapabilitySet) ContainsAny(caps ...Capability) bool {
	for _, c := range caps {
		if s.Contains(c) {
			return true
		}
	}
	return false
}

// Values returns the members of the set in capability declaration order,
// independent of map iteration order.
func (s CapabilitySet) Values() []Capability {
	values := make([]Capability, 0, len(s))
	for i := Capability(0); i < capabilityCount; i++ {
		if s.Contains(i) {
			values = append(values, i)
		}
	}
	return values
}

// Clone returns an independent copy of the set.
func (s CapabilitySet) Clone() CapabilitySet {
	clone := make(CapabilitySet, len(s))
	for c := range s {
		clone[c] = struct{}{}
	}
	return clone
}
