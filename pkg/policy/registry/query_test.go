package registry

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jpicklyk/knox-core/pkg/policy"
)

// catalogABC builds the three-policy catalog used by the capability query
// tests: A modifies radio, B modifies radio and wifi, C modifies display.
func catalogABC(t *testing.T) *Registry {
	t.Helper()

	reg := New()
	components := []*policy.Component{
		newToggleComponent(t, "policy-a", policy.ModifiesRadio),
		newToggleComponent(t, "policy-b", policy.ModifiesRadio, policy.ModifiesWifi),
		newToggleComponent(t, "policy-c", policy.ModifiesDisplay),
	}
	if err := reg.ReplaceAll(context.Background(), components); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}
	return reg
}

func TestRegistry_ByCapability(t *testing.T) {
	reg := catalogABC(t)

	got := names(reg.ByCapability(policy.ModifiesRadio))
	want := []string{"policy-a", "policy-b"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ByCapability(radio) = %v, want %v", got, want)
	}
}

func TestRegistry_ByCapability_NoMatches(t *testing.T) {
	reg := catalogABC(t)

	got := reg.ByCapability(policy.ModifiesAudio)

	if got == nil {
		t.Fatal("ByCapability() returned nil slice, want empty")
	}
	if len(got) != 0 {
		t.Errorf("ByCapability(audio) count = %d, want 0", len(got))
	}
}

func TestRegistry_ByCapability_InvalidCapability(t *testing.T) {
	reg := catalogABC(t)

	got := reg.ByCapability(policy.Capability(9999))

	if got == nil {
		t.Fatal("ByCapability() returned nil slice, want empty")
	}
	if len(got) != 0 {
		t.Errorf("ByCapability(invalid) count = %d, want 0", len(got))
	}
}

func TestRegistry_ByCapability_ResultIsCopy(t *testing.T) {
	reg := catalogABC(t)

	first := reg.ByCapability(policy.ModifiesRadio)
	first[0] = nil

	second := reg.ByCapability(policy.ModifiesRadio)
	if second[0] == nil {
		t.Error("mutating a query result leaked into the snapshot")
	}
}

func TestRegistry_ByCapabilities_Union(t *testing.T) {
	reg := catalogABC(t)

	got := names(reg.ByCapabilities([]policy.Capability{policy.ModifiesRadio, policy.ModifiesWifi}, false))
	// policy-b declares both capabilities but must appear once.
	want := []string{"policy-a", "policy-b"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ByCapabilities(radio|wifi, any) = %v, want %v", got, want)
	}
}

func TestRegistry_ByCapabilities_Intersection(t *testing.T) {
	reg := catalogABC(t)

	got := names(reg.ByCapabilities([]policy.Capability{policy.ModifiesRadio, policy.ModifiesWifi}, true))
	want := []string{"policy-b"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ByCapabilities(radio&wifi, all) = %v, want %v", got, want)
	}
}

func TestRegistry_ByCapabilities_EmptyListMatchesAll(t *testing.T) {
	reg := catalogABC(t)
	want := []string{"policy-a", "policy-b", "policy-c"}

	for _, matchAll := range []bool{false, true} {
		got := names(reg.ByCapabilities(nil, matchAll))
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ByCapabilities(empty, matchAll=%v) = %v, want %v", matchAll, got, want)
		}
	}
}

func TestRegistry_ByCapabilities_IntersectionWithInvalid(t *testing.T) {
	reg := catalogABC(t)

	got := reg.ByCapabilities([]policy.Capability{policy.ModifiesRadio, policy.Capability(9999)}, true)

	if len(got) != 0 {
		t.Errorf("ByCapabilities(radio&invalid, all) count = %d, want 0", len(got))
	}
}

func TestRegistry_ByCapabilities_UnionWithInvalid(t *testing.T) {
	reg := catalogABC(t)

	got := names(reg.ByCapabilities([]policy.Capability{policy.ModifiesRadio, policy.Capability(9999)}, false))
	want := []string{"policy-a", "policy-b"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ByCapabilities(radio|invalid, any) = %v, want %v", got, want)
	}
}

func TestRegistry_ByCategory(t *testing.T) {
	reg := New()
	components := []*policy.Component{
		newToggleComponent(t, "wifi", policy.ModifiesWifi),
		newConfigurableComponent(t, "screen-timeout", policy.ModifiesDisplay),
		newToggleComponent(t, "bluetooth", policy.ModifiesBluetooth),
	}
	if err := reg.ReplaceAll(context.Background(), components); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}

	got := names(reg.ByCategory(policy.CategoryToggle))
	want := []string{"wifi", "bluetooth"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ByCategory(toggle) = %v, want %v", got, want)
	}

	got = names(reg.ByCategory(policy.CategoryConfigurableToggle))
	want = []string{"screen-timeout"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ByCategory(configurable_toggle) = %v, want %v", got, want)
	}
}

func TestRegistry_Query(t *testing.T) {
	reg := New()
	components := []*policy.Component{
		newToggleComponent(t, "wifi", policy.ModifiesWifi, policy.AffectsConnectivity),
		newToggleComponent(t, "bluetooth", policy.ModifiesBluetooth, policy.AffectsConnectivity),
		newConfigurableComponent(t, "apn", policy.ModifiesNetwork, policy.AffectsConnectivity, policy.RequiresSim),
		newToggleComponent(t, "camera", policy.ModifiesHardware),
	}
	if err := reg.ReplaceAll(context.Background(), components); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}

	toggle := policy.CategoryToggle
	configurable := policy.CategoryConfigurableToggle

	tests := []struct {
		name   string
		filter QueryFilter
		want   []string
	}{
		{
			name:   "empty filter returns all",
			filter: QueryFilter{},
			want:   []string{"wifi", "bluetooth", "apn", "camera"},
		},
		{
			name:   "category only",
			filter: QueryFilter{Category: &toggle},
			want:   []string{"wifi", "bluetooth", "camera"},
		},
		{
			name: "capabilities only",
			filter: QueryFilter{
				Capabilities: []policy.Capability{policy.AffectsConnectivity},
			},
			want: []string{"wifi", "bluetooth", "apn"},
		},
		{
			name: "category and capability",
			filter: QueryFilter{
				Category:     &toggle,
				Capabilities: []policy.Capability{policy.AffectsConnectivity},
			},
			want: []string{"wifi", "bluetooth"},
		},
		{
			name: "category and all capabilities",
			filter: QueryFilter{
				Category: &configurable,
				Capabilities: []policy.Capability{
					policy.AffectsConnectivity,
					policy.RequiresSim,
				},
				MatchAllCapabilities: true,
			},
			want: []string{"apn"},
		},
		{
			name: "no matches",
			filter: QueryFilter{
				Category:     &configurable,
				Capabilities: []policy.Capability{policy.ModifiesHardware},
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(reg.Query(tt.filter))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Query() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistry_AllComponents_RegistrationOrder(t *testing.T) {
	reg := New()
	components := []*policy.Component{
		newToggleComponent(t, "zulu"),
		newToggleComponent(t, "alpha"),
		newToggleComponent(t, "mike"),
	}
	if err := reg.ReplaceAll(context.Background(), components); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}

	got := names(reg.AllComponents())
	want := []string{"zulu", "alpha", "mike"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("AllComponents() = %v, want %v", got, want)
	}
}

func TestRegistry_AllPolicies(t *testing.T) {
	reg := New()
	ctx := context.Background()

	components := []*policy.Component{
		newToggleComponent(t, "wifi", policy.ModifiesWifi),
		newFailingComponent(t, "broken"),
		newToggleComponent(t, "bluetooth", policy.ModifiesBluetooth),
	}
	if err := reg.ReplaceAll(ctx, components); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}

	statuses, err := reg.AllPolicies(ctx)
	if err != nil {
		t.Fatalf("AllPolicies() error = %v, want nil", err)
	}

	if len(statuses) != 3 {
		t.Fatalf("AllPolicies() count = %d, want 3", len(statuses))
	}

	// A failing handler must not stop the sweep.
	if statuses[0].Err != nil {
		t.Errorf("statuses[0].Err = %v, want nil", statuses[0].Err)
	}
	if statuses[0].State == nil {
		t.Error("statuses[0].State = nil, want state")
	}

	if statuses[1].Component.Name() != "broken" {
		t.Errorf("statuses[1] component = %q, want %q", statuses[1].Component.Name(), "broken")
	}
	if statuses[1].Err == nil {
		t.Error("statuses[1].Err = nil, want handler error")
	}
	if statuses[1].State != nil {
		t.Errorf("statuses[1].State = %v, want nil", statuses[1].State)
	}

	if statuses[2].Err != nil {
		t.Errorf("statuses[2].Err = %v, want nil", statuses[2].Err)
	}
}

func TestRegistry_AllPolicies_ContextCancelled(t *testing.T) {
	reg := catalogABC(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	statuses, err := reg.AllPolicies(ctx)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("AllPolicies() error = %v, want context.Canceled", err)
	}
	if statuses != nil {
		t.Errorf("AllPolicies() statuses = %v, want nil", statuses)
	}
}

func TestRegistry_PoliciesByCategory(t *testing.T) {
	reg := New()
	ctx := context.Background()

	components := []*policy.Component{
		newToggleComponent(t, "wifi", policy.ModifiesWifi),
		newConfigurableComponent(t, "screen-timeout", policy.ModifiesDisplay),
	}
	if err := reg.ReplaceAll(ctx, components); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}

	statuses, err := reg.PoliciesByCategory(ctx, policy.CategoryConfigurableToggle)
	if err != nil {
		t.Fatalf("PoliciesByCategory() error = %v, want nil", err)
	}

	if len(statuses) != 1 {
		t.Fatalf("PoliciesByCategory() count = %d, want 1", len(statuses))
	}
	if statuses[0].Component.Name() != "screen-timeout" {
		t.Errorf("statuses[0] component = %q, want %q", statuses[0].Component.Name(), "screen-timeout")
	}
}

// newConfigurableComponent is newToggleComponent with the configurable
// toggle category.
func newConfigurableComponent(t *testing.T, name string, caps ...policy.Capability) *policy.Component {
	t.Helper()

	c, err := policy.NewComponent(policy.ComponentSpec[policy.ToggleState]{
		Key:          policy.NewKey[policy.ToggleState](name),
		Title:        name,
		Category:     policy.CategoryConfigurableToggle,
		Capabilities: caps,
		DefaultState: policy.NewToggleState(false),
		Handler: policy.HandlerFuncs[policy.ToggleState]{
			Get: func(ctx context.Context) (policy.ToggleState, error) {
				return policy.NewToggleState(false), nil
			},
			Set: func(ctx context.Context, state policy.ToggleState) error {
				return nil
			},
		},
	})
	if err != nil {
		t.Fatalf("NewComponent(%q) error = %v, want nil", name, err)
	}
	return c
}

// newFailingComponent builds a component whose handler always fails.
func newFailingComponent(t *testing.T, name string) *policy.Component {
	t.Helper()

	c, err := policy.NewComponent(policy.ComponentSpec[policy.ToggleState]{
		Key:          policy.NewKey[policy.ToggleState](name),
		Title:        name,
		Category:     policy.CategoryToggle,
		DefaultState: policy.NewToggleState(false),
		Handler: policy.HandlerFuncs[policy.ToggleState]{
			Get: func(ctx context.Context) (policy.ToggleState, error) {
				return policy.ToggleState{}, policy.NewStateError(policy.ErrCodeUnexpected, "backend unavailable")
			},
			Set: func(ctx context.Context, state policy.ToggleState) error {
				return policy.NewStateError(policy.ErrCodeUnexpected, "backend unavailable")
			},
		},
	})
	if err != nil {
		t.Fatalf("NewComponent(%q) error = %v, want nil", name, err)
	}
	return c
}
