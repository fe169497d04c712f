package registry

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jpicklyk/knox-core/pkg/policy"
)

func TestNew(t *testing.T) {
	reg := New()

	if reg == nil {
		t.Fatal("New() returned nil")
	}

	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}

	if reg.Version() != 0 {
		t.Errorf("Version() = %d, want 0", reg.Version())
	}

	// Queries must be valid before the first ReplaceAll.
	all := reg.AllComponents()
	if all == nil {
		t.Fatal("AllComponents() returned nil slice")
	}
	if len(all) != 0 {
		t.Errorf("AllComponents() count = %d, want 0", len(all))
	}
}

func TestRegistry_ReplaceAll(t *testing.T) {
	reg := New()

	components := []*policy.Component{
		newToggleComponent(t, "wifi", policy.ModifiesWifi),
		newToggleComponent(t, "bluetooth", policy.ModifiesBluetooth),
		newToggleComponent(t, "airplane-mode", policy.ModifiesRadio),
	}

	if err := reg.ReplaceAll(context.Background(), components); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}

	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reg.Len())
	}

	if reg.Version() != 1 {
		t.Errorf("Version() = %d, want 1", reg.Version())
	}

	c, ok := reg.Component("bluetooth")
	if !ok {
		t.Fatal("Component(bluetooth) ok = false, want true")
	}
	if c.Name() != "bluetooth" {
		t.Errorf("component name = %q, want %q", c.Name(), "bluetooth")
	}
}

func TestRegistry_ReplaceAll_ReplacesWholeSet(t *testing.T) {
	reg := New()
	ctx := context.Background()

	initial := []*policy.Component{
		newToggleComponent(t, "wifi", policy.ModifiesWifi),
		newToggleComponent(t, "bluetooth", policy.ModifiesBluetooth),
	}
	if err := reg.ReplaceAll(ctx, initial); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}

	replacement := []*policy.Component{
		newToggleComponent(t, "camera", policy.ModifiesHardware),
	}
	if err := reg.ReplaceAll(ctx, replacement); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}

	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}

	if _, ok := reg.Component("wifi"); ok {
		t.Error("Component(wifi) ok = true after replacement, want false")
	}
	if _, ok := reg.Component("camera"); !ok {
		t.Error("Component(camera) ok = false, want true")
	}
}

func TestRegistry_ReplaceAll_EmptySliceClears(t *testing.T) {
	reg := New()
	ctx := context.Background()

	if err := reg.ReplaceAll(ctx, []*policy.Component{newToggleComponent(t, "wifi", policy.ModifiesWifi)}); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}

	if err := reg.ReplaceAll(ctx, []*policy.Component{}); err != nil {
		t.Fatalf("ReplaceAll(empty) error = %v, want nil", err)
	}

	if reg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", reg.Len())
	}
	if reg.Version() != 2 {
		t.Errorf("Version() = %d, want 2", reg.Version())
	}
}

func TestRegistry_ReplaceAll_NilSlice(t *testing.T) {
	reg := New()

	err := reg.ReplaceAll(context.Background(), nil)

	if !errors.Is(err, ErrNilComponents) {
		t.Fatalf("ReplaceAll(nil) error = %v, want ErrNilComponents", err)
	}
}

func TestRegistry_ReplaceAll_NilComponent(t *testing.T) {
	reg := New()

	components := []*policy.Component{
		newToggleComponent(t, "wifi", policy.ModifiesWifi),
		nil,
	}

	err := reg.ReplaceAll(context.Background(), components)

	if !errors.Is(err, ErrNilComponent) {
		t.Fatalf("ReplaceAll() error = %v, want ErrNilComponent", err)
	}
	if !strings.Contains(err.Error(), "index 1") {
		t.Errorf("error = %q, want mention of index 1", err.Error())
	}
}

func TestRegistry_ReplaceAll_DuplicateName(t *testing.T) {
	reg := New()
	ctx := context.Background()

	initial := []*policy.Component{
		newToggleComponent(t, "wifi", policy.ModifiesWifi),
	}
	if err := reg.ReplaceAll(ctx, initial); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}

	duplicated := []*policy.Component{
		newToggleComponent(t, "bluetooth", policy.ModifiesBluetooth),
		newToggleComponent(t, "bluetooth", policy.ModifiesBluetooth),
	}

	err := reg.ReplaceAll(ctx, duplicated)

	var dupErr *DuplicateNameError
	if !errors.As(err, &dupErr) {
		t.Fatalf("ReplaceAll() error type = %T, want *DuplicateNameError", err)
	}
	if dupErr.PolicyName != "bluetooth" {
		t.Errorf("PolicyName = %q, want %q", dupErr.PolicyName, "bluetooth")
	}

	// Rejection must leave the previous generation intact.
	if reg.Version() != 1 {
		t.Errorf("Version() after rejection = %d, want 1", reg.Version())
	}
	if _, ok := reg.Component("wifi"); !ok {
		t.Error("Component(wifi) ok = false after rejected replacement, want true")
	}
	if _, ok := reg.Component("bluetooth"); ok {
		t.Error("Component(bluetooth) ok = true after rejected replacement, want false")
	}
}

func TestRegistry_Component_NotFound(t *testing.T) {
	reg := New()

	c, ok := reg.Component("nonexistent")

	if ok {
		t.Error("Component(nonexistent) ok = true, want false")
	}
	if c != nil {
		t.Errorf("Component(nonexistent) = %v, want nil", c)
	}
}

func TestHandler(t *testing.T) {
	reg := New()
	ctx := context.Background()

	if err := reg.ReplaceAll(ctx, []*policy.Component{newToggleComponent(t, "wifi", policy.ModifiesWifi)}); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}

	h, ok := Handler(reg, policy.NewKey[policy.ToggleState]("wifi"))
	if !ok {
		t.Fatal("Handler(wifi) ok = false, want true")
	}

	state, err := h.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState() error = %v, want nil", err)
	}
	if state.Enabled() {
		t.Error("state.Enabled() = true, want false")
	}
}

func TestHandler_NotFound(t *testing.T) {
	reg := New()

	_, ok := Handler(reg, policy.NewKey[policy.ToggleState]("nonexistent"))

	if ok {
		t.Error("Handler(nonexistent) ok = true, want false")
	}
}

func TestHandler_StateTypeMismatch(t *testing.T) {
	reg := New()
	ctx := context.Background()

	if err := reg.ReplaceAll(ctx, []*policy.Component{newToggleComponent(t, "wifi", policy.ModifiesWifi)}); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}

	type otherState struct{ policy.ToggleState }

	_, ok := Handler(reg, policy.NewKey[otherState]("wifi"))

	if ok {
		t.Error("Handler with mismatched state type ok = true, want false")
	}
}

func TestRegistry_SetPolicyState(t *testing.T) {
	reg := New()
	ctx := context.Background()

	if err := reg.ReplaceAll(ctx, []*policy.Component{newToggleComponent(t, "wifi", policy.ModifiesWifi)}); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}

	if err := reg.SetPolicyState(ctx, "wifi", policy.NewToggleState(true)); err != nil {
		t.Fatalf("SetPolicyState() error = %v, want nil", err)
	}

	c, _ := reg.Component("wifi")
	state, err := c.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState() error = %v, want nil", err)
	}
	if !state.Enabled() {
		t.Error("state.Enabled() = false after SetPolicyState(true), want true")
	}
}

func TestRegistry_SetPolicyState_NotFound(t *testing.T) {
	reg := New()

	err := reg.SetPolicyState(context.Background(), "nonexistent", policy.NewToggleState(true))

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("SetPolicyState() error type = %T, want *NotFoundError", err)
	}
	if notFound.PolicyName != "nonexistent" {
		t.Errorf("PolicyName = %q, want %q", notFound.PolicyName, "nonexistent")
	}
}

func TestRegistry_Version_Monotonic(t *testing.T) {
	reg := New()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if err := reg.ReplaceAll(ctx, []*policy.Component{newToggleComponent(t, "wifi", policy.ModifiesWifi)}); err != nil {
			t.Fatalf("ReplaceAll() error = %v, want nil", err)
		}
		if reg.Version() != uint64(i) {
			t.Errorf("Version() after replace %d = %d, want %d", i, reg.Version(), i)
		}
	}
}

func TestRegistry_LastReplaceTime(t *testing.T) {
	reg := New()

	first := reg.LastReplaceTime()
	if first.IsZero() {
		t.Error("LastReplaceTime() returned zero time for new registry")
	}

	time.Sleep(10 * time.Millisecond)
	if err := reg.ReplaceAll(context.Background(), []*policy.Component{}); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}

	if !reg.LastReplaceTime().After(first) {
		t.Error("LastReplaceTime() did not advance after ReplaceAll")
	}
}

func TestRegistry_ConcurrentReplaceAndRead(t *testing.T) {
	reg := New()
	ctx := context.Background()

	smallSet := []*policy.Component{
		newToggleComponent(t, "wifi", policy.ModifiesWifi),
		newToggleComponent(t, "bluetooth", policy.ModifiesBluetooth),
	}
	largeSet := []*policy.Component{
		newToggleComponent(t, "nfc", policy.ModifiesRadio),
		newToggleComponent(t, "camera", policy.ModifiesHardware),
		newToggleComponent(t, "microphone", policy.ModifiesHardware),
	}

	if err := reg.ReplaceAll(ctx, smallSet); err != nil {
		t.Fatalf("ReplaceAll() error = %v, want nil", err)
	}

	var wg sync.WaitGroup
	iterations := 200

	// Readers must only ever observe a complete generation: two or three
	// components, never a mix of the two sets.
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				all := reg.AllComponents()
				switch len(all) {
				case 2:
					if all[0].Name() != "wifi" || all[1].Name() != "bluetooth" {
						t.Errorf("torn read: got set %v", names(all))
						return
					}
				case 3:
					if all[0].Name() != "nfc" || all[1].Name() != "camera" || all[2].Name() != "microphone" {
						t.Errorf("torn read: got set %v", names(all))
						return
					}
				default:
					t.Errorf("torn read: got %d components, want 2 or 3", len(all))
					return
				}
			}
		}()
	}

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				set := smallSet
				if (id+j)%2 == 0 {
					set = largeSet
				}
				if err := reg.ReplaceAll(ctx, set); err != nil {
					t.Errorf("ReplaceAll() error = %v, want nil", err)
					return
				}
			}
		}(i)
	}

	wg.Wait()

	if reg.Len() != 2 && reg.Len() != 3 {
		t.Errorf("Len() = %d, want 2 or 3", reg.Len())
	}
}

func names(components []*policy.Component) []string {
	out := make([]string, len(components))
	for i, c := range components {
		out[i] = c.Name()
	}
	return out
}

// newToggleComponent builds a test component whose toggle state lives in a
// closure. The handler is synchronized so concurrent tests can exercise it.
func newToggleComponent(t testing.TB, name string, caps ...policy.Capability) *policy.Component {
	t.Helper()

	var mu sync.Mutex
	current := policy.NewToggleState(false)

	c, err := policy.NewComponent(policy.ComponentSpec[policy.ToggleState]{
		Key:          policy.NewKey[policy.ToggleState](name),
		Title:        name,
		Description:  "test policy " + name,
		Category:     policy.CategoryToggle,
		Capabilities: caps,
		DefaultState: policy.NewToggleState(false),
		Handler: policy.HandlerFuncs[policy.ToggleState]{
			Get: func(ctx context.Context) (policy.ToggleState, error) {
				mu.Lock()
				defer mu.Unlock()
				return current, nil
			},
			Set: func(ctx context.Context, state policy.ToggleState) error {
				mu.Lock()
				defer mu.Unlock()
				current = state
				return nil
			},
		},
	})
	if err != nil {
		t.Fatalf("NewComponent(%q) error = %v, want nil", name, err)
	}
	return c
}
