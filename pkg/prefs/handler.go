package prefs

import (
	"context"

	"github.com/jpicklyk/knox-core/pkg/policy"
)

// ToggleHandler is a policy.Handler[policy.ToggleState] backed by one
// Store key. It is the standard handler for policies whose live state is
// the preference itself rather than a device subsystem.
//
// Support is fixed at construction: composition code probes the device
// once and builds either a store-backed handler or an unsupported one, so
// the registry always holds a handler for every declared policy.
type ToggleHandler struct {
	store          Store
	key            string
	defaultEnabled bool
	supported      bool
}

var _ policy.Handler[policy.ToggleState] = (*ToggleHandler)(nil)

// NewToggleHandler creates a supported handler persisting the toggle
// under key. defaultEnabled is reported until the first write.
func NewToggleHandler(store Store, key string, defaultEnabled bool) *ToggleHandler {
	return &ToggleHandler{
		store:          store,
		key:            key,
		defaultEnabled: defaultEnabled,
		supported:      true,
	}
}

// NewUnsupportedToggleHandler creates a handler for a policy the current
// device cannot change. GetState reports an unsupported state carrying
// defaultEnabled as the nominal value; SetState fails with
// policy.ErrNotSupported.
func NewUnsupportedToggleHandler(defaultEnabled bool) *ToggleHandler {
	return &ToggleHandler{
		defaultEnabled: defaultEnabled,
		supported:      false,
	}
}

// GetState reads the persisted toggle value.
func (h *ToggleHandler) GetState(ctx context.Context) (policy.ToggleState, error) {
	if !h.supported {
		return policy.NewUnsupportedToggleState(h.defaultEnabled), nil
	}

	enabled, err := GetBool(ctx, h.store, h.key, h.defaultEnabled)
	if err != nil {
		return policy.ToggleState{}, err
	}
	return policy.NewToggleState(enabled), nil
}

// SetState persists the toggle value.
func (h *ToggleHandler) SetState(ctx context.Context, state policy.ToggleState) error {
	if !h.supported {
		return policy.ErrNotSupported
	}
	return SetBool(ctx, h.store, h.key, state.Enabled())
}
