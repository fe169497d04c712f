// Package prefs provides the durable preference store backing toggle
// policy handlers.
//
// # Backends
//
// MemoryStore keeps values in process and is the default backend and the
// test seam. SQLiteStore persists values to a SQLite database with WAL
// mode and schema versioning; FromConfig selects between them.
//
// # Watching
//
// Watch returns a channel carrying the key's current value immediately,
// then every subsequent change:
//
//	ch, cancel, err := store.Watch(ctx, "policy.wifi.enabled", "false")
//	if err != nil {
//		return err
//	}
//	defer cancel()
//	for value := range ch {
//		// react to the change
//	}
//
// Watchers are coalescing: a consumer that falls behind skips intermediate
// values and always observes the latest one. SQLite change notification is
// in-process only; writes from another process sharing the database file
// are not observed.
//
// # Policy Handlers
//
// ToggleHandler adapts one store key to policy.Handler[policy.ToggleState]
// so preference-backed policies plug into the registry like any other:
//
//	handler := prefs.NewToggleHandler(store, "policy.wifi.enabled", false)
//
// Devices lacking a subsystem use NewUnsupportedToggleHandler, which
// reports an unsupported state instead of failing.
package prefs
