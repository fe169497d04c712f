// Package source provides grouping-configuration sources.
//
// A source loads a grouping.Config and watches it for changes. This
// package provides in-memory, file-based and git-backed implementations;
// FromConfig selects one from application configuration.
//
// # File Source
//
// The file source loads the configuration from a YAML document on disk
// and watches it with fsnotify, debouncing bursts of events:
//
//	src := source.NewFileSource("grouping.yaml", 500*time.Millisecond, logger)
//	cfg, err := src.Load(ctx)
//
// # Hot-Reload
//
// Watching sources emit one Event per detected change:
//
//	events, err := src.Watch(ctx)
//	for event := range events {
//	    if event.Err != nil {
//	        // Malformed update: keep the strategy built from the last
//	        // good configuration.
//	        continue
//	    }
//	    strategy = grouping.NewConfiguredStrategy(event.Config)
//	}
//
// # Git Source
//
// The git source keeps a local clone of a repository holding the grouping
// document and polls the remote for new commits:
//
//	src, err := source.NewGitSource(&cfg.Grouping.Git, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg, err := src.Load(ctx)
//
// # In-Memory Source
//
// The in-memory source serves a fixed configuration and is useful for
// testing:
//
//	src := source.NewMemorySource(cfg)
package source
