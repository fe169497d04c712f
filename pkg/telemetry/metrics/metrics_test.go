package metrics

import (
	"testing"
	"time"

	"github.com/jpicklyk/knox-core/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("expected non-nil collector")
	}
	if collector.registry != registry {
		t.Error("collector registry not set correctly")
	}
}

func TestCollector_NilRegistryGetsFreshOne(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	if collector.Registry() == nil {
		t.Fatal("expected collector to create a registry")
	}
}

func TestCollector_CatalogMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	t.Run("record replace", func(t *testing.T) {
		collector.RecordCatalogReplace("ok", 12, 80*time.Microsecond)

		count := testutil.ToFloat64(collector.catalogMetrics.replacesTotal.WithLabelValues("ok"))
		if count != 1 {
			t.Errorf("expected replaces_total 1, got %f", count)
		}
		size := testutil.ToFloat64(collector.catalogMetrics.components)
		if size != 12 {
			t.Errorf("expected components gauge 12, got %f", size)
		}
	})

	t.Run("rejected replace keeps gauge", func(t *testing.T) {
		collector.RecordCatalogReplace("rejected", 0, 5*time.Microsecond)

		size := testutil.ToFloat64(collector.catalogMetrics.components)
		if size != 12 {
			t.Errorf("expected components gauge to stay 12, got %f", size)
		}
	})

	t.Run("record query and miss", func(t *testing.T) {
		collector.RecordCatalogQuery("by_capability")
		collector.RecordCatalogQuery("by_capability")
		collector.RecordCatalogMiss("component")

		queries := testutil.ToFloat64(collector.catalogMetrics.queriesTotal.WithLabelValues("by_capability"))
		if queries != 2 {
			t.Errorf("expected queries_total 2, got %f", queries)
		}
		misses := testutil.ToFloat64(collector.catalogMetrics.lookupMissesTotal.WithLabelValues("component"))
		if misses != 1 {
			t.Errorf("expected lookup_misses_total 1, got %f", misses)
		}
	})
}

func TestCollector_ExecutorMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.ExecutionStarted()
	inflight := testutil.ToFloat64(collector.executorMetrics.inflight)
	if inflight != 1 {
		t.Errorf("expected inflight 1, got %f", inflight)
	}

	collector.RecordExecution("wifi-restriction", "set_state", "ok", 15*time.Millisecond)
	collector.ExecutionFinished()

	inflight = testutil.ToFloat64(collector.executorMetrics.inflight)
	if inflight != 0 {
		t.Errorf("expected inflight 0, got %f", inflight)
	}

	count := testutil.ToFloat64(collector.executorMetrics.executionsTotal.WithLabelValues("wifi-restriction", "set_state", "ok"))
	if count != 1 {
		t.Errorf("expected executions_total 1, got %f", count)
	}
}

func TestCollector_HistoryMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordHistoryAppend("ok")
	collector.RecordHistoryAppendFailure()
	collector.RecordHistoryPrune(41)

	appends := testutil.ToFloat64(collector.historyMetrics.recordsTotal.WithLabelValues("ok"))
	if appends != 1 {
		t.Errorf("expected records_total 1, got %f", appends)
	}
	failures := testutil.ToFloat64(collector.historyMetrics.appendFailuresTotal)
	if failures != 1 {
		t.Errorf("expected append_failures_total 1, got %f", failures)
	}
	deleted := testutil.ToFloat64(collector.historyMetrics.pruneDeletedTotal)
	if deleted != 41 {
		t.Errorf("expected prune_deleted_total 41, got %f", deleted)
	}
	runs := testutil.ToFloat64(collector.historyMetrics.pruneRunsTotal)
	if runs != 1 {
		t.Errorf("expected prune_runs_total 1, got %f", runs)
	}
}

func TestCollector_DisabledRecordsNothing(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: false, Namespace: "test"}
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordCatalogReplace("ok", 5, time.Millisecond)
	collector.RecordCatalogQuery("all")
	collector.RecordExecution("p", "get_state", "ok", time.Millisecond)
	collector.RecordHistoryAppend("ok")

	count := testutil.ToFloat64(collector.catalogMetrics.replacesTotal.WithLabelValues("ok"))
	if count != 0 {
		t.Errorf("expected no recordings while disabled, got replaces_total %f", count)
	}
}

func TestCollector_NilCollectorIsSafe(t *testing.T) {
	var collector *Collector

	// None of these may panic.
	collector.RecordCatalogReplace("ok", 1, time.Millisecond)
	collector.RecordCatalogQuery("all")
	collector.RecordCatalogMiss("component")
	collector.RecordExecution("p", "get_state", "ok", time.Millisecond)
	collector.ExecutionStarted()
	collector.ExecutionFinished()
	collector.RecordHistoryAppend("ok")
	collector.RecordHistoryAppendFailure()
	collector.RecordHistoryPrune(3)
}

func TestCollector_HandlerServesMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordCatalogQuery("all")

	if collector.Handler() == nil {
		t.Fatal("expected non-nil handler")
	}

	families, err := collector.Registry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "test_catalog_queries_total" {
			found = true
		}
	}
	if !found {
		t.Error("expected test_catalog_queries_total in gathered metrics")
	}
}
