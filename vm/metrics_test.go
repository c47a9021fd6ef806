package vm

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsObserveIncrementsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Observe(CallKindCall, &CallResult{GasUsed: 21000, Halt: HaltReturn})

	mf, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var found bool
	for _, f := range mf {
		if f.GetName() == "evmcore_calls_total" {
			found = true
			for _, metric := range f.Metric {
				if metric.GetCounter().GetValue() != 1 {
					t.Errorf("evmcore_calls_total = %v, want 1", metric.GetCounter().GetValue())
				}
			}
		}
	}
	if !found {
		t.Fatal("evmcore_calls_total metric was not registered/observed")
	}
}

func TestMetricsObserveNilIsNoop(t *testing.T) {
	var m *Metrics
	m.Observe(CallKindCall, &CallResult{}) // must not panic
}

func TestCallKindLabel(t *testing.T) {
	cases := map[CallKind]string{
		CallKindCall:         "call",
		CallKindCallCode:     "callcode",
		CallKindDelegateCall: "delegatecall",
		CallKindStaticCall:   "staticcall",
		CallKindCreate:       "create",
		CallKindCreate2:      "create2",
	}
	for kind, want := range cases {
		if got := callKindLabel(kind); got != want {
			t.Errorf("callKindLabel(%d) = %q, want %q", kind, got, want)
		}
	}
}
