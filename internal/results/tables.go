// internal/results/tables.go
package results

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/xkilldash9x/phosim/internal/sweep"
)

// ScenarioTable maps each (n, k) configuration to its ROC curve.
type ScenarioTable map[sweep.Key]sweep.Curve

// AUCTable maps each (n, k) configuration to its scalar AUC.
type AUCTable map[sweep.Key]float64

// ConfigResult is the complete outcome for one grid entry.
type ConfigResult struct {
	Key   sweep.Key   `json:"key"`
	Curve sweep.Curve `json:"curve"`
	AUC   float64     `json:"auc"`
}

// ConfigFailure records a grid entry that could not produce a result. The
// rest of the grid is unaffected by it.
type ConfigFailure struct {
	Key    sweep.Key `json:"key"`
	Reason string    `json:"reason"`
}

// ResultSet collects per-configuration outcomes from concurrent sweep
// workers. Each key is written at most once; the tables are read only after
// all workers have stopped.
type ResultSet struct {
	RunID uuid.UUID

	mu        sync.Mutex
	scenarios ScenarioTable
	aucs      AUCTable
	failures  []ConfigFailure
}

// NewResultSet creates an empty collector with a fresh run ID.
func NewResultSet() *ResultSet {
	return &ResultSet{
		RunID:     uuid.New(),
		scenarios: make(ScenarioTable),
		aucs:      make(AUCTable),
	}
}

// Collect stores one completed configuration.
func (rs *ResultSet) Collect(res ConfigResult) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.scenarios[res.Key] = res.Curve
	rs.aucs[res.Key] = res.AUC
}

// Fail records one configuration that did not complete.
func (rs *ResultSet) Fail(key sweep.Key, err error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.failures = append(rs.failures, ConfigFailure{Key: key, Reason: err.Error()})
}

// Scenarios returns a copy of the scenario table.
func (rs *ResultSet) Scenarios() ScenarioTable {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make(ScenarioTable, len(rs.scenarios))
	for k, v := range rs.scenarios {
		out[k] = v
	}
	return out
}

// AUCs returns a copy of the AUC table.
func (rs *ResultSet) AUCs() AUCTable {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make(AUCTable, len(rs.aucs))
	for k, v := range rs.aucs {
		out[k] = v
	}
	return out
}

// Failures returns the failed configurations in a stable (n, k) order.
func (rs *ResultSet) Failures() []ConfigFailure {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]ConfigFailure, len(rs.failures))
	copy(out, rs.failures)
	sortFailures(out)
	return out
}

// Merge folds another result set into this one, for partition-then-merge
// aggregation across worker partitions.
func (rs *ResultSet) Merge(other *ResultSet) {
	other.mu.Lock()
	scenarios, aucs, failures := other.scenarios, other.aucs, other.failures
	other.mu.Unlock()

	rs.mu.Lock()
	defer rs.mu.Unlock()
	for k, v := range scenarios {
		rs.scenarios[k] = v
	}
	for k, v := range aucs {
		rs.aucs[k] = v
	}
	rs.failures = append(rs.failures, failures...)
}

// SortedKeys returns the table's keys ordered by (n, k).
func (t AUCTable) SortedKeys() []sweep.Key {
	keys := make([]sweep.Key, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// SortedKeys returns the table's keys ordered by (n, k).
func (t ScenarioTable) SortedKeys() []sweep.Key {
	keys := make([]sweep.Key, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

func sortKeys(keys []sweep.Key) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].N != keys[j].N {
			return keys[i].N < keys[j].N
		}
		return keys[i].K < keys[j].K
	})
}

func sortFailures(fs []ConfigFailure) {
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].Key.N != fs[j].Key.N {
			return fs[i].Key.N < fs[j].Key.N
		}
		return fs[i].Key.K < fs[j].Key.K
	})
}
