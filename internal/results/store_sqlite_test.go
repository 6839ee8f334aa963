// internal/results/store_sqlite_test.go
package results

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/phosim/internal/sweep"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "phosim.db"))
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRequiresPath(t *testing.T) {
	store := NewStore("")
	require.Error(t, store.Init(context.Background()))
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	scenarios := ScenarioTable{
		{N: 1, K: 1}: {
			{PNP: 0.0, PPP: 0.0, FPR: sweep.DefinedRate(0), TPR: sweep.DefinedRate(0)},
			{PNP: 0.3, PPP: 0.46153846153846156, FPR: sweep.DefinedRate(0.29), TPR: sweep.DefinedRate(0.47)},
			{PNP: 0.6, PPP: 0.75, FPR: sweep.Rate{}, TPR: sweep.DefinedRate(0.8)},
		},
		{N: 2, K: 2}: {
			{PNP: 0.0, PPP: 0.0, FPR: sweep.DefinedRate(0), TPR: sweep.DefinedRate(0)},
			{PNP: 0.3, PPP: 0.46153846153846156, FPR: sweep.DefinedRate(0.1), TPR: sweep.DefinedRate(0.2)},
			{PNP: 0.6, PPP: 0.75, FPR: sweep.DefinedRate(0.55), TPR: sweep.DefinedRate(0.61)},
		},
	}
	aucs := AUCTable{
		{N: 1, K: 1}: 0.5123456789,
		{N: 2, K: 2}: 0.75,
	}

	require.NoError(t, store.SaveRun(ctx, "run-1", scenarios, aucs))

	// AUC values reload bit-identically; REAL columns hold float64 verbatim.
	gotAUCs, err := store.LoadAUCTable(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, aucs, gotAUCs)

	gotScenarios, err := store.LoadScenarioTable(ctx, "run-1")
	require.NoError(t, err)
	if diff := cmp.Diff(scenarios, gotScenarios); diff != "" {
		t.Fatalf("scenario table mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreIsolatesRuns(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SaveRun(ctx, "run-a", ScenarioTable{}, AUCTable{{N: 1, K: 1}: 0.4}))
	require.NoError(t, store.SaveRun(ctx, "run-b", ScenarioTable{}, AUCTable{{N: 1, K: 1}: 0.9}))

	a, err := store.LoadAUCTable(ctx, "run-a")
	require.NoError(t, err)
	b, err := store.LoadAUCTable(ctx, "run-b")
	require.NoError(t, err)

	assert.InDelta(t, 0.4, a[sweep.Key{N: 1, K: 1}], 1e-12)
	assert.InDelta(t, 0.9, b[sweep.Key{N: 1, K: 1}], 1e-12)
}

func TestStoreSaveOverwritesRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	key := sweep.Key{N: 2, K: 1}
	require.NoError(t, store.SaveRun(ctx, "run-1", ScenarioTable{}, AUCTable{key: 0.1}))
	require.NoError(t, store.SaveRun(ctx, "run-1", ScenarioTable{}, AUCTable{key: 0.2}))

	got, err := store.LoadAUCTable(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.2, got[key], 1e-12)
}
