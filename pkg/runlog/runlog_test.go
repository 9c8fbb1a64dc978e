package runlog

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctscan/pkg/metrics"
	"ctscan/pkg/radon"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAssignsIDAndTime(t *testing.T) {
	store := openTestStore(t)

	run, err := store.Record(Run{
		Input:      "phantom.png",
		Config:     radon.DefaultScanConfig(),
		Iterations: 36,
		Quality:    metrics.Report{MSE: 4, RMSE: 2, PSNR: 42, SSIM: 0.5},
		Duration:   1500 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = uuid.Parse(run.ID)
	assert.NoError(t, err)
	assert.False(t, run.CreatedAt.IsZero())
}

func TestListRoundTrip(t *testing.T) {
	store := openTestStore(t)

	cfg := radon.DefaultScanConfig()
	cfg.UseFilter = true
	cfg.ReconstructionWidth = 32

	base := time.UnixMilli(1_700_000_000_000)
	for i := 0; i < 3; i++ {
		_, err := store.Record(Run{
			ID:         []string{"a", "b", "c"}[i],
			Input:      "in.png",
			Config:     cfg,
			Iterations: 36,
			Quality:    metrics.Report{MSE: float64(i), RMSE: float64(i)},
			Duration:   time.Duration(i) * time.Second,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	runs, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "a", runs[2].ID)
	assert.Equal(t, cfg, runs[0].Config)
	assert.Equal(t, 2*time.Second, runs[0].Duration)
	assert.Equal(t, 2.0, runs[0].Quality.RMSE)
	assert.True(t, base.Add(2*time.Minute).Equal(runs[0].CreatedAt))

	limited, err := store.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRecordPerfectReconstruction(t *testing.T) {
	store := openTestStore(t)

	run, err := store.Record(Run{
		Input:   "same.png",
		Config:  radon.DefaultScanConfig(),
		Quality: metrics.Report{PSNR: math.Inf(1), SSIM: 1},
	})
	require.NoError(t, err)

	runs, err := store.List(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, math.MaxFloat64, runs[0].Quality.PSNR)
}

func TestDuplicateIDRejected(t *testing.T) {
	store := openTestStore(t)

	run := Run{ID: "fixed", Input: "x.png", Config: radon.DefaultScanConfig()}
	_, err := store.Record(run)
	require.NoError(t, err)
	_, err = store.Record(run)
	assert.Error(t, err)
}
