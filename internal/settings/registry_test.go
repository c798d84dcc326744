package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_NoFile(t *testing.T) {
	r, err := NewRegistry("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), r.Current())
	assert.Equal(t, int64(1), r.Snapshot().Version)
}

func TestRegistry_LoadsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "ticker_input: \"SPY, QQQ\"\nloop_enabled: true\nloop_interval: 15\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r, err := NewRegistry(path)
	require.NoError(t, err)

	got := r.Current()
	assert.Equal(t, "SPY, QQQ", got.TickerInput)
	assert.True(t, got.LoopEnabled)
	assert.Equal(t, 15, got.LoopInterval)
	// Everything else stays at its default.
	assert.Equal(t, "Shallow", got.ResearchDepth)
	assert.Equal(t, 4500, got.TradeDollarAmount)
}

func TestRegistry_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tickr_input: SPY\n"), 0o644))

	_, err := NewRegistry(path)
	assert.Error(t, err)
}

func TestRegistry_ApplyNotifies(t *testing.T) {
	r, err := NewRegistry("")
	require.NoError(t, err)

	ch := make(chan Snapshot, 1)
	r.OnChange(func(s Snapshot) { ch <- s })

	next := Defaults()
	next.LoopEnabled = true
	r.Apply(next)

	select {
	case snap := <-ch:
		assert.True(t, snap.Settings.LoopEnabled)
		assert.Equal(t, int64(2), snap.Version)
	case <-time.After(2 * time.Second):
		t.Fatal("listener was not notified")
	}

	assert.True(t, r.Current().LoopEnabled)
}

func TestRegistry_CurrentReturnsCopy(t *testing.T) {
	r, err := NewRegistry("")
	require.NoError(t, err)

	got := r.Current()
	got.TickerInput = "mutated"
	assert.Equal(t, "NVDA, AMD, TSLA", r.Current().TickerInput)
}

func TestWriteTemplate_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, WriteTemplate(path))

	r, err := NewRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), r.Current())

	// A second write must not clobber the operator's file.
	assert.Error(t, WriteTemplate(path))
}
