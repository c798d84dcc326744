package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"tradeagents/internal/store/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()
	s, err := NewSqliteStore(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func payloadJSON(t *testing.T, doc map[string]any) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return datatypes.JSON(raw)
}

func TestSqliteStore_PresetRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.SavePreset(ctx, &model.SavedSettingsModel{
		Name:        "aggressive",
		Description: "short interval, deep research",
		Payload:     payloadJSON(t, map[string]any{"research_depth": "Deep", "loop_interval": 15}),
	})
	require.NoError(t, err)

	got, err := s.FindPreset(ctx, "aggressive")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "aggressive", got.Name)
	assert.NotZero(t, got.CreatedAtUnix)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(got.Payload, &doc))
	assert.Equal(t, "Deep", doc["research_depth"])
}

func TestSqliteStore_SaveUpsertsByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePreset(ctx, &model.SavedSettingsModel{
		Name:    "daily",
		Payload: payloadJSON(t, map[string]any{"loop_interval": 60}),
	}))
	require.NoError(t, s.SavePreset(ctx, &model.SavedSettingsModel{
		Name:    "daily",
		Payload: payloadJSON(t, map[string]any{"loop_interval": 30}),
	}))

	presets, err := s.ListPresets(ctx)
	require.NoError(t, err)
	require.Len(t, presets, 1)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(presets[0].Payload, &doc))
	assert.EqualValues(t, 30, doc["loop_interval"])
}

func TestSqliteStore_FindMissingReturnsNil(t *testing.T) {
	s := newTestStore(t)

	got, err := s.FindPreset(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSqliteStore_DeletePreset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePreset(ctx, &model.SavedSettingsModel{
		Name:    "temp",
		Payload: payloadJSON(t, map[string]any{"ticker_input": "BTC/USD"}),
	}))
	require.NoError(t, s.DeletePreset(ctx, "temp"))

	got, err := s.FindPreset(ctx, "temp")
	require.NoError(t, err)
	assert.Nil(t, got)

	// deleting again is a no-op
	require.NoError(t, s.DeletePreset(ctx, "temp"))
}

func TestSqliteStore_RollbackDiscardsSave(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Settings().Save(ctx, &model.SavedSettingsModel{
		Name:    "ghost",
		Payload: payloadJSON(t, map[string]any{}),
	}))
	require.NoError(t, uow.Rollback())

	got, err := s.FindPreset(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSqliteStore_RejectsEmptyName(t *testing.T) {
	s := newTestStore(t)

	err := s.SavePreset(context.Background(), &model.SavedSettingsModel{Name: "   "})
	assert.Error(t, err)
}

func TestNewSqliteStore_EmptyPath(t *testing.T) {
	_, err := NewSqliteStore("  ")
	assert.Error(t, err)
}
