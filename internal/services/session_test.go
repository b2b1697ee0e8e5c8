package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrihaul/agrihaul-backend/internal/storage"
)

func TestGetOrCreateNewSession(t *testing.T) {
	sm := NewSessionManager(storage.NewMemoryStore())

	s := sm.GetOrCreate("+14155550123")
	require.NotNil(t, s)
	assert.Equal(t, FlowMain, s.Flow)
	assert.Equal(t, "+14155550123", s.Phone)
	assert.Empty(t, s.FindLoads.LinkedCarrierID)

	// Same phone returns the same session
	again := sm.GetOrCreate("+14155550123")
	assert.Same(t, s, again)
	assert.Equal(t, 1, sm.ActiveCount())
}

func TestExpiredSessionReplaced(t *testing.T) {
	sm := NewSessionManager(nil)

	s := sm.GetOrCreate("+14155550123")
	s.Flow = FlowPostLoadWeight
	s.PostLoad.Crop = "Corn"

	// Simulate 31 minutes of silence
	s.LastActive = time.Now().Add(-31 * time.Minute)

	fresh := sm.GetOrCreate("+14155550123")
	assert.NotSame(t, s, fresh)
	assert.Equal(t, FlowMain, fresh.Flow)
	assert.Empty(t, fresh.PostLoad.Crop)
}

func TestCleanupExpired(t *testing.T) {
	sm := NewSessionManager(nil)

	stale := sm.GetOrCreate("+14155550001")
	stale.LastActive = time.Now().Add(-45 * time.Minute)
	sm.GetOrCreate("+14155550002")

	purged := sm.CleanupExpired()
	assert.Equal(t, 1, purged)
	assert.Equal(t, 1, sm.ActiveCount())
}

func TestResetToMainPreservesCarrierLink(t *testing.T) {
	sm := NewSessionManager(nil)

	s := sm.GetOrCreate("+14155550123")
	s.Flow = FlowFindLoadsSelect
	s.FindLoads.Location = "Fresno, CA"
	s.FindLoads.SelectedJobID = "job-1"
	s.FindLoads.LinkedCarrierID = "carrier-abc-123"
	s.PostLoad.Crop = "Corn"
	s.Rate.Score = 4

	sm.ResetToMain(s)

	assert.Equal(t, FlowMain, s.Flow)
	assert.Equal(t, "carrier-abc-123", s.FindLoads.LinkedCarrierID)
	assert.Empty(t, s.FindLoads.Location)
	assert.Empty(t, s.FindLoads.SelectedJobID)
	assert.Empty(t, s.FindLoads.LastShown)
	assert.Empty(t, s.PostLoad.Crop)
	assert.Zero(t, s.Rate.Score)
}

func TestCarrierLinkRehydratedFromStore(t *testing.T) {
	store := storage.NewMemoryStore()
	_, err := store.SaveCarrierLink("+14155550123", "carrier-abc-123")
	require.NoError(t, err)

	sm := NewSessionManager(store)
	s := sm.GetOrCreate("+14155550123")
	assert.Equal(t, "carrier-abc-123", s.FindLoads.LinkedCarrierID)
}

func TestLinkCarrierPersists(t *testing.T) {
	store := storage.NewMemoryStore()
	sm := NewSessionManager(store)

	s := sm.GetOrCreate("+14155550123")
	sm.LinkCarrier(s, "carrier-abc-123")

	link, err := store.GetCarrierLink("+14155550123")
	require.NoError(t, err)
	assert.Equal(t, "carrier-abc-123", link.CarrierID)
}
