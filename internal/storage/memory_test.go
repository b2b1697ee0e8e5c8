package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarrierLinkRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetCarrierLink("+14155550123")
	assert.Error(t, err)

	link, err := store.SaveCarrierLink("+14155550123", "carrier-abc-123")
	require.NoError(t, err)
	assert.Equal(t, "carrier-abc-123", link.CarrierID)

	got, err := store.GetCarrierLink("+14155550123")
	require.NoError(t, err)
	assert.Equal(t, "carrier-abc-123", got.CarrierID)
	assert.Equal(t, "+14155550123", got.PhoneNumber)
}

func TestSaveCarrierLinkOverwrites(t *testing.T) {
	store := NewMemoryStore()

	first, err := store.SaveCarrierLink("+14155550123", "carrier-one")
	require.NoError(t, err)

	second, err := store.SaveCarrierLink("+14155550123", "carrier-two")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := store.GetCarrierLink("+14155550123")
	require.NoError(t, err)
	assert.Equal(t, "carrier-two", got.CarrierID)

	count, err := store.CountCarrierLinks()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeleteCarrierLink(t *testing.T) {
	store := NewMemoryStore()

	assert.Error(t, store.DeleteCarrierLink("+14155550123"))

	_, err := store.SaveCarrierLink("+14155550123", "carrier-abc-123")
	require.NoError(t, err)

	require.NoError(t, store.DeleteCarrierLink("+14155550123"))
	_, err = store.GetCarrierLink("+14155550123")
	assert.Error(t, err)
}
