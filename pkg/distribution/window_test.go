package distribution

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNew_Validation(t *testing.T) {
	_, err := New(start, time.Hour, 0)
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = New(start, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestWindow_SupplyCap(t *testing.T) {
	w, err := New(start, time.Hour, 3)
	require.NoError(t, err)

	for want := uint64(1); want <= 3; want++ {
		assert.Equal(t, want, w.Next())
		id, err := w.Record(start)
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}

	assert.True(t, w.ClosedBySupply())
	assert.True(t, w.Closed(start))
	_, err = w.Record(start)
	assert.ErrorIs(t, err, ErrSupplyExhausted)
	assert.Equal(t, uint64(3), w.Minted())
}

func TestWindow_TimeBound(t *testing.T) {
	w, err := New(start, time.Hour, 3)
	require.NoError(t, err)

	assert.False(t, w.Closed(start.Add(time.Hour-time.Second)))
	assert.True(t, w.ClosedByTime(start.Add(time.Hour)), "closed exactly at the deadline")

	_, err = w.Record(start.Add(time.Hour))
	assert.ErrorIs(t, err, ErrDistributionClosed)
	assert.Equal(t, uint64(0), w.Minted())
}

func TestWindow_TimeCheckedBeforeSupply(t *testing.T) {
	w, err := New(start, time.Hour, 1)
	require.NoError(t, err)
	_, err = w.Record(start)
	require.NoError(t, err)

	assert.ErrorIs(t, w.CheckOpen(start), ErrSupplyExhausted)
	assert.ErrorIs(t, w.CheckOpen(start.Add(2*time.Hour)), ErrDistributionClosed)
}
