package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerTripsAfterThreshold(t *testing.T) {
	b := NewBreaker("binance", 3, time.Hour)
	for i := 0; i < 3; i++ {
		assert.True(t, b.Allow())
		b.Failure()
	}
	assert.False(t, b.Allow())
}

func TestBreakerSuccessResetsCount(t *testing.T) {
	b := NewBreaker("binance", 2, time.Hour)
	b.Failure()
	b.Success()
	b.Failure()
	assert.True(t, b.Allow())
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b := NewBreaker("yahoo", 1, 10*time.Millisecond)
	b.Failure()
	assert.False(t, b.Allow())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, b.Allow())

	// failed probe trips again
	b.Failure()
	assert.False(t, b.Allow())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, b.Allow())
	b.Success()
	assert.True(t, b.Allow())
}

func TestBreakerDefaults(t *testing.T) {
	b := NewBreaker("feed", 0, 0)
	assert.Equal(t, 5, b.threshold)
	assert.Equal(t, 30*time.Second, b.cooldown)
}
