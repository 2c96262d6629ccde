package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowDrainsBucket(t *testing.T) {
	l := New()
	now := time.Now()
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4", 3, 1))
	}
	assert.False(t, l.Allow("1.2.3.4", 3, 1))
}

func TestAllowRefillsOverTime(t *testing.T) {
	l := New()
	now := time.Now()
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("k", 1, 2))
	assert.False(t, l.Allow("k", 1, 2))

	now = now.Add(time.Second)
	assert.True(t, l.Allow("k", 1, 2))
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	now := time.Now()
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a", 1, 1))
	assert.False(t, l.Allow("a", 1, 1))
	assert.True(t, l.Allow("b", 1, 1))
}
