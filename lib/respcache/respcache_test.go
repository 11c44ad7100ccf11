package respcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKeyOrderIndependent(t *testing.T) {
	require.Equal(t, Key([]string{"A", "B"}), Key([]string{"B", "A"}))
	require.Equal(t, "A,B,C", Key([]string{"C", "A", "B"}))
}

func TestGetPut(t *testing.T) {
	cache := New(Options{})

	_, ok := cache.Get([]string{"A", "B"})
	require.False(t, ok)

	cache.Put(
		[]string{"A", "B"},
		[]byte(`{"ItemsResult":{}}`),
	)

	got, ok := cache.Get([]string{"B", "A"})
	require.True(t, ok)
	require.Equal(t, []byte(`{"ItemsResult":{}}`), got)
}

func TestLazyExpiry(t *testing.T) {
	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	cache := New(Options{
		TTL: time.Hour,
		Now: func() time.Time { return now },
	})

	cache.Put([]string{"X1"}, []byte("payload"))

	now = now.Add(time.Hour - time.Second)
	_, ok := cache.Get([]string{"X1"})
	require.True(t, ok)

	now = now.Add(time.Second)
	_, ok = cache.Get([]string{"X1"})
	require.False(t, ok, "entry at exactly TTL should be treated as a miss")

	// a fresh Put replaces the expired entry
	cache.Put([]string{"X1"}, []byte("fresh"))
	got, ok := cache.Get([]string{"X1"})
	require.True(t, ok)
	require.Equal(t, []byte("fresh"), got)
}
