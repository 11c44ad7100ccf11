package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundDownTiers(t *testing.T) {
	cases := map[int]int{
		0:      0,
		42:     0,
		100:    100,
		190:    100,
		999:    900,
		1000:   1000,
		1900:   1000,
		9999:   9000,
		10000:  10000,
		18560:  15000,
		49999:  45000,
		50000:  50000,
		142311: 140000,
	}
	for in, want := range cases {
		require.Equal(t, want, RoundDown(in), "RoundDown(%d)", in)
	}
}

func TestRoundDownProperties(t *testing.T) {
	prev := 0
	for x := 0; x <= 120_000; x += 7 {
		got := RoundDown(x)
		require.LessOrEqual(t, got, x, "never exceeds input")
		require.GreaterOrEqual(t, got, prev, "monotonic")
		require.Equal(t, got, RoundDown(got), "idempotent")
		prev = got
	}
}

func TestRoundDownNegativeClamped(t *testing.T) {
	require.Equal(t, 0, RoundDown(-5))
}
