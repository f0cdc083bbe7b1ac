package commerce

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitFeeBps(t *testing.T) {
	cases := []struct {
		name             string
		total, fee       uint64
		operator, remain uint64
	}{
		{"quarter percent", 10_000, 250, 250, 9_750},
		{"half total", 1_000, 5_000, 500, 500},
		{"rounds down to zero", 999, 1, 0, 999},
		{"full total", 1_000, 10_000, 1_000, 0},
		{"zero fee", 1_000, 0, 0, 1_000},
		{"settlement scenario", 1_000_000, 500, 50_000, 950_000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			operator, merchant, err := SplitFee(tc.total, tc.fee, FeeBps)
			require.NoError(t, err)
			require.Equal(t, tc.operator, operator)
			require.Equal(t, tc.remain, merchant)
			require.Equal(t, tc.total, operator+merchant)
		})
	}
}

func TestSplitFeeBpsOverflow(t *testing.T) {
	_, _, err := SplitFee(math.MaxUint64, 2, FeeBps)
	require.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestSplitFeeBpsRateAboveFullRejected(t *testing.T) {
	// 200% in basis points: the cut would exceed the total and the
	// remainder would wrap.
	_, _, err := SplitFee(100, 20_000, FeeBps)
	require.ErrorIs(t, err, ErrArithmeticOverflow)

	// Exactly 100% stays valid.
	operator, merchant, err := SplitFee(100, 10_000, FeeBps)
	require.NoError(t, err)
	require.Equal(t, uint64(100), operator)
	require.Equal(t, uint64(0), merchant)
}

func TestSplitFeeFixed(t *testing.T) {
	operator, merchant, err := SplitFee(1_000, 300, FeeFixed)
	require.NoError(t, err)
	require.Equal(t, uint64(300), operator)
	require.Equal(t, uint64(700), merchant)
}

func TestSplitFeeFixedCapsAtTotal(t *testing.T) {
	operator, merchant, err := SplitFee(500, 1_000, FeeFixed)
	require.NoError(t, err)
	require.Equal(t, uint64(500), operator)
	require.Equal(t, uint64(0), merchant)
}
