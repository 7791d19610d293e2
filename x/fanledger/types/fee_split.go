package types

import (
	"sort"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/samber/lo"
)

// SplitByPercentages splits amount by whole percentages summing to 100 using
// the largest remainder method. Every share gets floor(amount*p/100); the
// units left over go one each to the shares with the largest fractional
// remainder, earlier shares first on ties. The shares always add up to amount.
func SplitByPercentages(amount sdkmath.Int, percentages []uint32) ([]sdkmath.Int, error) {
	if amount.IsNil() || amount.IsNegative() {
		return nil, errorsmod.Wrap(ErrInvalidInput, "amount must be non-negative")
	}
	sum := lo.SumBy(percentages, func(p uint32) uint64 { return uint64(p) })
	if sum != 100 {
		return nil, errorsmod.Wrapf(ErrInvalidConfiguration, "percentages sum to %d, expected 100", sum)
	}

	shares := make([]sdkmath.Int, len(percentages))
	remainders := make([]sdkmath.Int, len(percentages))
	distributed := sdkmath.ZeroInt()
	for i, p := range percentages {
		scaled := amount.MulRaw(int64(p))
		shares[i] = scaled.QuoRaw(100)
		remainders[i] = scaled.ModRaw(100)
		distributed = distributed.Add(shares[i])
	}

	order := make([]int, len(percentages))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GT(remainders[order[b]])
	})

	leftover := amount.Sub(distributed).Int64()
	for i := int64(0); i < leftover; i++ {
		idx := order[i]
		shares[idx] = shares[idx].AddRaw(1)
	}

	return shares, nil
}
