// Package timegate models quantities of value that become claimable over time.
//
// A Position couples a start timestamp and a Schedule with the total amount
// and the amount consumed so far. Claimable is a pure function of the
// position and the current timestamp, so cached "available" figures can
// always be recomputed from stored parameters.
package timegate

import (
	sdkerrors "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// Codespace is the error codespace of the package.
const Codespace = "timegate"

// ErrInsufficientClaimable is returned when more than the claimable amount is consumed.
var ErrInsufficientClaimable = sdkerrors.Register(Codespace, 2, "insufficient claimable amount")

// Schedule reports how much of total is unlocked after elapsed seconds.
type Schedule interface {
	Unlocked(elapsed uint64, total sdkmath.Int) sdkmath.Int
}

// FixedLock unlocks the whole amount once Duration seconds have elapsed.
type FixedLock struct {
	Duration uint64
}

// Unlocked implements Schedule.
func (s FixedLock) Unlocked(elapsed uint64, total sdkmath.Int) sdkmath.Int {
	if elapsed < s.Duration {
		return sdkmath.ZeroInt()
	}
	return total
}

// ReleasedAt returns the first timestamp at which a lock started at start is released.
func (s FixedLock) ReleasedAt(start uint64) uint64 {
	return start + s.Duration
}

// CliffPeriodic unlocks Initial right away and PerPeriod for every whole
// Periodicity elapsed after Cliff.
type CliffPeriodic struct {
	Initial     sdkmath.Int
	Cliff       uint64
	Periodicity uint64
	PerPeriod   sdkmath.Int
}

// Unlocked implements Schedule.
func (s CliffPeriodic) Unlocked(elapsed uint64, total sdkmath.Int) sdkmath.Int {
	unlocked := s.Initial
	if elapsed >= s.Cliff && s.Periodicity > 0 && s.PerPeriod.IsPositive() {
		periods := (elapsed - s.Cliff) / s.Periodicity
		unlocked = unlocked.Add(s.PerPeriod.Mul(sdkmath.NewIntFromUint64(periods)))
	}
	return sdkmath.MinInt(unlocked, total)
}

// Position is a quantity of value gated by a schedule.
type Position struct {
	Start       uint64
	Schedule    Schedule
	Total       sdkmath.Int
	Consumed    sdkmath.Int
	LastClaimed uint64
}

// Claimable returns the amount that may be consumed at now.
// It is zero before Start, non-decreasing in now and never exceeds Total - Consumed.
func (p Position) Claimable(now uint64) sdkmath.Int {
	if now < p.Start {
		return sdkmath.ZeroInt()
	}
	available := p.Schedule.Unlocked(now-p.Start, p.Total).Sub(p.Consumed)
	if !available.IsPositive() {
		return sdkmath.ZeroInt()
	}
	return sdkmath.MinInt(available, p.Remaining())
}

// Remaining returns the part of Total that has not been consumed.
func (p Position) Remaining() sdkmath.Int {
	return p.Total.Sub(p.Consumed)
}

// Consume returns the position with amount consumed at now.
func (p Position) Consume(amount sdkmath.Int, now uint64) (Position, error) {
	if amount.IsNegative() {
		return p, sdkerrors.Wrapf(ErrInsufficientClaimable, "negative amount %s", amount)
	}
	claimable := p.Claimable(now)
	if amount.GT(claimable) {
		return p, sdkerrors.Wrapf(ErrInsufficientClaimable, "requested %s, claimable %s", amount, claimable)
	}
	p.Consumed = p.Consumed.Add(amount)
	p.LastClaimed = now
	return p, nil
}
