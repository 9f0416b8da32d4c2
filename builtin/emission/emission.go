// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package emission computes how much reward token may be emitted between two points in time.
package emission

import (
	"math/big"

	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/fixedpoint"
)

// precision is the scale decay weights are evaluated at, so truncation in the powers stays far
// below one unit of any realistic amount.
var precision = new(big.Int).Mul(fixedpoint.Unit, fixedpoint.Unit)

// Schedule yields the reward emitted in [from, to).
type Schedule interface {
	CalcReward(from, to uint64) (*big.Int, error)
}

// FixedRate emits a constant amount per second.
type FixedRate struct {
	RatePerSecond *big.Int
}

func (f *FixedRate) CalcReward(from, to uint64) (*big.Int, error) {
	if to <= from || f.RatePerSecond == nil {
		return new(big.Int), nil
	}
	return new(big.Int).Mul(f.RatePerSecond, new(big.Int).SetUint64(to-from)), nil
}

// EpochDecay emits StartingAmount over the first epoch, and DecayBase/Unit times the previous
// epoch's amount over each following one. Within an epoch emission is linear in time.
type EpochDecay struct {
	GenesisTime    uint64
	EpochLength    uint64
	StartingAmount *big.Int
	DecayBase      *big.Int // scaled by fixedpoint.Unit
}

// Validate checks the parameters describe a non-increasing schedule.
func (d *EpochDecay) Validate() error {
	if d.EpochLength == 0 {
		return reverts.New(reverts.InvalidParameter, "zero epoch length")
	}
	if d.StartingAmount == nil || d.StartingAmount.Sign() < 0 {
		return reverts.New(reverts.InvalidParameter, "invalid starting amount")
	}
	if d.DecayBase == nil || d.DecayBase.Sign() < 0 || d.DecayBase.Cmp(fixedpoint.Unit) > 0 {
		return reverts.New(reverts.InvalidParameter, "decay base must be within [0, 1e18]")
	}
	return nil
}

// Epoch returns the index of the epoch containing t.
func (d *EpochDecay) Epoch(t uint64) uint64 {
	if t <= d.GenesisTime || d.EpochLength == 0 {
		return 0
	}
	return (t - d.GenesisTime) / d.EpochLength
}

// EpochEmission returns the amount emitted over epoch n.
func (d *EpochDecay) EpochEmission(n uint64) (*big.Int, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.DecayBase.Cmp(fixedpoint.Unit) == 0 {
		return new(big.Int).Set(d.StartingAmount), nil
	}
	w, err := d.weight(n)
	if err != nil {
		return nil, err
	}
	step, err := d.step(n, w)
	if err != nil {
		return nil, err
	}
	return fixedpoint.MulDiv(d.StartingAmount, step, precision)
}

// weight returns Σ_{i<n} r^i at precision scale.
func (d *EpochDecay) weight(n uint64) (*big.Int, error) {
	base := new(big.Int).Mul(d.DecayBase, fixedpoint.Unit)
	return fixedpoint.GeometricSum(base, n, precision)
}

// step returns the weight epoch n adds, weight(n+1) - w. Cumulative reaches weight(n+1) exactly
// at the end of epoch n.
func (d *EpochDecay) step(n uint64, w *big.Int) (*big.Int, error) {
	next, err := d.weight(n + 1)
	if err != nil {
		return nil, err
	}
	next.Sub(next, w)
	if next.Sign() < 0 {
		next.SetUint64(0)
	}
	return next, nil
}

// Cumulative returns the total emitted from genesis until t:
//
//	S * (Σ_{i<n} r^i + rem/L * r^n),  r = base/unit
//
// Its cost depends on the bit length of the epoch index only.
func (d *EpochDecay) Cumulative(t uint64) (*big.Int, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if t <= d.GenesisTime {
		return new(big.Int), nil
	}
	var (
		elapsed = t - d.GenesisTime
		n       = elapsed / d.EpochLength
		rem     = elapsed % d.EpochLength
		l       = new(big.Int).SetUint64(d.EpochLength)
	)
	if d.DecayBase.Cmp(fixedpoint.Unit) == 0 {
		return fixedpoint.MulDiv(d.StartingAmount, new(big.Int).SetUint64(elapsed), l)
	}

	w, err := d.weight(n)
	if err != nil {
		return nil, err
	}
	num := new(big.Int).Mul(w, l)
	if rem > 0 {
		step, err := d.step(n, w)
		if err != nil {
			return nil, err
		}
		num.Add(num, step.Mul(step, new(big.Int).SetUint64(rem)))
	}
	return fixedpoint.MulDiv(d.StartingAmount, num, new(big.Int).Mul(precision, l))
}

// CalcReward returns Cumulative(to) - Cumulative(from), zero when to <= from.
func (d *EpochDecay) CalcReward(from, to uint64) (*big.Int, error) {
	if to <= from {
		return new(big.Int), nil
	}
	hi, err := d.Cumulative(to)
	if err != nil {
		return nil, err
	}
	lo, err := d.Cumulative(from)
	if err != nil {
		return nil, err
	}
	if hi.Cmp(lo) <= 0 {
		return new(big.Int), nil
	}
	return hi.Sub(hi, lo), nil
}
