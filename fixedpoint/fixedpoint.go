// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixedpoint implements the scaled integer arithmetic used by reward accumulators,
// emission schedules and vault share pricing. Every helper multiplies before it divides
// and rounds toward zero.
package fixedpoint

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	// Scale is the precision of per-share accumulators.
	Scale = big.NewInt(1e12)
	// Unit is the precision of fractions such as the emission decay base and vault prices.
	Unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	// BPS is the basis point denominator.
	BPS = big.NewInt(10000)
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrNegative       = errors.New("negative operand")
	ErrInvalidInteger = errors.New("invalid integer")
)

// MulDiv returns floor(x * y / d) for non-negative operands.
// The product is never truncated.
func MulDiv(x, y, d *big.Int) (*big.Int, error) {
	if d.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	if x.Sign() < 0 || y.Sign() < 0 || d.Sign() < 0 {
		return nil, ErrNegative
	}
	ux, xo := uint256.FromBig(x)
	uy, yo := uint256.FromBig(y)
	ud, do := uint256.FromBig(d)
	if !xo && !yo && !do {
		if z, overflow := new(uint256.Int).MulDivOverflow(ux, uy, ud); !overflow {
			return z.ToBig(), nil
		}
	}
	z := new(big.Int).Mul(x, y)
	return z.Quo(z, d), nil
}

// MustMulDiv is MulDiv for callers that already guarantee a positive denominator.
func MustMulDiv(x, y, d *big.Int) *big.Int {
	z, err := MulDiv(x, y, d)
	if err != nil {
		panic(err)
	}
	return z
}

// Accumulated returns amount * acc / Scale, the reward priced into a stake of amount at
// accumulator value acc.
func Accumulated(amount, acc *big.Int) *big.Int {
	return MustMulDiv(amount, acc, Scale)
}

// PerShare returns reward * Scale / total, the accumulator increment for distributing reward
// over total staked units.
func PerShare(reward, total *big.Int) (*big.Int, error) {
	return MulDiv(reward, Scale, total)
}

// Bps returns amount * bps / 10000.
func Bps(amount *big.Int, bps uint64) *big.Int {
	return MustMulDiv(amount, new(big.Int).SetUint64(bps), BPS)
}

// Pow returns unit * (base/unit)**n by repeated squaring. Every product is truncated back to
// unit scale, so for base <= unit no operand exceeds unit**2 whatever n is. The truncation
// error doubles with each bit of n; callers needing long horizons pick a larger unit.
func Pow(base *big.Int, n uint64, unit *big.Int) (*big.Int, error) {
	if unit.Sign() <= 0 {
		return nil, ErrDivisionByZero
	}
	if base.Sign() < 0 {
		return nil, ErrNegative
	}
	result := new(big.Int).Set(unit)
	b := new(big.Int).Set(base)
	for n > 0 {
		if n&1 == 1 {
			result.Mul(result, b)
			result.Quo(result, unit)
			if result.Sign() == 0 {
				break
			}
		}
		n >>= 1
		if n > 0 {
			b.Mul(b, b)
			b.Quo(b, unit)
		}
	}
	return result, nil
}

// GeometricSum returns unit * Σ_{i<n} (base/unit)**i using the closed form
// unit * (unit - Pow(base, n)) / (unit - base). base must not exceed unit.
func GeometricSum(base *big.Int, n uint64, unit *big.Int) (*big.Int, error) {
	if unit.Sign() <= 0 {
		return nil, ErrDivisionByZero
	}
	if base.Sign() < 0 {
		return nil, ErrNegative
	}
	switch base.Cmp(unit) {
	case 1:
		return nil, errors.New("base exceeds unit")
	case 0:
		return new(big.Int).Mul(new(big.Int).SetUint64(n), unit), nil
	}
	if n == 0 {
		return new(big.Int), nil
	}
	p, err := Pow(base, n, unit)
	if err != nil {
		return nil, err
	}
	num := new(big.Int).Sub(unit, p)
	num.Mul(num, unit)
	return num.Quo(num, new(big.Int).Sub(unit, base)), nil
}

// Min returns the smaller of x and y.
func Min(x, y *big.Int) *big.Int {
	if x.Cmp(y) <= 0 {
		return x
	}
	return y
}
