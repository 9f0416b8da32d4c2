// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/fixedpoint"
	"github.com/rewardmill/rewardmill/mill"
)

// Price is the underlying value of one share, scaled by fixedpoint.Unit. An empty vault
// prices shares at one.
func (v *Vault) Price() (*big.Int, error) {
	totalShares, totalUnderlying, err := v.totals()
	if err != nil {
		return nil, err
	}
	if totalShares.Sign() == 0 {
		return new(big.Int).Set(fixedpoint.Unit), nil
	}
	return fixedpoint.MustMulDiv(totalUnderlying, fixedpoint.Unit, totalShares), nil
}

func (v *Vault) SamplingInterval() (uint64, error) {
	return v.interval.Get()
}

func (v *Vault) SetSamplingInterval(caller mill.Address, interval uint64) error {
	if err := v.owner.Require(caller); err != nil {
		return err
	}
	if interval == 0 {
		return reverts.New(reverts.InvalidParameter, "zero sampling interval")
	}
	return v.interval.Set(interval)
}

// Samples returns the two most recent price samples.
func (v *Vault) Samples() (previous, last Sample, err error) {
	s, err := v.samples.Get()
	if err != nil || s == nil {
		return Sample{}, Sample{}, err
	}
	return s.Previous, s.Last, nil
}

// UpdatePrice records the current price as a sample once a sampling interval has passed
// since the last one, and reports the current price either way.
func (v *Vault) UpdatePrice() (*big.Int, error) {
	price, err := v.Price()
	if err != nil {
		return nil, err
	}
	interval, err := v.interval.Get()
	if err != nil {
		return nil, err
	}
	s, err := v.samples.Get()
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = &samples{}
	}
	now := v.ctx.Now()
	if s.Last.Price != nil && now < s.Last.Time+interval {
		return price, nil
	}
	s.Previous = s.Last
	s.Last = Sample{Time: now, Price: price}
	if err := v.samples.Set(s); err != nil {
		return nil, err
	}
	metricSharePrice().Set(fixedpoint.MustMulDiv(price, big.NewInt(1e6), fixedpoint.Unit).Int64())
	return price, v.ctx.Emit("VaultPriceUpdated", &s.Last)
}

// EstimateAPY extrapolates the growth between the last two price samples to a year, in
// basis points. It is zero until two samples exist.
func (v *Vault) EstimateAPY() (uint64, error) {
	previous, last, err := v.Samples()
	if err != nil {
		return 0, err
	}
	if previous.Price == nil || previous.Price.Sign() == 0 || last.Time <= previous.Time {
		return 0, nil
	}
	if last.Price.Cmp(previous.Price) <= 0 {
		return 0, nil
	}
	growth := new(big.Int).Sub(last.Price, previous.Price)
	num := growth.Mul(growth, new(big.Int).SetUint64(mill.BasisPoints*mill.SecondsPerYear))
	den := new(big.Int).Mul(previous.Price, new(big.Int).SetUint64(last.Time-previous.Time))
	apy := num.Quo(num, den)
	if !apy.IsUint64() {
		return ^uint64(0), nil
	}
	return apy.Uint64(), nil
}
