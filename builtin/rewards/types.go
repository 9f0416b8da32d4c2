// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"encoding/binary"
	"math/big"

	"github.com/rewardmill/rewardmill/fixedpoint"
	"github.com/rewardmill/rewardmill/mill"
)

// Pool is one staking pool. Removed pools stay in the arena with Active unset so that
// stakes recorded against them can still be withdrawn.
type Pool struct {
	StakedAsset       mill.Address `json:"stakedAsset"`
	AllocationPoints  uint64       `json:"allocationPoints"`
	TotalStaked       *big.Int     `json:"totalStaked"`
	LastRewardTime    uint64       `json:"lastRewardTime"`
	AccRewardPerShare *big.Int     `json:"accRewardPerShare"`
	Active            bool         `json:"active"`
}

func (p *Pool) normalize() {
	if p.TotalStaked == nil {
		p.TotalStaked = new(big.Int)
	}
	if p.AccRewardPerShare == nil {
		p.AccRewardPerShare = new(big.Int)
	}
}

// PoolInfo pairs a pool with its id.
type PoolInfo struct {
	PID uint64 `json:"pid"`
	*Pool
}

// Stake is a user's position in a pool.
type Stake struct {
	Amount     *big.Int          `json:"amount"`
	RewardDebt fixedpoint.Signed `json:"rewardDebt"`
}

func (s *Stake) normalize() {
	if s.Amount == nil {
		s.Amount = new(big.Int)
	}
}

// pending is the reward owed to the stake at the given accumulator, never negative.
func (s *Stake) pending(acc *big.Int) *big.Int {
	owed := s.RewardDebt.SubFrom(fixedpoint.Accumulated(s.Amount, acc))
	if owed.Sign() < 0 {
		return new(big.Int)
	}
	return owed
}

// EmergencyPolicy selects how EmergencyWithdraw behaves.
type EmergencyPolicy uint8

const (
	EmergencyForfeit EmergencyPolicy = iota
	EmergencyDisabled
)

func (p EmergencyPolicy) String() string {
	if p == EmergencyDisabled {
		return "disabled"
	}
	return "forfeit"
}

type stakeKey struct {
	pid  uint64
	user mill.Address
}

func (k stakeKey) Bytes() []byte {
	return append(binary.BigEndian.AppendUint64(nil, k.pid), k.user.Bytes()...)
}

type poolAddedEvent struct {
	PID              uint64       `json:"pid"`
	StakedAsset      mill.Address `json:"stakedAsset"`
	AllocationPoints uint64       `json:"allocationPoints"`
}

type poolAllocationEvent struct {
	PID  uint64 `json:"pid"`
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type poolRemovedEvent struct {
	PID         uint64       `json:"pid"`
	StakedAsset mill.Address `json:"stakedAsset"`
}

type stakeEvent struct {
	User   mill.Address `json:"user"`
	PID    uint64       `json:"pid"`
	Amount *big.Int     `json:"amount"`
}
