// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/rewardmill/rewardmill/api/utils"
	"github.com/rewardmill/rewardmill/builtin/rewards"
	"github.com/rewardmill/rewardmill/mill"
)

type Pool struct {
	PID               uint64                `json:"pid"`
	StakedAsset       mill.Address          `json:"stakedAsset"`
	AllocationPoints  uint64                `json:"allocationPoints"`
	TotalStaked       *math.HexOrDecimal256 `json:"totalStaked"`
	LastRewardTime    uint64                `json:"lastRewardTime"`
	AccRewardPerShare *math.HexOrDecimal256 `json:"accRewardPerShare"`
	Active            bool                  `json:"active"`
}

func convertPool(pid uint64, p *rewards.Pool) *Pool {
	return &Pool{
		PID:               pid,
		StakedAsset:       p.StakedAsset,
		AllocationPoints:  p.AllocationPoints,
		TotalStaked:       utils.Hex(p.TotalStaked),
		LastRewardTime:    p.LastRewardTime,
		AccRewardPerShare: utils.Hex(p.AccRewardPerShare),
		Active:            p.Active,
	}
}

type User struct {
	PID        uint64                `json:"pid"`
	Address    mill.Address          `json:"address"`
	Amount     *math.HexOrDecimal256 `json:"amount"`
	RewardDebt *math.HexOrDecimal256 `json:"rewardDebt"`
}

type Pending struct {
	PID     uint64                `json:"pid"`
	Address mill.Address          `json:"address"`
	Pending *math.HexOrDecimal256 `json:"pending"`
}

type AddPoolRequest struct {
	Asset  mill.Address `json:"asset"`
	Points uint64       `json:"points"`
}

type AllocationRequest struct {
	Points uint64 `json:"points"`
}

type AmountRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Emission struct {
	Mode   string                `json:"mode"`
	From   uint64                `json:"from"`
	To     uint64                `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type RateRequest struct {
	Rate *math.HexOrDecimal256 `json:"rate"`
}
