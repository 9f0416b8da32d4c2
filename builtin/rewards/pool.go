// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/rewardmill/rewardmill/builtin/emission"
	"github.com/rewardmill/rewardmill/builtin/solidity"
	"github.com/rewardmill/rewardmill/fixedpoint"
)

// accrue advances the pool's accumulator to now. The pool is modified in place.
func accrue(pool *Pool, sched emission.Schedule, totalPoints, now uint64) error {
	if now <= pool.LastRewardTime {
		return nil
	}
	if pool.TotalStaked.Sign() > 0 && pool.AllocationPoints > 0 && totalPoints > 0 {
		emitted, err := sched.CalcReward(pool.LastRewardTime, now)
		if err != nil {
			return err
		}
		reward := fixedpoint.MustMulDiv(emitted,
			new(big.Int).SetUint64(pool.AllocationPoints),
			new(big.Int).SetUint64(totalPoints))
		inc, err := fixedpoint.PerShare(reward, pool.TotalStaked)
		if err != nil {
			return err
		}
		pool.AccRewardPerShare = new(big.Int).Add(pool.AccRewardPerShare, inc)
	}
	pool.LastRewardTime = now
	return nil
}

// UpdatePool brings the accumulator of pid up to the current time.
func (r *Rewards) UpdatePool(pid uint64) (*Pool, error) {
	pool, err := r.PoolInfo(pid)
	if err != nil {
		return nil, err
	}
	sched, err := r.schedule()
	if err != nil {
		return nil, err
	}
	total, err := r.totalPoints.Get()
	if err != nil {
		return nil, err
	}
	if err := r.updatePool(pid, pool, sched, total); err != nil {
		return nil, err
	}
	return pool, nil
}

func (r *Rewards) updatePool(pid uint64, pool *Pool, sched emission.Schedule, totalPoints uint64) error {
	now := r.ctx.Now()
	if now <= pool.LastRewardTime {
		return nil
	}
	if err := accrue(pool, sched, totalPoints, now); err != nil {
		return err
	}
	metricPoolUpdates().Add(1)
	return r.pools.Set(solidity.Index(pid), pool)
}

// MassUpdatePools updates the given pools, or every active pool when pids is empty.
func (r *Rewards) MassUpdatePools(pids []uint64) error {
	if len(pids) == 0 {
		count, err := r.poolCount.Get()
		if err != nil {
			return err
		}
		for pid := range count {
			pids = append(pids, pid)
		}
	}
	sched, err := r.schedule()
	if err != nil {
		return err
	}
	total, err := r.totalPoints.Get()
	if err != nil {
		return err
	}
	for _, pid := range pids {
		pool, err := r.PoolInfo(pid)
		if err != nil {
			return err
		}
		if !pool.Active {
			continue
		}
		if err := r.updatePool(pid, pool, sched, total); err != nil {
			return err
		}
	}
	return nil
}
