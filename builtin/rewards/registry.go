// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/builtin/solidity"
	"github.com/rewardmill/rewardmill/mill"
)

// AddPool whitelists asset with the given weight and returns the new pool id.
func (r *Rewards) AddPool(caller, asset mill.Address, points uint64) (uint64, error) {
	if err := r.owner.Require(caller); err != nil {
		return 0, err
	}
	if points == 0 {
		return 0, reverts.New(reverts.InvalidParameter, "zero allocation points")
	}
	if asset.IsZero() {
		return 0, reverts.New(reverts.InvalidParameter, "zero address")
	}
	rewardToken, err := r.rewardToken.Get()
	if err != nil {
		return 0, err
	}
	if asset == rewardToken {
		return 0, reverts.New(reverts.InvalidParameter, "reward token cannot be staked")
	}
	whitelisted, err := r.IsWhitelisted(asset)
	if err != nil {
		return 0, err
	}
	if whitelisted {
		return 0, reverts.Newf(reverts.AlreadyWhitelisted, "%s is already whitelisted", asset)
	}

	// existing pools accrue at the old weights up to now
	if err := r.MassUpdatePools(nil); err != nil {
		return 0, err
	}

	pid, err := r.poolCount.Get()
	if err != nil {
		return 0, err
	}
	total, err := r.totalPoints.Get()
	if err != nil {
		return 0, err
	}
	pool := &Pool{
		StakedAsset:       asset,
		AllocationPoints:  points,
		TotalStaked:       new(big.Int),
		LastRewardTime:    r.ctx.Now(),
		AccRewardPerShare: new(big.Int),
		Active:            true,
	}
	if err := r.pools.Set(solidity.Index(pid), pool); err != nil {
		return 0, err
	}
	if err := r.assetIndex.Set(asset, pid+1); err != nil {
		return 0, err
	}
	if err := r.poolCount.Set(pid + 1); err != nil {
		return 0, err
	}
	if err := r.totalPoints.Set(total + points); err != nil {
		return 0, err
	}

	metricPoolChanges().AddWithLabel(1, map[string]string{"op": "add"})
	logger.Info("pool added", "pid", pid, "asset", asset, "points", points)
	return pid, r.ctx.Emit("PoolAdded", &poolAddedEvent{pid, asset, points},
		solidity.Index(pid).Topic(), solidity.AddressTopic(asset))
}

// SetAllocation changes the weight of an active pool. All pools are brought up to date first.
func (r *Rewards) SetAllocation(caller mill.Address, pid, points uint64) error {
	if err := r.owner.Require(caller); err != nil {
		return err
	}
	if points == 0 {
		return reverts.New(reverts.InvalidParameter, "zero allocation points, remove the pool instead")
	}
	pool, err := r.activePool(pid)
	if err != nil {
		return err
	}

	if err := r.MassUpdatePools(nil); err != nil {
		return err
	}
	// reload, the mass update advanced it
	if pool, err = r.activePool(pid); err != nil {
		return err
	}
	total, err := r.totalPoints.Get()
	if err != nil {
		return err
	}
	old := pool.AllocationPoints
	pool.AllocationPoints = points
	if err := r.pools.Set(solidity.Index(pid), pool); err != nil {
		return err
	}
	if err := r.totalPoints.Set(total - old + points); err != nil {
		return err
	}

	metricPoolChanges().AddWithLabel(1, map[string]string{"op": "set"})
	logger.Info("pool allocation changed", "pid", pid, "from", old, "to", points)
	return r.ctx.Emit("PoolAllocationChanged", &poolAllocationEvent{pid, old, points}, solidity.Index(pid).Topic())
}

// RemovePool settles and deactivates the pool of asset. Stakes in it can still be withdrawn.
func (r *Rewards) RemovePool(caller, asset mill.Address) error {
	if err := r.owner.Require(caller); err != nil {
		return err
	}
	pid, ok, err := r.PoolIDOf(asset)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.Newf(reverts.NotWhitelisted, "%s is not whitelisted", asset)
	}

	if err := r.MassUpdatePools(nil); err != nil {
		return err
	}
	pool, err := r.activePool(pid)
	if err != nil {
		return err
	}
	total, err := r.totalPoints.Get()
	if err != nil {
		return err
	}
	if err := r.totalPoints.Set(total - pool.AllocationPoints); err != nil {
		return err
	}
	pool.AllocationPoints = 0
	pool.Active = false
	if err := r.pools.Set(solidity.Index(pid), pool); err != nil {
		return err
	}
	r.assetIndex.Delete(asset)

	metricPoolChanges().AddWithLabel(1, map[string]string{"op": "remove"})
	logger.Info("pool removed", "pid", pid, "asset", asset)
	return r.ctx.Emit("PoolRemoved", &poolRemovedEvent{pid, asset},
		solidity.Index(pid).Topic(), solidity.AddressTopic(asset))
}

func (r *Rewards) IsWhitelisted(asset mill.Address) (bool, error) {
	_, ok, err := r.PoolIDOf(asset)
	return ok, err
}

// PoolIDOf returns the id of the active pool staking asset.
func (r *Rewards) PoolIDOf(asset mill.Address) (uint64, bool, error) {
	idx, err := r.assetIndex.Get(asset)
	if err != nil {
		return 0, false, err
	}
	if idx == 0 {
		return 0, false, nil
	}
	return idx - 1, true, nil
}

// PoolLength counts every pool ever added, removed ones included.
func (r *Rewards) PoolLength() (uint64, error) {
	return r.poolCount.Get()
}

func (r *Rewards) TotalAllocationPoints() (uint64, error) {
	return r.totalPoints.Get()
}

// PoolInfo returns the pool with the given id, active or not.
func (r *Rewards) PoolInfo(pid uint64) (*Pool, error) {
	count, err := r.poolCount.Get()
	if err != nil {
		return nil, err
	}
	if pid >= count {
		return nil, reverts.Newf(reverts.PoolNotFound, "pool %d not found", pid)
	}
	pool, err := r.pools.Get(solidity.Index(pid))
	if err != nil {
		return nil, err
	}
	pool.normalize()
	return pool, nil
}

// Pools lists the active pools in id order.
func (r *Rewards) Pools() ([]*PoolInfo, error) {
	count, err := r.poolCount.Get()
	if err != nil {
		return nil, err
	}
	out := make([]*PoolInfo, 0, count)
	for pid := range count {
		pool, err := r.PoolInfo(pid)
		if err != nil {
			return nil, err
		}
		if pool.Active {
			out = append(out, &PoolInfo{PID: pid, Pool: pool})
		}
	}
	return out, nil
}

func (r *Rewards) activePool(pid uint64) (*Pool, error) {
	pool, err := r.PoolInfo(pid)
	if err != nil {
		return nil, err
	}
	if !pool.Active {
		return nil, reverts.Newf(reverts.PoolNotFound, "pool %d was removed", pid)
	}
	return pool, nil
}
