// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/builtin/solidity"
	"github.com/rewardmill/rewardmill/fixedpoint"
	"github.com/rewardmill/rewardmill/mill"
)

// UserInfo returns the stake of user in pid.
func (r *Rewards) UserInfo(pid uint64, user mill.Address) (*Stake, error) {
	if _, err := r.PoolInfo(pid); err != nil {
		return nil, err
	}
	return r.stake(pid, user)
}

func (r *Rewards) stake(pid uint64, user mill.Address) (*Stake, error) {
	stake, err := r.stakes.Get(stakeKey{pid, user})
	if err != nil {
		return nil, err
	}
	stake.normalize()
	return stake, nil
}

// PendingReward is the reward user could harvest from pid now. Nothing is written.
func (r *Rewards) PendingReward(pid uint64, user mill.Address) (*big.Int, error) {
	pool, err := r.PoolInfo(pid)
	if err != nil {
		return nil, err
	}
	stake, err := r.stake(pid, user)
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
	if err := accrue(pool, sched, total, r.ctx.Now()); err != nil {
		return nil, err
	}
	return stake.pending(pool.AccRewardPerShare), nil
}

// Deposit harvests the pending reward of user and adds amount to the stake.
// A zero amount only harvests.
func (r *Rewards) Deposit(user mill.Address, pid uint64, amount *big.Int) (*big.Int, error) {
	if amount.Sign() < 0 {
		return nil, reverts.New(reverts.InvalidParameter, "negative amount")
	}
	if _, err := r.activePool(pid); err != nil {
		return nil, err
	}
	pool, err := r.UpdatePool(pid)
	if err != nil {
		return nil, err
	}
	stake, err := r.stake(pid, user)
	if err != nil {
		return nil, err
	}
	pending := stake.pending(pool.AccRewardPerShare)
	if err := r.requireSpendable(pending); err != nil {
		return nil, err
	}

	stake.Amount = new(big.Int).Add(stake.Amount, amount)
	stake.RewardDebt = fixedpoint.NewSigned(fixedpoint.Accumulated(stake.Amount, pool.AccRewardPerShare))
	pool.TotalStaked = new(big.Int).Add(pool.TotalStaked, amount)
	if err := r.save(pid, pool, user, stake); err != nil {
		return nil, err
	}

	if amount.Sign() > 0 {
		if err := r.tokens.TransferFrom(pool.StakedAsset, r.ctx.Address(), user, r.ctx.Address(), amount); err != nil {
			return nil, err
		}
		if err := r.ctx.Emit("Deposit", &stakeEvent{user, pid, amount},
			solidity.AddressTopic(user), solidity.Index(pid).Topic()); err != nil {
			return nil, err
		}
	}
	if err := r.payout(user, pid, pending); err != nil {
		return nil, err
	}
	metricStakeOps().AddWithLabel(1, map[string]string{"op": "deposit"})
	return pending, nil
}

// Withdraw harvests the pending reward of user and returns amount of the stake.
func (r *Rewards) Withdraw(user mill.Address, pid uint64, amount *big.Int) (*big.Int, error) {
	if amount.Sign() < 0 {
		return nil, reverts.New(reverts.InvalidParameter, "negative amount")
	}
	pool, err := r.UpdatePool(pid)
	if err != nil {
		return nil, err
	}
	stake, err := r.stake(pid, user)
	if err != nil {
		return nil, err
	}
	if stake.Amount.Cmp(amount) < 0 {
		return nil, reverts.Newf(reverts.InsufficientStake, "withdraw %s exceeds stake %s", amount, stake.Amount)
	}
	pending := stake.pending(pool.AccRewardPerShare)
	if err := r.requireSpendable(pending); err != nil {
		return nil, err
	}

	stake.Amount = new(big.Int).Sub(stake.Amount, amount)
	stake.RewardDebt = fixedpoint.NewSigned(fixedpoint.Accumulated(stake.Amount, pool.AccRewardPerShare))
	pool.TotalStaked = new(big.Int).Sub(pool.TotalStaked, amount)
	if err := r.save(pid, pool, user, stake); err != nil {
		return nil, err
	}

	if amount.Sign() > 0 {
		if err := r.tokens.Transfer(pool.StakedAsset, r.ctx.Address(), user, amount); err != nil {
			return nil, err
		}
		if err := r.ctx.Emit("Withdraw", &stakeEvent{user, pid, amount},
			solidity.AddressTopic(user), solidity.Index(pid).Topic()); err != nil {
			return nil, err
		}
	}
	if err := r.payout(user, pid, pending); err != nil {
		return nil, err
	}
	metricStakeOps().AddWithLabel(1, map[string]string{"op": "withdraw"})
	return pending, nil
}

// Harvest pays the pending reward of user without touching the stake.
func (r *Rewards) Harvest(user mill.Address, pid uint64) (*big.Int, error) {
	return r.Withdraw(user, pid, new(big.Int))
}

// EmergencyWithdraw returns the whole stake of user and forfeits the pending reward.
func (r *Rewards) EmergencyWithdraw(user mill.Address, pid uint64) (*big.Int, error) {
	policy, err := r.emergency.Get()
	if err != nil {
		return nil, err
	}
	if policy == EmergencyDisabled {
		return nil, reverts.New(reverts.InvalidParameter, "emergency withdraw is disabled")
	}
	pool, err := r.PoolInfo(pid)
	if err != nil {
		return nil, err
	}
	stake, err := r.stake(pid, user)
	if err != nil {
		return nil, err
	}
	amount := stake.Amount

	pool.TotalStaked = new(big.Int).Sub(pool.TotalStaked, amount)
	if err := r.save(pid, pool, user, &Stake{Amount: new(big.Int)}); err != nil {
		return nil, err
	}
	if err := r.tokens.Transfer(pool.StakedAsset, r.ctx.Address(), user, amount); err != nil {
		return nil, err
	}
	logger.Warn("emergency withdraw", "user", user, "pid", pid, "amount", amount)
	metricStakeOps().AddWithLabel(1, map[string]string{"op": "emergency"})
	return amount, r.ctx.Emit("EmergencyWithdraw", &stakeEvent{user, pid, amount},
		solidity.AddressTopic(user), solidity.Index(pid).Topic())
}

func (r *Rewards) save(pid uint64, pool *Pool, user mill.Address, stake *Stake) error {
	if err := r.pools.Set(solidity.Index(pid), pool); err != nil {
		return err
	}
	return r.stakes.Set(stakeKey{pid, user}, stake)
}

func (r *Rewards) requireSpendable(amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	balance, err := r.SpendableBalance()
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientBalance, "reward balance %s cannot cover %s", balance, amount)
	}
	return nil
}

func (r *Rewards) payout(user mill.Address, pid uint64, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	token, err := r.rewardToken.Get()
	if err != nil {
		return err
	}
	if err := r.tokens.Transfer(token, r.ctx.Address(), user, amount); err != nil {
		return err
	}
	metricPayouts().Add(1)
	return r.ctx.Emit("Harvest", &stakeEvent{user, pid, amount},
		solidity.AddressTopic(user), solidity.Index(pid).Topic())
}
