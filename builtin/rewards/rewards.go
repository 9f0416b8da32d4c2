// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards implements the staking pools: a weighted registry of pools, the per-share
// reward accumulator of each pool and the ledger of user stakes.
package rewards

import (
	"math/big"

	"github.com/rewardmill/rewardmill/builtin/emission"
	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/builtin/solidity"
	"github.com/rewardmill/rewardmill/log"
	"github.com/rewardmill/rewardmill/mill"
)

var logger = log.WithContext("pkg", "rewards")

var (
	slotPoolCount   = solidity.Slot("pool-count")
	slotPools       = solidity.Slot("pools")
	slotAssetIndex  = solidity.Slot("asset-index")
	slotTotalPoints = solidity.Slot("total-allocation-points")
	slotStakes      = solidity.Slot("stakes")
	slotRewardToken = solidity.Slot("reward-token")
	slotEmergency   = solidity.Slot("emergency-policy")
)

// Tokens moves the staked assets and the reward token.
type Tokens interface {
	BalanceOf(token, account mill.Address) (*big.Int, error)
	Transfer(token, from, to mill.Address, amount *big.Int) error
	TransferFrom(token, spender, from, to mill.Address, amount *big.Int) error
}

// Rewards is the staking contract.
type Rewards struct {
	ctx         *solidity.Context
	tokens      Tokens
	owner       *solidity.Owner
	emission    *emission.Store
	poolCount   *solidity.Variable[uint64]
	pools       *solidity.Mapping[solidity.Index, *Pool]
	assetIndex  *solidity.Mapping[mill.Address, uint64] // pid+1 of the active pool
	totalPoints *solidity.Variable[uint64]
	stakes      *solidity.Mapping[stakeKey, *Stake]
	rewardToken *solidity.Address
	emergency   *solidity.Variable[EmergencyPolicy]
}

func New(ctx *solidity.Context, tokens Tokens) *Rewards {
	return &Rewards{
		ctx:         ctx,
		tokens:      tokens,
		owner:       solidity.NewOwner(ctx),
		emission:    emission.NewStore(ctx),
		poolCount:   solidity.NewVariable[uint64](ctx, slotPoolCount),
		pools:       solidity.NewMapping[solidity.Index, *Pool](ctx, slotPools),
		assetIndex:  solidity.NewMapping[mill.Address, uint64](ctx, slotAssetIndex),
		totalPoints: solidity.NewVariable[uint64](ctx, slotTotalPoints),
		stakes:      solidity.NewMapping[stakeKey, *Stake](ctx, slotStakes),
		rewardToken: solidity.NewAddress(ctx, slotRewardToken),
		emergency:   solidity.NewVariable[EmergencyPolicy](ctx, slotEmergency),
	}
}

func (r *Rewards) Address() mill.Address {
	return r.ctx.Address()
}

// Initialize sets the deployment parameters. It is only called from genesis.
func (r *Rewards) Initialize(owner, rewardToken mill.Address, cfg *emission.Config, policy EmergencyPolicy) error {
	if owner.IsZero() || rewardToken.IsZero() {
		return reverts.New(reverts.InvalidParameter, "zero address")
	}
	if err := r.emission.Set(cfg); err != nil {
		return err
	}
	r.owner.Set(owner)
	r.rewardToken.Set(rewardToken)
	return r.emergency.Set(policy)
}

func (r *Rewards) Owner() (mill.Address, error) {
	return r.owner.Get()
}

func (r *Rewards) SetOwner(caller, owner mill.Address) error {
	if err := r.owner.Require(caller); err != nil {
		return err
	}
	if owner.IsZero() {
		return reverts.New(reverts.InvalidParameter, "zero address")
	}
	r.owner.Set(owner)
	return nil
}

func (r *Rewards) RewardToken() (mill.Address, error) {
	return r.rewardToken.Get()
}

// SpendableBalance is the reward token held by the contract and available for payouts.
func (r *Rewards) SpendableBalance() (*big.Int, error) {
	token, err := r.rewardToken.Get()
	if err != nil {
		return nil, err
	}
	return r.tokens.BalanceOf(token, r.ctx.Address())
}

func (r *Rewards) EmissionConfig() (*emission.Config, error) {
	return r.emission.Get()
}

// SetEmissionRate changes the fixed emission rate. Pools accrue at the old rate up to now.
func (r *Rewards) SetEmissionRate(caller mill.Address, rate *big.Int) error {
	if err := r.owner.Require(caller); err != nil {
		return err
	}
	cfg, err := r.emission.Get()
	if err != nil {
		return err
	}
	if cfg.Mode != emission.ModeFixed {
		return reverts.Newf(reverts.InvalidParameter, "emission rate is not adjustable in %s mode", cfg.Mode)
	}
	if rate == nil || rate.Sign() < 0 {
		return reverts.New(reverts.InvalidParameter, "invalid emission rate")
	}
	if err := r.MassUpdatePools(nil); err != nil {
		return err
	}
	cfg.Rate = rate
	if err := r.emission.Set(cfg); err != nil {
		return err
	}
	logger.Debug("emission rate changed", "rate", rate)
	return r.ctx.Emit("EmissionRateChanged", map[string]*big.Int{"rate": rate})
}

// SetDecayParams replaces the decay schedule. Accepted only before the first pool exists.
func (r *Rewards) SetDecayParams(caller mill.Address, params emission.EpochDecay) error {
	if err := r.owner.Require(caller); err != nil {
		return err
	}
	count, err := r.poolCount.Get()
	if err != nil {
		return err
	}
	if count > 0 {
		return reverts.New(reverts.InvalidParameter, "decay parameters are immutable once pools exist")
	}
	if err := params.Validate(); err != nil {
		return err
	}
	return r.emission.Set(&emission.Config{Mode: emission.ModeDecay, Decay: params})
}

func (r *Rewards) EmergencyPolicy() (EmergencyPolicy, error) {
	return r.emergency.Get()
}

func (r *Rewards) SetEmergencyPolicy(caller mill.Address, policy EmergencyPolicy) error {
	if err := r.owner.Require(caller); err != nil {
		return err
	}
	if policy > EmergencyDisabled {
		return reverts.Newf(reverts.InvalidParameter, "unknown emergency policy %d", policy)
	}
	return r.emergency.Set(policy)
}

// schedule loads the active schedule. An unconfigured deployment emits nothing.
func (r *Rewards) schedule() (emission.Schedule, error) {
	cfg, err := r.emission.Get()
	if err != nil {
		return nil, err
	}
	if cfg.Mode == emission.ModeNone {
		return &emission.FixedRate{}, nil
	}
	return cfg.Schedule()
}
