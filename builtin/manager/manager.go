// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package manager releases epoch rewards, splitting each release between the vesting vault
// and the staking pools.
package manager

import (
	"math/big"

	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/builtin/solidity"
	"github.com/rewardmill/rewardmill/fixedpoint"
	"github.com/rewardmill/rewardmill/log"
	"github.com/rewardmill/rewardmill/metrics"
	"github.com/rewardmill/rewardmill/mill"
)

var (
	logger          = log.WithContext("pkg", "manager")
	metricReleases  = metrics.LazyLoadCounter("manager_releases_count")
	slotRewardToken = solidity.Slot("reward-token")
	slotRewards     = solidity.Slot("rewards-contract")
	slotVault       = solidity.Slot("vault")
	slotRatio       = solidity.Slot("vesting-ratio")
	slotReleased    = solidity.Slot("total-released")
	slotLastRelease = solidity.Slot("last-release")
)

type Tokens interface {
	Transfer(token, from, to mill.Address, amount *big.Int) error
	TransferFrom(token, spender, from, to mill.Address, amount *big.Int) error
}

// RewardsContract is the part of the staking contract the manager relies on.
type RewardsContract interface {
	PoolLength() (uint64, error)
}

// VaultContract is the part of the vesting vault the manager relies on.
type VaultContract interface {
	Fund(from, beneficiary mill.Address, amount *big.Int) (*big.Int, error)
}

// Contracts resolves the contracts the manager is pointed at.
type Contracts interface {
	RewardsAt(addr mill.Address) RewardsContract
	VaultAt(addr mill.Address) VaultContract
}

// Release is the outcome of one epoch release.
type Release struct {
	Vested      *big.Int `json:"vested"`
	Operational *big.Int `json:"operational"`
	Shares      *big.Int `json:"shares"`
}

type Manager struct {
	ctx         *solidity.Context
	tokens      Tokens
	contracts   Contracts
	owner       *solidity.Owner
	rewardToken *solidity.Address
	rewards     *solidity.Address
	vault       *solidity.Address
	ratio       *solidity.Variable[uint64]
	released    *solidity.Uint256
	lastRelease *solidity.Variable[uint64]
}

func New(ctx *solidity.Context, tokens Tokens, contracts Contracts) *Manager {
	return &Manager{
		ctx:         ctx,
		tokens:      tokens,
		contracts:   contracts,
		owner:       solidity.NewOwner(ctx),
		rewardToken: solidity.NewAddress(ctx, slotRewardToken),
		rewards:     solidity.NewAddress(ctx, slotRewards),
		vault:       solidity.NewAddress(ctx, slotVault),
		ratio:       solidity.NewVariable[uint64](ctx, slotRatio),
		released:    solidity.NewUint256(ctx, slotReleased),
		lastRelease: solidity.NewVariable[uint64](ctx, slotLastRelease),
	}
}

func (m *Manager) Address() mill.Address {
	return m.ctx.Address()
}

// Initialize sets the manager parameters. It is only called from genesis.
func (m *Manager) Initialize(owner, rewardToken, rewards, vault mill.Address, ratioBps uint64) error {
	if owner.IsZero() || rewardToken.IsZero() || rewards.IsZero() || vault.IsZero() {
		return reverts.New(reverts.InvalidParameter, "zero address")
	}
	if ratioBps > mill.BasisPoints {
		return reverts.Newf(reverts.InvalidParameter, "vesting ratio %d exceeds %d", ratioBps, mill.BasisPoints)
	}
	m.owner.Set(owner)
	m.rewardToken.Set(rewardToken)
	m.rewards.Set(rewards)
	m.vault.Set(vault)
	return m.ratio.Set(ratioBps)
}

// ReleaseEpochRewards pulls amount of reward token from caller and splits it between the
// vault and the staking contract by the vesting ratio.
func (m *Manager) ReleaseEpochRewards(caller mill.Address, amount *big.Int) (*Release, error) {
	if err := m.owner.Require(caller); err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, reverts.New(reverts.InvalidParameter, "amount must be positive")
	}
	token, err := m.rewardToken.Get()
	if err != nil {
		return nil, err
	}
	rewardsAddr, err := m.rewards.Get()
	if err != nil {
		return nil, err
	}
	vaultAddr, err := m.vault.Get()
	if err != nil {
		return nil, err
	}
	ratio, err := m.ratio.Get()
	if err != nil {
		return nil, err
	}

	if err := m.tokens.TransferFrom(token, m.ctx.Address(), caller, m.ctx.Address(), amount); err != nil {
		return nil, err
	}

	release := &Release{
		Vested: fixedpoint.Bps(amount, ratio),
		Shares: new(big.Int),
	}
	release.Operational = new(big.Int).Sub(amount, release.Vested)

	if err := m.released.Add(amount); err != nil {
		return nil, err
	}
	if err := m.lastRelease.Set(m.ctx.Now()); err != nil {
		return nil, err
	}

	if release.Vested.Sign() > 0 {
		if release.Shares, err = m.contracts.VaultAt(vaultAddr).Fund(m.ctx.Address(), rewardsAddr, release.Vested); err != nil {
			return nil, err
		}
	}
	if err := m.tokens.Transfer(token, m.ctx.Address(), rewardsAddr, release.Operational); err != nil {
		return nil, err
	}

	if err := m.ctx.Emit("VestedRewardsSent", &sentEvent{vaultAddr, release.Vested}, solidity.AddressTopic(vaultAddr)); err != nil {
		return nil, err
	}
	if err := m.ctx.Emit("OperationalRewardsReleased", &sentEvent{rewardsAddr, release.Operational}, solidity.AddressTopic(rewardsAddr)); err != nil {
		return nil, err
	}
	metricReleases().Add(1)
	logger.Info("epoch rewards released", "vested", release.Vested, "operational", release.Operational)
	return release, nil
}

func (m *Manager) VestingRatio() (uint64, error) {
	return m.ratio.Get()
}

// SetVestingRatio changes the split of future releases.
func (m *Manager) SetVestingRatio(caller mill.Address, ratioBps uint64) error {
	if err := m.owner.Require(caller); err != nil {
		return err
	}
	if ratioBps > mill.BasisPoints {
		return reverts.Newf(reverts.InvalidParameter, "vesting ratio %d exceeds %d", ratioBps, mill.BasisPoints)
	}
	rewardsAddr, err := m.rewards.Get()
	if err != nil {
		return err
	}
	pools, err := m.contracts.RewardsAt(rewardsAddr).PoolLength()
	if err != nil {
		return err
	}
	if pools == 0 {
		return reverts.New(reverts.NoActiveRewards, "no reward pool exists yet")
	}
	old, err := m.ratio.Get()
	if err != nil {
		return err
	}
	if err := m.ratio.Set(ratioBps); err != nil {
		return err
	}
	return m.ctx.Emit("VestingRatioChanged", &ratioEvent{old, ratioBps})
}

func (m *Manager) RewardsContract() (mill.Address, error) {
	return m.rewards.Get()
}

func (m *Manager) SetRewardsContract(caller, addr mill.Address) error {
	if err := m.owner.Require(caller); err != nil {
		return err
	}
	if addr.IsZero() {
		return reverts.New(reverts.InvalidParameter, "zero address")
	}
	m.rewards.Set(addr)
	return m.ctx.Emit("RewardsContractChanged", map[string]mill.Address{"rewards": addr})
}

func (m *Manager) Vault() (mill.Address, error) {
	return m.vault.Get()
}

func (m *Manager) SetVault(caller, addr mill.Address) error {
	if err := m.owner.Require(caller); err != nil {
		return err
	}
	if addr.IsZero() {
		return reverts.New(reverts.InvalidParameter, "zero address")
	}
	m.vault.Set(addr)
	return m.ctx.Emit("VaultChanged", map[string]mill.Address{"vault": addr})
}

func (m *Manager) RewardToken() (mill.Address, error) {
	return m.rewardToken.Get()
}

// TotalReleased sums every amount released so far.
func (m *Manager) TotalReleased() (*big.Int, error) {
	return m.released.Get()
}

func (m *Manager) LastRelease() (uint64, error) {
	return m.lastRelease.Get()
}

type sentEvent struct {
	To     mill.Address `json:"to"`
	Amount *big.Int     `json:"amount"`
}

type ratioEvent struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}
