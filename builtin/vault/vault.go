// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault implements the vesting vault: holders own shares of the underlying balance,
// and every transfer into the vault that is not an enter raises the price of a share.
package vault

import (
	"math/big"

	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/builtin/solidity"
	"github.com/rewardmill/rewardmill/fixedpoint"
	"github.com/rewardmill/rewardmill/log"
	"github.com/rewardmill/rewardmill/mill"
)

var logger = log.WithContext("pkg", "vault")

var (
	slotUnderlying  = solidity.Slot("underlying")
	slotShares      = solidity.Slot("shares")
	slotTotalShares = solidity.Slot("total-shares")
	slotGenesis     = solidity.Slot("genesis-timestamp")
	slotInterval    = solidity.Slot("sampling-interval")
	slotSamples     = solidity.Slot("price-samples")
)

type Tokens interface {
	BalanceOf(token, account mill.Address) (*big.Int, error)
	Transfer(token, from, to mill.Address, amount *big.Int) error
	TransferFrom(token, spender, from, to mill.Address, amount *big.Int) error
}

// Sample is a recorded share price.
type Sample struct {
	Time  uint64   `json:"time"`
	Price *big.Int `json:"price"`
}

type samples struct {
	Previous Sample
	Last     Sample
}

// Vault is the vesting vault contract.
type Vault struct {
	ctx         *solidity.Context
	tokens      Tokens
	owner       *solidity.Owner
	underlying  *solidity.Address
	shares      *solidity.Mapping[mill.Address, *big.Int]
	totalShares *solidity.Uint256
	genesis     *solidity.Variable[uint64]
	interval    *solidity.Variable[uint64]
	samples     *solidity.Variable[*samples]
}

func New(ctx *solidity.Context, tokens Tokens) *Vault {
	return &Vault{
		ctx:         ctx,
		tokens:      tokens,
		owner:       solidity.NewOwner(ctx),
		underlying:  solidity.NewAddress(ctx, slotUnderlying),
		shares:      solidity.NewMapping[mill.Address, *big.Int](ctx, slotShares),
		totalShares: solidity.NewUint256(ctx, slotTotalShares),
		genesis:     solidity.NewVariable[uint64](ctx, slotGenesis),
		interval:    solidity.NewVariable[uint64](ctx, slotInterval),
		samples:     solidity.NewVariable[*samples](ctx, slotSamples),
	}
}

func (v *Vault) Address() mill.Address {
	return v.ctx.Address()
}

// Initialize sets the vault parameters. It is only called from genesis.
func (v *Vault) Initialize(owner, underlying mill.Address, samplingInterval uint64) error {
	if owner.IsZero() || underlying.IsZero() {
		return reverts.New(reverts.InvalidParameter, "zero address")
	}
	if samplingInterval == 0 {
		samplingInterval = mill.DefaultSamplingInterval
	}
	v.owner.Set(owner)
	v.underlying.Set(underlying)
	return v.interval.Set(samplingInterval)
}

func (v *Vault) Underlying() (mill.Address, error) {
	return v.underlying.Get()
}

func (v *Vault) TotalShares() (*big.Int, error) {
	return v.totalShares.Get()
}

// TotalUnderlying is the vault's balance of the underlying token.
func (v *Vault) TotalUnderlying() (*big.Int, error) {
	underlying, err := v.underlying.Get()
	if err != nil {
		return nil, err
	}
	return v.tokens.BalanceOf(underlying, v.ctx.Address())
}

func (v *Vault) SharesOf(account mill.Address) (*big.Int, error) {
	return v.shares.Get(account)
}

// GenesisTimestamp is the time shares were first minted, zero before that.
func (v *Vault) GenesisTimestamp() (uint64, error) {
	return v.genesis.Get()
}

func (v *Vault) totals() (shares, underlying *big.Int, err error) {
	if shares, err = v.totalShares.Get(); err != nil {
		return nil, nil, err
	}
	if underlying, err = v.TotalUnderlying(); err != nil {
		return nil, nil, err
	}
	return shares, underlying, nil
}

// Enter deposits amount of underlying from caller and mints shares at the current price.
func (v *Vault) Enter(caller mill.Address, amount *big.Int) (*big.Int, error) {
	if amount.Sign() <= 0 {
		return nil, reverts.New(reverts.InvalidParameter, "amount must be positive")
	}
	totalShares, totalUnderlying, err := v.totals()
	if err != nil {
		return nil, err
	}
	minted := amount
	if totalShares.Sign() > 0 {
		if totalUnderlying.Sign() == 0 {
			return nil, reverts.New(reverts.InvalidParameter, "vault holds no underlying")
		}
		minted = fixedpoint.MustMulDiv(amount, totalShares, totalUnderlying)
	}
	if minted.Sign() == 0 {
		return nil, reverts.Newf(reverts.InvalidParameter, "%s underlying buys no shares", amount)
	}

	if err := v.mint(caller, minted); err != nil {
		return nil, err
	}
	underlying, err := v.underlying.Get()
	if err != nil {
		return nil, err
	}
	if err := v.tokens.TransferFrom(underlying, v.ctx.Address(), caller, v.ctx.Address(), amount); err != nil {
		return nil, err
	}
	metricVaultOps().AddWithLabel(1, map[string]string{"op": "enter"})
	return minted, v.ctx.Emit("Enter", &enterEvent{caller, amount, minted}, solidity.AddressTopic(caller))
}

// Leave burns shares of caller and pays out their value in underlying.
func (v *Vault) Leave(caller mill.Address, shares *big.Int) (*big.Int, error) {
	if shares.Sign() <= 0 {
		return nil, reverts.New(reverts.InvalidParameter, "shares must be positive")
	}
	totalShares, totalUnderlying, err := v.totals()
	if err != nil {
		return nil, err
	}
	if totalShares.Sign() == 0 {
		return nil, reverts.New(reverts.InsufficientBalance, "vault has no shares")
	}
	held, err := v.shares.Get(caller)
	if err != nil {
		return nil, err
	}
	if held.Cmp(shares) < 0 {
		return nil, reverts.Newf(reverts.InsufficientBalance, "leave %s exceeds %s shares held", shares, held)
	}
	amount := fixedpoint.MustMulDiv(shares, totalUnderlying, totalShares)

	if err := v.shares.Set(caller, held.Sub(held, shares)); err != nil {
		return nil, err
	}
	if err := v.totalShares.Sub(shares); err != nil {
		return nil, err
	}
	underlying, err := v.underlying.Get()
	if err != nil {
		return nil, err
	}
	if err := v.tokens.Transfer(underlying, v.ctx.Address(), caller, amount); err != nil {
		return nil, err
	}
	metricVaultOps().AddWithLabel(1, map[string]string{"op": "leave"})
	return amount, v.ctx.Emit("Leave", &leaveEvent{caller, shares, amount}, solidity.AddressTopic(caller))
}

// Inject moves amount of underlying from `from` into the vault without minting shares.
func (v *Vault) Inject(from mill.Address, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return reverts.New(reverts.InvalidParameter, "amount must be positive")
	}
	underlying, err := v.underlying.Get()
	if err != nil {
		return err
	}
	if err := v.tokens.Transfer(underlying, from, v.ctx.Address(), amount); err != nil {
		return err
	}
	metricVaultOps().AddWithLabel(1, map[string]string{"op": "inject"})
	return v.ctx.Emit("Injected", &injectedEvent{from, amount}, solidity.AddressTopic(from))
}

// Fund moves amount from `from` into the vault. An empty vault mints the amount 1:1 as shares
// to beneficiary, otherwise it is a plain injection. Returns the shares minted.
func (v *Vault) Fund(from, beneficiary mill.Address, amount *big.Int) (*big.Int, error) {
	totalShares, err := v.totalShares.Get()
	if err != nil {
		return nil, err
	}
	if totalShares.Sign() > 0 {
		return new(big.Int), v.Inject(from, amount)
	}
	if amount.Sign() <= 0 {
		return nil, reverts.New(reverts.InvalidParameter, "amount must be positive")
	}
	if err := v.mint(beneficiary, amount); err != nil {
		return nil, err
	}
	underlying, err := v.underlying.Get()
	if err != nil {
		return nil, err
	}
	if err := v.tokens.Transfer(underlying, from, v.ctx.Address(), amount); err != nil {
		return nil, err
	}
	logger.Info("vault seeded", "beneficiary", beneficiary, "shares", amount)
	return amount, v.ctx.Emit("Enter", &enterEvent{beneficiary, amount, amount}, solidity.AddressTopic(beneficiary))
}

func (v *Vault) mint(to mill.Address, shares *big.Int) error {
	genesis, err := v.genesis.Get()
	if err != nil {
		return err
	}
	if genesis == 0 {
		if err := v.genesis.Set(v.ctx.Now()); err != nil {
			return err
		}
	}
	held, err := v.shares.Get(to)
	if err != nil {
		return err
	}
	if err := v.shares.Set(to, held.Add(held, shares)); err != nil {
		return err
	}
	return v.totalShares.Add(shares)
}

type enterEvent struct {
	User   mill.Address `json:"user"`
	Amount *big.Int     `json:"amount"`
	Shares *big.Int     `json:"shares"`
}

type leaveEvent struct {
	User   mill.Address `json:"user"`
	Shares *big.Int     `json:"shares"`
	Amount *big.Int     `json:"amount"`
}

type injectedEvent struct {
	From   mill.Address `json:"from"`
	Amount *big.Int     `json:"amount"`
}
