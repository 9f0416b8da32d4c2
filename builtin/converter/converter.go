// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package converter turns collected swap fees into the reward token and hands the proceeds
// to the vesting vault.
package converter

import (
	"math/big"

	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/builtin/solidity"
	"github.com/rewardmill/rewardmill/builtin/swap"
	"github.com/rewardmill/rewardmill/log"
	"github.com/rewardmill/rewardmill/metrics"
	"github.com/rewardmill/rewardmill/mill"
)

var (
	logger          = log.WithContext("pkg", "converter")
	metricConverts  = metrics.LazyLoadCounterVec("converter_converts_count", []string{"result"})
	slotRewardToken = solidity.Slot("reward-token")
	slotBaseToken   = solidity.Slot("base-token")
	slotVault       = solidity.Slot("vault")
	slotBridges     = solidity.Slot("bridges")
)

type Tokens interface {
	BalanceOf(token, account mill.Address) (*big.Int, error)
}

// Venue is the swap venue conversions trade on.
type Venue interface {
	GetPool(a, b mill.Address) (mill.Address, bool, error)
	Burn(holder, pair mill.Address, liquidity *big.Int) (*swap.Redemption, error)
	Swap(caller, pair, tokenIn mill.Address, amountIn, minOut *big.Int, to mill.Address) (*big.Int, error)
}

// Vault receives the converted reward token.
type Vault interface {
	Inject(from mill.Address, amount *big.Int) error
}

// Contracts resolves the vault the converter is pointed at.
type Contracts interface {
	VaultAt(addr mill.Address) Vault
}

// Pair names two tokens whose LP fees should be converted.
type Pair struct {
	Token0 mill.Address `json:"token0"`
	Token1 mill.Address `json:"token1"`
}

type Converter struct {
	ctx         *solidity.Context
	tokens      Tokens
	venue       Venue
	contracts   Contracts
	owner       *solidity.Owner
	rewardToken *solidity.Address
	baseToken   *solidity.Address
	vault       *solidity.Address
	bridges     *solidity.Mapping[mill.Address, mill.Address]
}

func New(ctx *solidity.Context, tokens Tokens, venue Venue, contracts Contracts) *Converter {
	return &Converter{
		ctx:         ctx,
		tokens:      tokens,
		venue:       venue,
		contracts:   contracts,
		owner:       solidity.NewOwner(ctx),
		rewardToken: solidity.NewAddress(ctx, slotRewardToken),
		baseToken:   solidity.NewAddress(ctx, slotBaseToken),
		vault:       solidity.NewAddress(ctx, slotVault),
		bridges:     solidity.NewMapping[mill.Address, mill.Address](ctx, slotBridges),
	}
}

func (c *Converter) Address() mill.Address {
	return c.ctx.Address()
}

// Initialize sets the converter parameters. It is only called from genesis.
func (c *Converter) Initialize(owner, rewardToken, baseToken, vault mill.Address) error {
	if owner.IsZero() || rewardToken.IsZero() || baseToken.IsZero() || vault.IsZero() {
		return reverts.New(reverts.InvalidParameter, "zero address")
	}
	if rewardToken == baseToken {
		return reverts.New(reverts.InvalidParameter, "base token equals reward token")
	}
	c.owner.Set(owner)
	c.rewardToken.Set(rewardToken)
	c.baseToken.Set(baseToken)
	c.vault.Set(vault)
	return nil
}

func (c *Converter) RewardToken() (mill.Address, error) {
	return c.rewardToken.Get()
}

func (c *Converter) BaseToken() (mill.Address, error) {
	return c.baseToken.Get()
}

func (c *Converter) Vault() (mill.Address, error) {
	return c.vault.Get()
}

// BridgeFor returns the token conversions of token route through, the base token unless
// one was set.
func (c *Converter) BridgeFor(token mill.Address) (mill.Address, error) {
	bridge, err := c.bridges.Get(token)
	if err != nil {
		return mill.Address{}, err
	}
	if bridge.IsZero() {
		return c.baseToken.Get()
	}
	return bridge, nil
}

// SetBridge routes conversions of token through bridge.
func (c *Converter) SetBridge(caller, token, bridge mill.Address) error {
	if err := c.owner.Require(caller); err != nil {
		return err
	}
	rewardToken, err := c.rewardToken.Get()
	if err != nil {
		return err
	}
	baseToken, err := c.baseToken.Get()
	if err != nil {
		return err
	}
	if token == rewardToken || token == baseToken || token == bridge || token.IsZero() || bridge.IsZero() {
		return reverts.InvalidBridge()
	}
	if err := c.bridges.Set(token, bridge); err != nil {
		return err
	}
	logger.Info("bridge set", "token", token, "bridge", bridge)
	return c.ctx.Emit("BridgeSet", &bridgeEvent{token, bridge}, solidity.AddressTopic(token), solidity.AddressTopic(bridge))
}

type bridgeEvent struct {
	Token  mill.Address `json:"token"`
	Bridge mill.Address `json:"bridge"`
}

type convertedEvent struct {
	Server       mill.Address `json:"server"`
	Token0       mill.Address `json:"token0"`
	Token1       mill.Address `json:"token1"`
	Amount0      *big.Int     `json:"amount0"`
	Amount1      *big.Int     `json:"amount1"`
	RewardAmount *big.Int     `json:"rewardAmount"`
}
