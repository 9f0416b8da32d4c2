// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package swap is a constant-product exchange. Each pair lives at its own address, which is
// also the address of the pair's LP token.
package swap

import (
	"bytes"
	"math/big"

	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/builtin/solidity"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/state"
)

var (
	slotPairs     = solidity.Slot("pairs")
	slotPairCount = solidity.Slot("pair-count")
	slotPairList  = solidity.Slot("pair-list")
)

// Tokens is the ledger the venue settles in.
type Tokens interface {
	BalanceOf(token, account mill.Address) (*big.Int, error)
	Transfer(token, from, to mill.Address, amount *big.Int) error
	Mint(token, to mill.Address, amount *big.Int) error
	Burn(token, from mill.Address, amount *big.Int) error
	TotalSupply(token mill.Address) (*big.Int, error)
}

// Venue is the pair registry.
type Venue struct {
	ctx       *solidity.Context
	tokens    Tokens
	pairs     *solidity.Mapping[solidity.PairKey, mill.Address]
	pairCount *solidity.Variable[uint64]
	pairList  *solidity.Mapping[solidity.Index, mill.Address]
}

func New(ctx *solidity.Context, tokens Tokens) *Venue {
	return &Venue{
		ctx:       ctx,
		tokens:    tokens,
		pairs:     solidity.NewMapping[solidity.PairKey, mill.Address](ctx, slotPairs),
		pairCount: solidity.NewVariable[uint64](ctx, slotPairCount),
		pairList:  solidity.NewMapping[solidity.Index, mill.Address](ctx, slotPairList),
	}
}

func (v *Venue) Address() mill.Address {
	return v.ctx.Address()
}

func sortTokens(a, b mill.Address) (mill.Address, mill.Address) {
	if bytes.Compare(a.Bytes(), b.Bytes()) > 0 {
		return b, a
	}
	return a, b
}

// PairAddress derives the address of the pair of a and b, in either order.
func (v *Venue) PairAddress(a, b mill.Address) mill.Address {
	return PairAddress(v.ctx.Address(), a, b)
}

// PairAddress derives the address of the pair of a and b on the venue at venue.
func PairAddress(venue, a, b mill.Address) mill.Address {
	t0, t1 := sortTokens(a, b)
	h := mill.Blake2b(venue.Bytes(), t0.Bytes(), t1.Bytes())
	return mill.BytesToAddress(h[12:])
}

// CreatePair registers the pair of a and b.
func (v *Venue) CreatePair(a, b mill.Address) (mill.Address, error) {
	if a == b {
		return mill.Address{}, reverts.New(reverts.InvalidParameter, "identical tokens")
	}
	if a.IsZero() || b.IsZero() {
		return mill.Address{}, reverts.New(reverts.InvalidParameter, "zero address")
	}
	if _, ok, err := v.GetPool(a, b); err != nil {
		return mill.Address{}, err
	} else if ok {
		return mill.Address{}, reverts.New(reverts.InvalidParameter, "pair exists")
	}
	t0, t1 := sortTokens(a, b)
	addr := v.PairAddress(t0, t1)
	if err := v.pairs.Set(solidity.PairKey{A: t0, B: t1}, addr); err != nil {
		return mill.Address{}, err
	}
	n, err := v.pairCount.Get()
	if err != nil {
		return mill.Address{}, err
	}
	if err := v.pairList.Set(solidity.Index(n), addr); err != nil {
		return mill.Address{}, err
	}
	if err := v.pairCount.Set(n + 1); err != nil {
		return mill.Address{}, err
	}
	v.pair(addr).init(t0, t1)
	return addr, v.ctx.Emit("PairCreated", &pairCreatedEvent{t0, t1, addr},
		solidity.AddressTopic(t0), solidity.AddressTopic(t1))
}

// GetPool returns the pair of a and b, if one was created.
func (v *Venue) GetPool(a, b mill.Address) (mill.Address, bool, error) {
	t0, t1 := sortTokens(a, b)
	addr, err := v.pairs.Get(solidity.PairKey{A: t0, B: t1})
	if err != nil {
		return mill.Address{}, false, err
	}
	return addr, !addr.IsZero(), nil
}

// Pairs lists every pair in creation order.
func (v *Venue) Pairs() ([]mill.Address, error) {
	n, err := v.pairCount.Get()
	if err != nil {
		return nil, err
	}
	out := make([]mill.Address, 0, n)
	for i := range n {
		addr, err := v.pairList.Get(solidity.Index(i))
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

func (v *Venue) pair(addr mill.Address) *Pair {
	return newPair(solidity.NewContext(addr, v.state(), v.ctx.Now()), v.tokens)
}

func (v *Venue) state() *state.State {
	return v.ctx.State()
}

// Pair returns a created pair.
func (v *Venue) Pair(addr mill.Address) (*Pair, error) {
	p := v.pair(addr)
	t0, _, err := p.Tokens()
	if err != nil {
		return nil, err
	}
	if t0.IsZero() {
		return nil, reverts.Newf(reverts.ConversionUnavailable, "no pair at %s", addr)
	}
	return p, nil
}

// AddLiquidity deposits amountA of a and amountB of b from provider into their pair and
// mints LP tokens to provider.
func (v *Venue) AddLiquidity(provider, a, b mill.Address, amountA, amountB *big.Int) (*big.Int, error) {
	addr, ok, err := v.GetPool(a, b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.Newf(reverts.ConversionUnavailable, "no pair for %s and %s", a, b)
	}
	return v.pair(addr).addLiquidity(provider, a, amountA, amountB)
}

// Burn redeems liquidity LP tokens of holder for the underlying of the pair.
func (v *Venue) Burn(holder, pairAddr mill.Address, liquidity *big.Int) (*Redemption, error) {
	p, err := v.Pair(pairAddr)
	if err != nil {
		return nil, err
	}
	return p.burn(holder, liquidity)
}

// Swap sells amountIn of tokenIn from caller into the pair and sends the output to `to`.
func (v *Venue) Swap(caller, pairAddr, tokenIn mill.Address, amountIn, minOut *big.Int, to mill.Address) (*big.Int, error) {
	p, err := v.Pair(pairAddr)
	if err != nil {
		return nil, err
	}
	return p.swap(caller, tokenIn, amountIn, minOut, to)
}

type pairCreatedEvent struct {
	Token0 mill.Address `json:"token0"`
	Token1 mill.Address `json:"token1"`
	Pair   mill.Address `json:"pair"`
}
