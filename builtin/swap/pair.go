// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package swap

import (
	"math/big"

	"github.com/rewardmill/rewardmill/builtin/reverts"
	"github.com/rewardmill/rewardmill/builtin/solidity"
	"github.com/rewardmill/rewardmill/fixedpoint"
	"github.com/rewardmill/rewardmill/mill"
)

var (
	slotToken0   = solidity.Slot("token0")
	slotToken1   = solidity.Slot("token1")
	slotReserve0 = solidity.Slot("reserve0")
	slotReserve1 = solidity.Slot("reserve1")

	feeNumerator   = big.NewInt(997)
	feeDenominator = big.NewInt(1000)
)

// Pair is a constant-product pool of two tokens.
type Pair struct {
	ctx      *solidity.Context
	tokens   Tokens
	token0   *solidity.Address
	token1   *solidity.Address
	reserve0 *solidity.Uint256
	reserve1 *solidity.Uint256
}

func newPair(ctx *solidity.Context, tokens Tokens) *Pair {
	return &Pair{
		ctx:      ctx,
		tokens:   tokens,
		token0:   solidity.NewAddress(ctx, slotToken0),
		token1:   solidity.NewAddress(ctx, slotToken1),
		reserve0: solidity.NewUint256(ctx, slotReserve0),
		reserve1: solidity.NewUint256(ctx, slotReserve1),
	}
}

// Redemption is what burning LP tokens paid out.
type Redemption struct {
	Token0  mill.Address `json:"token0"`
	Token1  mill.Address `json:"token1"`
	Amount0 *big.Int     `json:"amount0"`
	Amount1 *big.Int     `json:"amount1"`
}

// AmountOf returns the redeemed amount of token, zero if it is not in the pair.
func (r *Redemption) AmountOf(token mill.Address) *big.Int {
	switch token {
	case r.Token0:
		return r.Amount0
	case r.Token1:
		return r.Amount1
	}
	return new(big.Int)
}

func (p *Pair) init(t0, t1 mill.Address) {
	p.token0.Set(t0)
	p.token1.Set(t1)
}

func (p *Pair) Address() mill.Address {
	return p.ctx.Address()
}

func (p *Pair) Tokens() (mill.Address, mill.Address, error) {
	t0, err := p.token0.Get()
	if err != nil {
		return mill.Address{}, mill.Address{}, err
	}
	t1, err := p.token1.Get()
	if err != nil {
		return mill.Address{}, mill.Address{}, err
	}
	return t0, t1, nil
}

func (p *Pair) Reserves() (*big.Int, *big.Int, error) {
	r0, err := p.reserve0.Get()
	if err != nil {
		return nil, nil, err
	}
	r1, err := p.reserve1.Get()
	if err != nil {
		return nil, nil, err
	}
	return r0, r1, nil
}

// GetAmountOut quotes the output for selling amountIn against the given reserves after the
// 0.3% fee.
func GetAmountOut(amountIn, reserveIn, reserveOut *big.Int) *big.Int {
	if amountIn.Sign() <= 0 || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return new(big.Int)
	}
	inWithFee := new(big.Int).Mul(amountIn, feeNumerator)
	num := new(big.Int).Mul(inWithFee, reserveOut)
	den := new(big.Int).Mul(reserveIn, feeDenominator)
	den.Add(den, inWithFee)
	return num.Quo(num, den)
}

// Quote returns the output of selling amountIn of tokenIn now.
func (p *Pair) Quote(tokenIn mill.Address, amountIn *big.Int) (*big.Int, error) {
	reserveIn, reserveOut, _, err := p.oriented(tokenIn)
	if err != nil {
		return nil, err
	}
	return GetAmountOut(amountIn, reserveIn, reserveOut), nil
}

// oriented returns the reserves as (in, out) for tokenIn and the token bought.
func (p *Pair) oriented(tokenIn mill.Address) (*big.Int, *big.Int, mill.Address, error) {
	t0, t1, err := p.Tokens()
	if err != nil {
		return nil, nil, mill.Address{}, err
	}
	r0, r1, err := p.Reserves()
	if err != nil {
		return nil, nil, mill.Address{}, err
	}
	switch tokenIn {
	case t0:
		return r0, r1, t1, nil
	case t1:
		return r1, r0, t0, nil
	}
	return nil, nil, mill.Address{}, reverts.Newf(reverts.InvalidParameter, "%s is not in pair %s", tokenIn, p.ctx.Address())
}

func (p *Pair) setReserves(t0Delta, t1Delta *big.Int) error {
	r0, r1, err := p.Reserves()
	if err != nil {
		return err
	}
	r0.Add(r0, t0Delta)
	r1.Add(r1, t1Delta)
	if r0.Sign() < 0 || r1.Sign() < 0 {
		return reverts.New(reverts.InsufficientBalance, "insufficient liquidity")
	}
	p.reserve0.Set(r0)
	p.reserve1.Set(r1)
	return p.ctx.Emit("Sync", &syncEvent{r0, r1})
}

func (p *Pair) addLiquidity(provider, a mill.Address, amountA, amountB *big.Int) (*big.Int, error) {
	if amountA.Sign() <= 0 || amountB.Sign() <= 0 {
		return nil, reverts.New(reverts.InvalidParameter, "liquidity amounts must be positive")
	}
	t0, t1, err := p.Tokens()
	if err != nil {
		return nil, err
	}
	amount0, amount1 := amountA, amountB
	if a != t0 {
		amount0, amount1 = amountB, amountA
	}
	r0, r1, err := p.Reserves()
	if err != nil {
		return nil, err
	}
	supply, err := p.tokens.TotalSupply(p.ctx.Address())
	if err != nil {
		return nil, err
	}
	var liquidity *big.Int
	if supply.Sign() == 0 {
		liquidity = new(big.Int).Sqrt(new(big.Int).Mul(amount0, amount1))
	} else {
		liquidity = fixedpoint.Min(
			fixedpoint.MustMulDiv(amount0, supply, r0),
			fixedpoint.MustMulDiv(amount1, supply, r1),
		)
	}
	if liquidity.Sign() == 0 {
		return nil, reverts.New(reverts.InvalidParameter, "insufficient liquidity minted")
	}

	if err := p.tokens.Transfer(t0, provider, p.ctx.Address(), amount0); err != nil {
		return nil, err
	}
	if err := p.tokens.Transfer(t1, provider, p.ctx.Address(), amount1); err != nil {
		return nil, err
	}
	if err := p.setReserves(amount0, amount1); err != nil {
		return nil, err
	}
	if err := p.tokens.Mint(p.ctx.Address(), provider, liquidity); err != nil {
		return nil, err
	}
	return liquidity, p.ctx.Emit("Mint", &mintEvent{provider, amount0, amount1, liquidity}, solidity.AddressTopic(provider))
}

func (p *Pair) burn(holder mill.Address, liquidity *big.Int) (*Redemption, error) {
	if liquidity.Sign() <= 0 {
		return nil, reverts.New(reverts.InvalidParameter, "liquidity must be positive")
	}
	t0, t1, err := p.Tokens()
	if err != nil {
		return nil, err
	}
	r0, r1, err := p.Reserves()
	if err != nil {
		return nil, err
	}
	supply, err := p.tokens.TotalSupply(p.ctx.Address())
	if err != nil {
		return nil, err
	}
	if supply.Sign() == 0 {
		return nil, reverts.New(reverts.InsufficientBalance, "pair has no liquidity")
	}
	out := &Redemption{
		Token0:  t0,
		Token1:  t1,
		Amount0: fixedpoint.MustMulDiv(liquidity, r0, supply),
		Amount1: fixedpoint.MustMulDiv(liquidity, r1, supply),
	}
	if err := p.tokens.Burn(p.ctx.Address(), holder, liquidity); err != nil {
		return nil, err
	}
	if err := p.setReserves(new(big.Int).Neg(out.Amount0), new(big.Int).Neg(out.Amount1)); err != nil {
		return nil, err
	}
	if err := p.tokens.Transfer(t0, p.ctx.Address(), holder, out.Amount0); err != nil {
		return nil, err
	}
	if err := p.tokens.Transfer(t1, p.ctx.Address(), holder, out.Amount1); err != nil {
		return nil, err
	}
	return out, p.ctx.Emit("Burn", &burnEvent{holder, out.Amount0, out.Amount1, liquidity}, solidity.AddressTopic(holder))
}

func (p *Pair) swap(caller, tokenIn mill.Address, amountIn, minOut *big.Int, to mill.Address) (*big.Int, error) {
	if amountIn.Sign() <= 0 {
		return nil, reverts.New(reverts.InvalidParameter, "amount in must be positive")
	}
	reserveIn, reserveOut, tokenOut, err := p.oriented(tokenIn)
	if err != nil {
		return nil, err
	}
	amountOut := GetAmountOut(amountIn, reserveIn, reserveOut)
	if amountOut.Sign() == 0 {
		return nil, reverts.Newf(reverts.ConversionUnavailable, "swap of %s %s yields nothing", amountIn, tokenIn)
	}
	if minOut != nil && amountOut.Cmp(minOut) < 0 {
		return nil, reverts.Newf(reverts.ConversionUnavailable, "output %s below minimum %s", amountOut, minOut)
	}

	t0, _, err := p.Tokens()
	if err != nil {
		return nil, err
	}
	in, out := new(big.Int).Set(amountIn), new(big.Int).Neg(amountOut)
	if tokenIn == t0 {
		err = p.setReserves(in, out)
	} else {
		err = p.setReserves(out, in)
	}
	if err != nil {
		return nil, err
	}
	if err := p.tokens.Transfer(tokenIn, caller, p.ctx.Address(), amountIn); err != nil {
		return nil, err
	}
	if err := p.tokens.Transfer(tokenOut, p.ctx.Address(), to, amountOut); err != nil {
		return nil, err
	}
	metricSwaps().Add(1)
	return amountOut, p.ctx.Emit("Swap", &swapEvent{caller, tokenIn, amountIn, amountOut, to}, solidity.AddressTopic(caller))
}

type syncEvent struct {
	Reserve0 *big.Int `json:"reserve0"`
	Reserve1 *big.Int `json:"reserve1"`
}

type mintEvent struct {
	Provider  mill.Address `json:"provider"`
	Amount0   *big.Int     `json:"amount0"`
	Amount1   *big.Int     `json:"amount1"`
	Liquidity *big.Int     `json:"liquidity"`
}

type burnEvent struct {
	Holder    mill.Address `json:"holder"`
	Amount0   *big.Int     `json:"amount0"`
	Amount1   *big.Int     `json:"amount1"`
	Liquidity *big.Int     `json:"liquidity"`
}

type swapEvent struct {
	Sender    mill.Address `json:"sender"`
	TokenIn   mill.Address `json:"tokenIn"`
	AmountIn  *big.Int     `json:"amountIn"`
	AmountOut *big.Int     `json:"amountOut"`
	To        mill.Address `json:"to"`
}
